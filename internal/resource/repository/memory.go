package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/monirportfolio/portfolio-server/internal/resource"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory repository used by the dev server and unit tests.
// Identifiers are ObjectID hex strings so id parsing behaves like the Mongo store.
type MemoryRepo struct {
	mu        sync.RWMutex
	order     []string
	store     map[string]resource.Document
	sortField string
}

// NewMemoryRepo creates an empty repository. A non-empty sortField orders List
// by that field, newest first.
func NewMemoryRepo(sortField string) *MemoryRepo {
	return &MemoryRepo{store: make(map[string]resource.Document), sortField: sortField}
}

func (m *MemoryRepo) Create(ctx context.Context, doc resource.Document) (string, error) {
	id := primitive.NewObjectID().Hex()
	stored := copyDoc(doc)
	stored[resource.IDField] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[id] = stored
	m.order = append(m.order, id)
	return id, nil
}

func (m *MemoryRepo) List(ctx context.Context) ([]resource.Document, error) {
	m.mu.RLock()
	out := make([]resource.Document, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, copyDoc(m.store[id]))
	}
	m.mu.RUnlock()

	if m.sortField != "" {
		field := m.sortField
		sort.SliceStable(out, func(i, j int) bool {
			ti, iok := out[i][field].(time.Time)
			tj, jok := out[j][field].(time.Time)
			if iok != jok {
				return iok
			}
			return ti.After(tj)
		})
	}
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, fields resource.Document) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		if k == resource.IDField {
			continue
		}
		d[k] = v
	}
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func copyDoc(d resource.Document) resource.Document {
	out := make(resource.Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
