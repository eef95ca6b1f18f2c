package service

import (
	"context"
	"errors"
	"time"

	"github.com/monirportfolio/portfolio-server/internal/resource"
	"github.com/monirportfolio/portfolio-server/internal/resource/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound   = repository.ErrNotFound
	ErrInvalidID  = repository.ErrInvalidID
	ErrNotCreated = errors.New("store did not assign an identifier")
)

// Service defines the resource operations used by the handler layer.
type Service interface {
	Kind() resource.Kind
	List(ctx context.Context) ([]resource.Document, error)
	Create(ctx context.Context, fields resource.Document) (string, error)
	Update(ctx context.Context, id string, fields resource.Document) error
	Delete(ctx context.Context, id string) error
}

// Option customizes a Service.
type Option func(*crudService)

// WithClock overrides the clock used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *crudService) { s.now = now }
}

// New returns a Service for kind over the given repository.
func New(kind resource.Kind, repo repository.Repository, opts ...Option) Service {
	s := &crudService{kind: kind, repo: repo, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(kind resource.Kind, opts ...Option) Service {
	return New(kind, repository.NewMemoryRepo(kind.SortField()), opts...)
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(kind resource.Kind, col *mongo.Collection, opts ...Option) Service {
	return New(kind, repository.NewMongoRepo(col, kind.SortField()), opts...)
}

type crudService struct {
	kind resource.Kind
	repo repository.Repository
	now  func() time.Time
}

func (s *crudService) Kind() resource.Kind { return s.kind }

func (s *crudService) List(ctx context.Context) ([]resource.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []resource.Document{}
	}
	return docs, nil
}

// Create inserts fields as a new document. The store always assigns the identifier;
// timestamped kinds get createdAt stamped here.
func (s *crudService) Create(ctx context.Context, fields resource.Document) (string, error) {
	doc := fields.WithoutID()
	if s.kind.Timestamped {
		// BSON dates carry millisecond precision
		doc[resource.CreatedAtField] = s.now().UTC().Truncate(time.Millisecond)
	}
	id, err := s.repo.Create(ctx, doc)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrNotCreated
	}
	return id, nil
}

// Update merges fields into the document; caller-supplied identifiers are dropped.
func (s *crudService) Update(ctx context.Context, id string, fields resource.Document) error {
	return s.repo.Update(ctx, id, fields.WithoutID())
}

func (s *crudService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
