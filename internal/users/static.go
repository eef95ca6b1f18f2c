package users

import (
	"context"

	"github.com/monirportfolio/portfolio-server/internal/models"
)

// StaticUserRepository serves a fixed set of users, for the dev server.
type StaticUserRepository struct {
	byName map[string]models.User
}

func NewStaticUserRepository(list ...models.User) *StaticUserRepository {
	m := make(map[string]models.User, len(list))
	for _, u := range list {
		m[u.UserName] = u
	}
	return &StaticUserRepository{byName: m}
}

func (r *StaticUserRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	u, ok := r.byName[userName]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
