package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/monirportfolio/portfolio-server/internal/resource"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid identifier")
)

// Repository persists the documents of a single resource collection.
// Create returns the store-assigned identifier, or "" when the store did not report one.
type Repository interface {
	List(ctx context.Context) ([]resource.Document, error)
	Create(ctx context.Context, doc resource.Document) (string, error)
	Update(ctx context.Context, id string, fields resource.Document) error
	Delete(ctx context.Context, id string) error
}

// parseID converts a path identifier into the store's native ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return oid, nil
}
