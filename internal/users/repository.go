package users

import (
	"context"
	"errors"

	"github.com/monirportfolio/portfolio-server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines read access to login records
type UserRepository interface {
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new repository for the given collection
func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

// GetByUserName returns (nil, nil) when no record matches.
func (r *MongoUserRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	var raw bson.M
	if err := r.col.FindOne(ctx, bson.M{"userName": userName}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return userFromBSON(raw), nil
}

// userFromBSON decodes leniently: a password stored as a non-string value is
// left empty, and empty secrets never authenticate.
func userFromBSON(raw bson.M) *models.User {
	u := &models.User{}
	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	u.UserName, _ = raw["userName"].(string)
	u.Password, _ = raw["password"].(string)
	return u
}
