package repository

import (
	"context"
	"fmt"

	"github.com/monirportfolio/portfolio-server/internal/resource"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository over one MongoDB collection.
// Documents keep the driver-assigned ObjectID in _id.
type MongoRepo struct {
	col       *mongo.Collection
	sortField string
}

func NewMongoRepo(col *mongo.Collection, sortField string) *MongoRepo {
	return &MongoRepo{col: col, sortField: sortField}
}

func (m *MongoRepo) List(ctx context.Context) ([]resource.Document, error) {
	opts := options.Find()
	if m.sortField != "" {
		opts.SetSort(bson.D{{Key: m.sortField, Value: -1}})
	}
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.col.Name(), err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.col.Name(), err)
	}
	out := make([]resource.Document, 0, len(raw))
	for _, r := range raw {
		out = append(out, fromBSON(r))
	}
	return out, nil
}

func (m *MongoRepo) Create(ctx context.Context, doc resource.Document) (string, error) {
	res, err := m.col.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", err
	}
	switch id := res.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(id), nil
	}
}

func (m *MongoRepo) Update(ctx context.Context, id string, fields resource.Document) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": oid}
	// $set rejects an empty document; an empty merge only has to confirm the target exists
	if len(fields) == 0 {
		n, err := m.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}
	res, err := m.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// fromBSON flattens driver-specific top-level values into JSON-friendly ones.
func fromBSON(r bson.M) resource.Document {
	d := make(resource.Document, len(r))
	for k, v := range r {
		switch vv := v.(type) {
		case primitive.ObjectID:
			d[k] = vv.Hex()
		case primitive.DateTime:
			d[k] = vv.Time().UTC()
		default:
			d[k] = vv
		}
	}
	return d
}
