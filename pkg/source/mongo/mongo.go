// Package mongo reads person rows from a MongoDB collection.
//
// Each document is one person. Field names match the CSV header
// (id, person_name, sex, father_id, mother_id, marriage_N); numeric and
// null fields are converted to the string cells the record parser expects.
// The _id field is ignored.
package mongo

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/source"
)

// Config locates a collection.
type Config struct {
	URI        string
	Database   string
	Collection string

	// SortBy orders the documents. Empty means natural order.
	SortBy string
}

// Source reads rows from a collection.
type Source struct {
	client *mongo.Client
	coll   *mongo.Collection
	sortBy string
}

// Open connects using cfg. Call Close when done.
func Open(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.URI == "" || cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("mongo: uri, database and collection are required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := New(client.Database(cfg.Database).Collection(cfg.Collection), cfg.SortBy)
	s.client = client
	return s, nil
}

// New wraps an existing collection. Close on the result is a no-op.
func New(coll *mongo.Collection, sortBy string) *Source {
	return &Source{coll: coll, sortBy: sortBy}
}

// Rows loads every document.
func (s *Source) Rows(ctx context.Context) ([]family.Row, error) {
	opts := options.Find()
	if s.sortBy != "" {
		opts.SetSort(bson.D{{Key: s.sortBy, Value: 1}})
	}
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var rows []family.Row
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo decode document %d: %w", len(rows)+1, err)
		}
		row, err := toRow(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}
	return rows, nil
}

// Close disconnects a client created by Open.
func (s *Source) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func toRow(doc bson.M) (family.Row, error) {
	row := make(family.Row, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		cell, err := cellString(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		row[k] = cell
	}
	return row, nil
}

func cellString(v any) (string, error) {
	switch x := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return "", nil
	case string:
		return x, nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		if math.IsNaN(x) {
			return "", nil
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case primitive.Decimal128:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

var _ source.Source = (*Source)(nil)
