package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
)

// Client owns the MongoDB connection backing the store.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect dials MongoDB and verifies the connection.
func Connect(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(dbName),
		logger: logger.Named("repo.mongodb"),
	}, nil
}

// Store exposes every dashboard table as a collection.
func (c *Client) Store() repository.Store {
	return repository.Store{
		Sheep:         NewCollection[models.Sheep](c.db, repository.TableSheep, c.logger),
		Sales:         NewCollection[models.Sale](c.db, repository.TableSales, c.logger),
		Expenses:      NewCollection[models.Expense](c.db, repository.TableExpenses, c.logger),
		Ledger:        NewCollection[models.LedgerRecord](c.db, repository.TableLedger, c.logger),
		HealthRecords: NewCollection[models.HealthRecord](c.db, repository.TableHealthRecords, c.logger),
		Users:         NewCollection[models.User](c.db, repository.TableUsers, c.logger),
		Snapshots:     NewCollection[models.ReportSnapshot](c.db, repository.TableSnapshots, c.logger),
	}
}

// EnsureIndexes creates the indexes the list views sort and filter on.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		repository.TableSheep: {
			{Keys: bson.D{{Key: "ear_tag", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_by", Value: 1}}},
		},
		repository.TableSales:         {{Keys: bson.D{{Key: "date", Value: -1}}}},
		repository.TableExpenses:      {{Keys: bson.D{{Key: "date", Value: -1}}}},
		repository.TableLedger:        {{Keys: bson.D{{Key: "created_at", Value: -1}}}},
		repository.TableHealthRecords: {{Keys: bson.D{{Key: "record_type", Value: 1}, {Key: "created_at", Value: -1}}}},
		repository.TableSnapshots:     {{Keys: bson.D{{Key: "created_at", Value: -1}}}},
	}
	for name, specs := range indexes {
		if _, err := c.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Collection implements repository.Table over one MongoDB collection.
type Collection[T repository.Record] struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewCollection binds a table to the named collection.
func NewCollection[T repository.Record](db *mongo.Database, name string, logger *zap.Logger) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T]{coll: db.Collection(name), logger: logger.With(zap.String("collection", name))}
}

// List implements repository.Table.
func (c *Collection[T]) List(ctx context.Context, q repository.Query) ([]T, error) {
	filter, err := buildFilter(q.Filters)
	if err != nil {
		return nil, err
	}
	opts := options.Find()
	if q.OrderBy != "" {
		direction := 1
		if q.Descending {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: column(q.OrderBy), Value: direction}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.coll.Name(), err)
	}
	c.logger.Debug("listed records", zap.Int("count", len(out)))
	return out, nil
}

// Insert implements repository.Table.
func (c *Collection[T]) Insert(ctx context.Context, record T) error {
	if _, err := c.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

// Update implements repository.Table.
func (c *Collection[T]) Update(ctx context.Context, id string, record T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, record)
	if err != nil {
		return fmt.Errorf("failed to update %s %q: %w", c.coll.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update %s %q: %w", c.coll.Name(), id, repository.ErrNotFound)
	}
	return nil
}

// Delete implements repository.Table.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete %s %q: %w", c.coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s %q: %w", c.coll.Name(), id, repository.ErrNotFound)
	}
	return nil
}

var errUnsupportedOp = errors.New("unsupported filter operator")

// buildFilter translates query filters into a MongoDB filter document. More
// than one condition is combined with $and so bounds on the same column stack.
func buildFilter(filters []repository.Filter) (bson.D, error) {
	conds := make(bson.A, 0, len(filters))
	for _, f := range filters {
		var value any
		switch f.Op {
		case repository.OpEq:
			value = f.Value
		case repository.OpIn:
			value = bson.D{{Key: "$in", Value: f.Value}}
		case repository.OpGte:
			value = bson.D{{Key: "$gte", Value: f.Value}}
		case repository.OpLte:
			value = bson.D{{Key: "$lte", Value: f.Value}}
		default:
			return nil, fmt.Errorf("%w: %q", errUnsupportedOp, f.Op)
		}
		conds = append(conds, bson.D{{Key: column(f.Field), Value: value}})
	}
	switch len(conds) {
	case 0:
		return bson.D{}, nil
	case 1:
		return conds[0].(bson.D), nil
	default:
		return bson.D{{Key: "$and", Value: conds}}, nil
	}
}

func column(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}
