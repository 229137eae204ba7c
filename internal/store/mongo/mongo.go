// Package mongo implements store.Store on MongoDB with the official Go driver.
//
// The driver's *mongo.Client is a connection pool that is safe for concurrent
// use, so one Store is created at startup and shared by every request.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
)

var _ store.Store = (*Store)(nil)

// Options configures the client.
type Options struct {
	URI                    string
	Database               string
	AppName                string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

// Store is a store.Store backed by one MongoDB database.
type Store struct {
	client *driver.Client
	db     *driver.Database
	logger *slog.Logger
}

// New connects, pings the primary and returns the Store.
// The caller owns the Store and must Close it at shutdown.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Store, error) {
	if opts.URI == "" {
		return nil, errors.New("mongo: connection URI is required")
	}
	if opts.Database == "" {
		return nil, errors.New("mongo: database name is required")
	}

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.AppName != "" {
		clientOpts.SetAppName(opts.AppName)
	}
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}
	if opts.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}

	client, err := driver.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging primary: %w", err)
	}

	logger.Info("connected to MongoDB", slog.String("database", opts.Database))

	return &Store{
		client: client,
		db:     client.Database(opts.Database),
		logger: logger,
	}, nil
}

// Collection returns the named collection.
func (s *Store) Collection(name string) store.Collection {
	if !store.IsKnownCollection(name) {
		return store.UnknownCollection(name)
	}
	return &collection{coll: s.db.Collection(name)}
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client, waiting for in-use connections up to ctx's deadline.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnecting: %w", err)
	}
	return nil
}

// Database exposes the underlying database (integration tests drop it).
func (s *Store) Database() *driver.Database {
	return s.db
}

var _ store.Collection = (*collection)(nil)

type collection struct {
	coll *driver.Collection
}

func (c *collection) FindOne(ctx context.Context, filter store.Filter) (model.Document, error) {
	var m bson.M
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(&m)
	if errors.Is(err, driver.ErrNoDocuments) {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find one in %s: %w", c.coll.Name(), err)
	}
	return fromBSON(m), nil
}

func (c *collection) Find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]model.Document, error) {
	findOpts := options.Find()
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := c.coll.Find(ctx, toBSON(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find in %s: %w", c.coll.Name(), err)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("mongo: reading %s cursor: %w", c.coll.Name(), err)
	}

	docs := make([]model.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBSON(m))
	}
	return docs, nil
}

func (c *collection) Count(ctx context.Context, filter store.Filter) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("mongo: counting %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

func (c *collection) InsertOne(ctx context.Context, doc model.Document) (model.ID, error) {
	id := model.NewID()

	m := toBSONDoc(doc.Without(model.IDField))
	m[model.IDField] = id.ObjectID()

	if _, err := c.coll.InsertOne(ctx, m); err != nil {
		return model.ID{}, fmt.Errorf("mongo: inserting into %s: %w", c.coll.Name(), err)
	}
	return id, nil
}

func (c *collection) UpdateOne(ctx context.Context, filter store.Filter, set model.Document) (store.UpdateResult, error) {
	fields := toBSONDoc(set.Without(model.IDField))
	if len(fields) == 0 {
		// MongoDB rejects an empty $set; report the match without writing.
		n, err := c.coll.CountDocuments(ctx, toBSON(filter), options.Count().SetLimit(1))
		if err != nil {
			return store.UpdateResult{}, fmt.Errorf("mongo: counting %s: %w", c.coll.Name(), err)
		}
		return store.UpdateResult{Matched: n}, nil
	}

	res, err := c.coll.UpdateOne(ctx, toBSON(filter), bson.M{"$set": fields})
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("mongo: updating %s: %w", c.coll.Name(), err)
	}
	return store.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (c *collection) AddToSet(ctx context.Context, filter store.Filter, field string, value any) (store.UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, toBSON(filter), bson.M{"$addToSet": bson.M{field: toBSONValue(value)}})
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("mongo: adding to %s.%s: %w", c.coll.Name(), field, err)
	}
	return store.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (c *collection) DeleteOne(ctx context.Context, filter store.Filter) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("mongo: deleting from %s: %w", c.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

// toBSON converts a filter. A model.ID becomes an ObjectID; every other value,
// including a raw string under "_id", is passed through untouched.
func toBSON(filter store.Filter) bson.M {
	m := bson.M{}
	for k, v := range filter {
		m[k] = toBSONValue(v)
	}
	return m
}

func toBSONDoc(doc model.Document) bson.M {
	m := make(bson.M, len(doc))
	for k, v := range doc {
		m[k] = toBSONValue(v)
	}
	return m
}

func toBSONValue(v any) any {
	switch val := v.(type) {
	case model.ID:
		return val.ObjectID()
	case model.Document:
		return toBSONDoc(val)
	case map[string]any:
		return toBSONDoc(val)
	case []any:
		out := make(bson.A, len(val))
		for i, item := range val {
			out[i] = toBSONValue(item)
		}
		return out
	}
	return v
}

// fromBSON converts a decoded document into the plain shapes the rest of the
// application works with: "_id" becomes a model.ID, nested documents become
// maps and arrays become []any.
func fromBSON(m bson.M) model.Document {
	doc := make(model.Document, len(m))
	for k, v := range m {
		if oid, ok := v.(primitive.ObjectID); ok && k == model.IDField {
			doc[k] = model.IDFromObjectID(oid)
			continue
		}
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = fromBSONValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = fromBSONValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBSONValue(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	}
	return v
}
