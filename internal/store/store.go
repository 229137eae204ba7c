// Package store is the storage client: a process-wide handle on a document
// database exposing the API's named collections.
//
// Two backends implement it:
//
//	store/mongo   MongoDB (production)
//	store/sqlite  JSON documents in SQLite (local development and tests)
//
// open.Store picks the backend from the connection string's scheme.
package store

import (
	"context"
	"errors"

	"github.com/sakif/trippila/internal/model"
)

// Collection names.
const (
	Users        = "users"
	Movies       = "movies"
	Shows        = "shows"
	Events       = "events"
	Participants = "participants"
)

// Collections lists every collection the API uses.
var Collections = []string{Users, Movies, Shows, Events, Participants}

// ErrNoDocument is returned by FindOne when nothing matches the filter.
var ErrNoDocument = errors.New("store: no document matches the filter")

// ErrUnknownCollection is returned for a collection name outside Collections.
var ErrUnknownCollection = errors.New("store: unknown collection")

// Filter is an AND of exact-match conditions on top-level fields.
//
// The "_id" key must hold a model.ID to match a stored document. Any other
// value type under "_id" (for example a raw string) never matches, the same
// way MongoDB does not match a string against an ObjectID.
type Filter map[string]any

// FindOptions controls paging for Find. A zero Limit means no limit.
type FindOptions struct {
	Skip  int64
	Limit int64
}

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Collection is the set of operations the repositories need.
type Collection interface {
	FindOne(ctx context.Context, filter Filter) (model.Document, error)
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]model.Document, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	InsertOne(ctx context.Context, doc model.Document) (model.ID, error)
	// UpdateOne merges set into the first matching document ($set semantics).
	UpdateOne(ctx context.Context, filter Filter, set model.Document) (UpdateResult, error)
	// AddToSet appends value to the array field of the first matching
	// document unless it is already present ($addToSet semantics).
	AddToSet(ctx context.Context, filter Filter, field string, value any) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (int64, error)
}

// Store is the storage client.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// IsKnownCollection reports whether name is one of Collections.
func IsKnownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// ByID is the filter matching a single document identifier.
func ByID(id model.ID) Filter {
	return Filter{model.IDField: id}
}
