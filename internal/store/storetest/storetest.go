// Package storetest is a conformance suite for store.Store implementations.
//
// Each backend's tests call Run with a constructor for an empty store. The
// suite pins down the semantics the repositories rely on, so SQLite and
// MongoDB cannot drift apart.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
)

// Run executes every conformance test. newStore must return an empty store
// and register its own cleanup.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("InsertAndFindOne", func(t *testing.T) { testInsertAndFindOne(t, newStore(t)) })
	t.Run("FindOneMissing", func(t *testing.T) { testFindOneMissing(t, newStore(t)) })
	t.Run("RawStringIDNeverMatches", func(t *testing.T) { testRawStringIDNeverMatches(t, newStore(t)) })
	t.Run("FilterIsExactAndTyped", func(t *testing.T) { testFilterIsExactAndTyped(t, newStore(t)) })
	t.Run("FindSkipLimit", func(t *testing.T) { testFindSkipLimit(t, newStore(t)) })
	t.Run("UpdateOneMerges", func(t *testing.T) { testUpdateOneMerges(t, newStore(t)) })
	t.Run("UpdateOneUnchanged", func(t *testing.T) { testUpdateOneUnchanged(t, newStore(t)) })
	t.Run("AddToSet", func(t *testing.T) { testAddToSet(t, newStore(t)) })
	t.Run("DeleteOne", func(t *testing.T) { testDeleteOne(t, newStore(t)) })
	t.Run("UnknownCollection", func(t *testing.T) { testUnknownCollection(t, newStore(t)) })
}

func testInsertAndFindOne(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Collection(store.Users)

	id, err := users.InsertOne(ctx, model.Document{
		"email":    "ada@example.com",
		"username": "ada",
		"age":      float64(36),
		"tags":     []any{"math", "engines"},
		"address":  map[string]any{"city": "London"},
	})
	require.NoError(t, err)
	require.False(t, id.IsZero())

	doc, err := users.FindOne(ctx, store.ByID(id))
	require.NoError(t, err)

	assert.Equal(t, id, doc[model.IDField])
	assert.Equal(t, "ada@example.com", doc["email"])
	assert.EqualValues(t, 36, doc["age"])
	assert.Equal(t, []any{"math", "engines"}, doc["tags"])
	assert.Equal(t, map[string]any{"city": "London"}, doc["address"])
}

func testFindOneMissing(t *testing.T, s store.Store) {
	_, err := s.Collection(store.Movies).FindOne(context.Background(), store.ByID(model.NewID()))
	assert.ErrorIs(t, err, store.ErrNoDocument)
}

func testRawStringIDNeverMatches(t *testing.T, s store.Store) {
	ctx := context.Background()
	movies := s.Collection(store.Movies)

	id, err := movies.InsertOne(ctx, model.Document{"title": "Dune"})
	require.NoError(t, err)

	res, err := movies.UpdateOne(ctx, store.Filter{"_id": id.String()}, model.Document{"title": "Arrival"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Matched)

	doc, err := movies.FindOne(ctx, store.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, "Dune", doc["title"])
}

func testFilterIsExactAndTyped(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Collection(store.Users)

	for _, d := range []model.Document{
		{"username": "ada", "gender": "f", "membership": "gold"},
		{"username": "alan", "gender": "m", "membership": "gold"},
		{"username": "grace", "gender": "f", "membership": "silver"},
		{"username": "20", "gender": "x"},
		{"username": float64(20), "gender": "x"},
	} {
		_, err := users.InsertOne(ctx, d)
		require.NoError(t, err)
	}

	docs, err := users.Find(ctx, store.Filter{"gender": "f", "membership": "gold"}, store.FindOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ada", docs[0]["username"])

	// a string criterion does not match a number with the same digits
	docs, err = users.Find(ctx, store.Filter{"username": "20"}, store.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = users.Find(ctx, store.Filter{"username": "ad"}, store.FindOptions{})
	require.NoError(t, err)
	assert.Empty(t, docs)

	n, err := users.Count(ctx, store.Filter{"membership": "gold"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func testFindSkipLimit(t *testing.T, s store.Store) {
	ctx := context.Background()
	events := s.Collection(store.Events)

	for i := 0; i < 7; i++ {
		_, err := events.InsertOne(ctx, model.Document{"n": float64(i)})
		require.NoError(t, err)
	}

	page, err := events.Find(ctx, nil, store.FindOptions{Skip: 3, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page, 3)

	last, err := events.Find(ctx, nil, store.FindOptions{Skip: 6, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, last, 1)

	all, err := events.Find(ctx, nil, store.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 7)

	total, err := events.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}

func testUpdateOneMerges(t *testing.T, s store.Store) {
	ctx := context.Background()
	events := s.Collection(store.Events)

	id, err := events.InsertOne(ctx, model.Document{"title": "Jazz Night", "price": float64(20)})
	require.NoError(t, err)

	res, err := events.UpdateOne(ctx, store.ByID(id), model.Document{"price": float64(25), "city": "Austin"})
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1, Modified: 1}, res)

	doc, err := events.FindOne(ctx, store.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", doc["title"])
	assert.EqualValues(t, 25, doc["price"])
	assert.Equal(t, "Austin", doc["city"])

	res, err = events.UpdateOne(ctx, store.ByID(model.NewID()), model.Document{"price": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Matched)
}

func testUpdateOneUnchanged(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Collection(store.Users)

	id, err := users.InsertOne(ctx, model.Document{"username": "ada"})
	require.NoError(t, err)

	res, err := users.UpdateOne(ctx, store.ByID(id), model.Document{"username": "ada"})
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1, Modified: 0}, res)
}

func testAddToSet(t *testing.T, s store.Store) {
	ctx := context.Background()
	participants := s.Collection(store.Participants)

	_, err := participants.InsertOne(ctx, model.Document{"event_id": "e1", "user_ids": []any{"u1"}})
	require.NoError(t, err)

	res, err := participants.AddToSet(ctx, store.Filter{"event_id": "e1"}, "user_ids", "u2")
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1, Modified: 1}, res)

	res, err = participants.AddToSet(ctx, store.Filter{"event_id": "e1"}, "user_ids", "u1")
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1, Modified: 0}, res)

	doc, err := participants.FindOne(ctx, store.Filter{"event_id": "e1"})
	require.NoError(t, err)
	assert.Equal(t, []any{"u1", "u2"}, doc["user_ids"])
}

func testDeleteOne(t *testing.T, s store.Store) {
	ctx := context.Background()
	shows := s.Collection(store.Shows)

	id, err := shows.InsertOne(ctx, model.Document{"category": "imax"})
	require.NoError(t, err)

	n, err := shows.DeleteOne(ctx, store.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = shows.DeleteOne(ctx, store.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = shows.FindOne(ctx, store.ByID(id))
	assert.True(t, errors.Is(err, store.ErrNoDocument))
}

func testUnknownCollection(t *testing.T, s store.Store) {
	_, err := s.Collection("tickets").Count(context.Background(), nil)
	assert.ErrorIs(t, err, store.ErrUnknownCollection)
}
