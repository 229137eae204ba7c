package open

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
	"github.com/sakif/trippila/internal/store/sqlite"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestStore_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("in memory", func(t *testing.T) {
		s, err := Store(ctx, Options{URL: "sqlite::memory:"}, discard)
		require.NoError(t, err)
		defer s.Close(ctx)

		_, ok := s.(*sqlite.DB)
		assert.True(t, ok)
		assert.NoError(t, s.Ping(ctx))
	})

	t.Run("file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trippila.db")

		s, err := Store(ctx, Options{URL: "sqlite://" + path}, discard)
		require.NoError(t, err)

		id, err := s.Collection(store.Movies).InsertOne(ctx, model.Document{"title": "Dune"})
		require.NoError(t, err)
		require.NoError(t, s.Close(ctx))

		reopened, err := Store(ctx, Options{URL: "sqlite:" + path}, discard)
		require.NoError(t, err)
		defer reopened.Close(ctx)

		doc, err := reopened.Collection(store.Movies).FindOne(ctx, store.ByID(id))
		require.NoError(t, err)
		assert.Equal(t, "Dune", doc["title"])
	})

	t.Run("no path", func(t *testing.T) {
		_, err := Store(ctx, Options{URL: "sqlite://"}, discard)
		assert.Error(t, err)
	})
}

func TestStore_UnsupportedScheme(t *testing.T) {
	_, err := Store(context.Background(), Options{URL: "postgres://admin:hunter2@db:5432/x"}, discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres://...")
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "mongodb+srv://...", redact("mongodb+srv://u:p@cluster0.example.net"))
	assert.Equal(t, "garbage-...", redact("garbage-without-scheme"))
	assert.Equal(t, "short", redact("short"))
}
