package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/trippila/internal/store/sqlite"
)

// =========================================================================
// TEST HELPERS
// =========================================================================
//
// The services run against a real in-memory SQLite store rather than
// hand-written mocks: the store is fast enough, and the tests then also
// cover the repository filters the services depend on. Where a test needs a
// failure the store can't produce, it wraps a repository in a small fake.

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close(context.Background()) })
	return db
}
