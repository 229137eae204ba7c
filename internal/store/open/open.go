// Package open selects and connects a store backend from a connection string.
//
// It lives apart from package store so the backends can import store without
// an import cycle.
package open

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/trippila/internal/store"
	"github.com/sakif/trippila/internal/store/mongo"
	"github.com/sakif/trippila/internal/store/sqlite"
)

// Options configures Store.
type Options struct {
	URL          string // mongodb://..., mongodb+srv://..., sqlite://path or sqlite::memory:
	DatabaseName string // MongoDB database name; ignored by SQLite
	Mongo        mongo.Options
}

// Store connects to the backend named by opts.URL.
func Store(ctx context.Context, opts Options, logger *slog.Logger) (store.Store, error) {
	switch {
	case strings.HasPrefix(opts.URL, "mongodb://"), strings.HasPrefix(opts.URL, "mongodb+srv://"):
		mopts := opts.Mongo
		mopts.URI = opts.URL
		mopts.Database = opts.DatabaseName
		s, err := mongo.New(ctx, mopts, logger)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		return s, nil

	case strings.HasPrefix(opts.URL, "sqlite:"):
		path := strings.TrimPrefix(strings.TrimPrefix(opts.URL, "sqlite:"), "//")
		if path == "" {
			return nil, fmt.Errorf("open: sqlite URL %q has no path", opts.URL)
		}
		s, err := sqlite.New(path)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		return s, nil
	}

	return nil, fmt.Errorf("open: unsupported database URL scheme in %q", redact(opts.URL))
}

// redact drops everything after the scheme so credentials never reach the logs.
func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "..."
	}
	if len(url) > 8 {
		return url[:8] + "..."
	}
	return url
}
