// Package main is the entry point for the Trippila API server.
//
// The main package is kept minimal. Its job is to:
//
//  1. Read configuration (defaults, config.yaml, .env, environment)
//  2. Create dependencies (logger, store connection)
//  3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/sakif/trippila/internal/config"
	"github.com/sakif/trippila/internal/server"
	"github.com/sakif/trippila/internal/store/mongo"
	"github.com/sakif/trippila/internal/store/open"
)

func main() {
	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// Log levels (from least to most severe): Debug → Info → Warn → Error
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	// === 3. CONNECT TO THE STORE ===
	// One handle for the whole process; the server closes it on shutdown.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout+cfg.Database.ServerSelectionTimeout)
	st, err := open.Store(ctx, open.Options{
		URL:          cfg.Database.URL,
		DatabaseName: cfg.Database.Name,
		Mongo: mongo.Options{
			AppName:                "trippila",
			ConnectTimeout:         cfg.Database.ConnectTimeout,
			ServerSelectionTimeout: cfg.Database.ServerSelectionTimeout,
		},
	}, logger)
	cancel()
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, st, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		st.Close(context.Background())
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	// Validate has already rejected unknown levels.
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
