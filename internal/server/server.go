// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer: it connects handlers, middleware, and routes.
// It decides:
//
//   - Which URL patterns map to which handler functions
//   - What middleware runs on every request
//   - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//
//	config.Config, *slog.Logger, store.Store (MongoDB or SQLite)
//
// server.New() creates:
//
//	store → repositories → services → handlers → routes
//
// This is the "composition root" pattern: all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/sakif/trippila/internal/auth"
	"github.com/sakif/trippila/internal/config"
	"github.com/sakif/trippila/internal/handler"
	"github.com/sakif/trippila/internal/metrics"
	"github.com/sakif/trippila/internal/middleware"
	"github.com/sakif/trippila/internal/repository"
	"github.com/sakif/trippila/internal/service"
	"github.com/sakif/trippila/internal/store"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store handle it is given. Start closes it after the
// HTTP server has drained, so in-flight requests never see a closed store.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	store   store.Store
	metrics *metrics.Metrics
}

// New wires the whole dependency chain on top of st:
//
//  1. Repositories, one per collection, over the shared store
//  2. Services with their business rules and compatibility switches
//  3. Handlers, which only see service interfaces
//  4. Routes and middleware
func New(cfg *config.Config, st store.Store, logger *slog.Logger) (*Server, error) {
	mode, err := auth.ParseMode(cfg.Security.PasswordHashing)
	if err != nil {
		return nil, err
	}
	passwords, err := auth.NewPasswordService(mode, cfg.Security.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("creating password service: %w", err)
	}
	if mode == auth.ModePlaintext {
		logger.Warn("passwords are stored and compared in plaintext; set PASSWORD_HASHING=bcrypt once existing users are migrated")
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		store:   st,
		metrics: metrics.New(),
	}

	s.setupRoutes(passwords)
	return s, nil
}

// Handler exposes the router, mainly for tests with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /users?page&per_page     → one page of users + total
// GET    /users/filter?...        → exact-match filter
// GET    /users/{id}              → one user
// POST   /users                   → create user
// PUT    /users/{id}              → merge fields
// DELETE /users/{id}              → delete user
// POST   /login_user              → check credentials
// GET    /movies, /movies/{id}    → list / get
// POST   /movies                  → create
// PUT    /movies/{id}             → overwrite
// DELETE /movies/{id}             → delete
// GET    /shows, /shows/{id}      → list / get
// POST   /shows                   → create (movie must exist)
// GET    /events, /events/{id}    → list / get
// POST   /events                  → create
// PUT    /events/{id}             → partial update
// DELETE /events/{id}             → delete
// GET    /participants            → all records
// GET    /participants/{event_id} → one event's record
// POST   /participants            → join an event
// GET    /healthz                 → store reachability
// GET    /metrics                 → Prometheus
//
// MIDDLEWARE ORDER MATTERS:
//
//  1. RequestID: assigns a unique ID to each request (for tracing)
//  2. RealIP: extracts the client IP from proxy headers
//  3. Logger, Metrics: see the final status, including recovered panics
//  4. Recoverer: catches panics and returns 500 instead of crashing
//  5. CORS, then the optional rate limit
func (s *Server) setupRoutes(passwords *auth.PasswordService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if rl := s.config.RateLimit; rl.Enabled {
		s.router.Use(httprate.Limit(rl.Requests, rl.Window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(handler.HandleRateLimited),
		))
	}

	// === Repositories ===
	users := repository.NewUserRepo(s.store)
	movies := repository.NewMovieRepo(s.store)
	shows := repository.NewShowRepo(s.store)
	events := repository.NewEventRepo(s.store)
	participants := repository.NewParticipantRepo(s.store)

	// === Services ===
	compat := s.config.Compat
	userService := service.NewUserService(users, passwords, s.logger)
	movieService := service.NewMovieService(movies, service.MovieOptions{RawIDUpdate: compat.MovieUpdateRawID}, s.logger)
	showService := service.NewShowService(shows, movies, s.logger)
	eventService := service.NewEventService(events, service.EventOptions{TruthyUpdate: compat.EventUpdateTruthy}, s.logger)
	participantService := service.NewParticipantService(participants, events, s.logger)

	// === Handlers ===
	userHandler := handler.NewUserHandler(userService, compat.LegacyLoginStatus, s.logger)
	movieHandler := handler.NewMovieHandler(movieService, s.logger)
	showHandler := handler.NewShowHandler(showService, s.logger)
	eventHandler := handler.NewEventHandler(eventService, s.logger)
	participantHandler := handler.NewParticipantHandler(participantService, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Post("/", userHandler.HandleCreate)
		r.Get("/filter", userHandler.HandleFilter)
		r.Get("/{id}", userHandler.HandleGet)
		r.Put("/{id}", userHandler.HandleUpdate)
		r.Delete("/{id}", userHandler.HandleDelete)
	})
	s.router.Post("/login_user", userHandler.HandleLogin)

	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", movieHandler.HandleList)
		r.Post("/", movieHandler.HandleCreate)
		r.Get("/{id}", movieHandler.HandleGet)
		r.Put("/{id}", movieHandler.HandleUpdate)
		r.Delete("/{id}", movieHandler.HandleDelete)
	})

	s.router.Route("/shows", func(r chi.Router) {
		r.Get("/", showHandler.HandleList)
		r.Post("/", showHandler.HandleCreate)
		r.Get("/{id}", showHandler.HandleGet)
	})

	s.router.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.HandleList)
		r.Post("/", eventHandler.HandleCreate)
		r.Get("/{id}", eventHandler.HandleGet)
		r.Put("/{id}", eventHandler.HandleUpdate)
		r.Delete("/{id}", eventHandler.HandleDelete)
	})

	s.router.Route("/participants", func(r chi.Router) {
		r.Get("/", participantHandler.HandleList)
		r.Post("/", participantHandler.HandleAdd)
		r.Get("/{event_id}", participantHandler.HandleGetByEvent)
	})

	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down gracefully.
//
// GRACEFUL SHUTDOWN:
//
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (ShutdownTimeout)
//  3. Close the store (MongoDB disconnect / SQLite WAL flush)
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run is Start with the shutdown trigger supplied by the caller: the server
// stops when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("graceful shutdown failed: %w", err)
		} else {
			s.logger.Info("server stopped gracefully")
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	if err := s.store.Close(closeCtx); err != nil {
		s.logger.Error("failed to close store", slog.String("error", err.Error()))
	}

	return runErr
}
