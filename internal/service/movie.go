package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/repository"
)

// MovieOptions toggles legacy movie behaviour.
type MovieOptions struct {
	// RawIDUpdate matches PUT /movies/{id} against the unparsed path string.
	// A string never equals a stored id, so every update reports NotFound.
	RawIDUpdate bool
}

// MovieService handles movies. A movie is always stored with exactly the
// four MovieInput fields; absent ones are explicit nulls.
type MovieService struct {
	repo   repository.MovieRepository
	opts   MovieOptions
	logger *slog.Logger
}

func NewMovieService(repo repository.MovieRepository, opts MovieOptions, logger *slog.Logger) *MovieService {
	return &MovieService{repo: repo, opts: opts, logger: logger}
}

func (s *MovieService) List(ctx context.Context) ([]model.Document, error) {
	return s.repo.List(ctx)
}

func (s *MovieService) Get(ctx context.Context, rawID string) (model.Document, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *MovieService) Create(ctx context.Context, in model.MovieInput) (model.ID, error) {
	id, err := s.repo.Create(ctx, in.Document())
	if err != nil {
		s.logger.Error("failed to create movie", slog.String("error", err.Error()))
		return model.ID{}, fmt.Errorf("creating movie: %w", err)
	}

	s.logger.Info("movie created", slog.String("id", id.String()))
	return id, nil
}

// Update overwrites all four fields; fields missing from the body become null.
func (s *MovieService) Update(ctx context.Context, rawID string, in model.MovieInput) error {
	if s.opts.RawIDUpdate {
		return s.repo.UpdateByRawID(ctx, rawID, in.Document())
	}

	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, in.Document()); err != nil {
		return err
	}

	s.logger.Info("movie updated", slog.String("id", id.String()))
	return nil
}

func (s *MovieService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("movie deleted", slog.String("id", id.String()))
	return nil
}
