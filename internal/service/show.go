package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/repository"
	"github.com/sakif/trippila/internal/validation"
)

// ShowService handles shows. Every show references an existing movie.
type ShowService struct {
	shows  repository.ShowRepository
	movies repository.MovieRepository
	logger *slog.Logger
}

func NewShowService(shows repository.ShowRepository, movies repository.MovieRepository, logger *slog.Logger) *ShowService {
	return &ShowService{shows: shows, movies: movies, logger: logger}
}

func (s *ShowService) List(ctx context.Context) ([]model.Document, error) {
	return s.shows.List(ctx)
}

func (s *ShowService) Get(ctx context.Context, rawID string) (model.Document, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	return s.shows.GetByID(ctx, id)
}

// Create checks the three required fields, then that the movie exists.
// movie_id is stored in its canonical string form.
func (s *ShowService) Create(ctx context.Context, in model.ShowInput) (model.ID, error) {
	if err := validation.Struct(in); err != nil {
		return model.ID{}, err
	}

	movieID, err := parseID("movie_id", in.MovieID)
	if err != nil {
		return model.ID{}, err
	}

	// NotFound("Movie") passes straight through.
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return model.ID{}, err
	}

	id, err := s.shows.Create(ctx, model.Document{
		"movie_id": movieID.String(),
		"timings":  in.Timings,
		"category": in.Category,
	})
	if err != nil {
		s.logger.Error("failed to create show", slog.String("error", err.Error()))
		return model.ID{}, fmt.Errorf("creating show: %w", err)
	}

	s.logger.Info("show created",
		slog.String("id", id.String()),
		slog.String("movie_id", movieID.String()),
	)
	return id, nil
}
