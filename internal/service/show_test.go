package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/repository"
)

func newTestShowService(t *testing.T) (*ShowService, *MovieService) {
	t.Helper()

	db := newTestStore(t)
	movieRepo := repository.NewMovieRepo(db)
	shows := NewShowService(repository.NewShowRepo(db), movieRepo, newTestLogger())
	movies := NewMovieService(movieRepo, MovieOptions{}, newTestLogger())
	return shows, movies
}

func TestShowCreate_Success(t *testing.T) {
	shows, movies := newTestShowService(t)
	ctx := context.Background()

	movieID, err := movies.Create(ctx, model.MovieInput{Title: "Dune"})
	require.NoError(t, err)

	id, err := shows.Create(ctx, model.ShowInput{
		MovieID:  movieID.String(),
		Timings:  []any{"18:00", "21:00"},
		Category: "imax",
	})
	require.NoError(t, err)

	show, err := shows.Get(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, movieID.String(), show["movie_id"])
	assert.Equal(t, []any{"18:00", "21:00"}, show["timings"])
	assert.Equal(t, "imax", show["category"])

	list, err := shows.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestShowCreate_Errors(t *testing.T) {
	shows, movies := newTestShowService(t)
	ctx := context.Background()

	movieID, err := movies.Create(ctx, model.MovieInput{Title: "Dune"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    model.ShowInput
		sentinel error
		message  string
	}{
		{
			name:     "missing timings",
			input:    model.ShowInput{MovieID: movieID.String(), Category: "imax"},
			sentinel: apperror.ErrValidation,
			message:  "timings is required",
		},
		{
			name:     "missing movie_id",
			input:    model.ShowInput{Timings: "18:00", Category: "imax"},
			sentinel: apperror.ErrValidation,
			message:  "movie_id is required",
		},
		{
			name:     "malformed movie_id",
			input:    model.ShowInput{MovieID: "abc", Timings: "18:00", Category: "imax"},
			sentinel: apperror.ErrValidation,
			message:  `invalid movie_id "abc"`,
		},
		{
			name:     "unknown movie",
			input:    model.ShowInput{MovieID: model.NewID().String(), Timings: "18:00", Category: "imax"},
			sentinel: apperror.ErrNotFound,
			message:  "Movie not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shows.Create(ctx, tt.input)
			assertAppError(t, err, tt.sentinel, tt.message)
		})
	}

	list, err := shows.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "failed creates must not store a show")
}
