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

func newTestMovieService(t *testing.T, opts MovieOptions) *MovieService {
	t.Helper()
	return NewMovieService(repository.NewMovieRepo(newTestStore(t)), opts, newTestLogger())
}

func TestMovieCreate_StoresNullForMissingFields(t *testing.T) {
	svc := newTestMovieService(t, MovieOptions{})
	ctx := context.Background()

	id, err := svc.Create(ctx, model.MovieInput{Title: "Dune"})
	require.NoError(t, err)

	movie, err := svc.Get(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, model.Document{
		"_id":      id.String(),
		"title":    "Dune",
		"imageurl": nil,
		"city":     nil,
		"language": nil,
	}, movie)
}

func TestMovieList(t *testing.T) {
	svc := newTestMovieService(t, MovieOptions{})
	ctx := context.Background()

	movies, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, movies)

	for _, title := range []string{"Dune", "Arrival"} {
		_, err := svc.Create(ctx, model.MovieInput{Title: title})
		require.NoError(t, err)
	}

	movies, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Dune", movies[0]["title"])
	assert.Equal(t, "Arrival", movies[1]["title"])
}

func TestMovieUpdate_ReplacesAllFields(t *testing.T) {
	svc := newTestMovieService(t, MovieOptions{})
	ctx := context.Background()

	id, err := svc.Create(ctx, model.MovieInput{Title: "Dune", City: "Pune", Language: "en"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, id.String(), model.MovieInput{Title: "Dune: Part Two"}))

	movie, err := svc.Get(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part Two", movie["title"])
	assert.Nil(t, movie["city"])
	assert.Nil(t, movie["language"])
}

func TestMovieUpdate_Errors(t *testing.T) {
	svc := newTestMovieService(t, MovieOptions{})
	ctx := context.Background()

	err := svc.Update(ctx, model.NewID().String(), model.MovieInput{Title: "x"})
	assertAppError(t, err, apperror.ErrNotFound, "Movie not found")

	err = svc.Update(ctx, "123", model.MovieInput{Title: "x"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestMovieUpdate_RawIDAlwaysNotFound(t *testing.T) {
	svc := newTestMovieService(t, MovieOptions{RawIDUpdate: true})
	ctx := context.Background()

	id, err := svc.Create(ctx, model.MovieInput{Title: "Dune"})
	require.NoError(t, err)

	err = svc.Update(ctx, id.String(), model.MovieInput{Title: "Arrival"})
	assertAppError(t, err, apperror.ErrNotFound, "Movie not found")

	// a malformed id is not rejected either, it just doesn't match
	err = svc.Update(ctx, "not-an-id", model.MovieInput{Title: "Arrival"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	movie, err := svc.Get(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, "Dune", movie["title"])
}

func TestMovieDelete(t *testing.T) {
	svc := newTestMovieService(t, MovieOptions{})
	ctx := context.Background()

	id, err := svc.Create(ctx, model.MovieInput{Title: "Dune"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id.String()))
	assert.ErrorIs(t, svc.Delete(ctx, id.String()), apperror.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ""), apperror.ErrValidation)
}
