package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(context.Background()) })
	return db
}

func TestDocuments_IDsAreStrings(t *testing.T) {
	repo := NewEventRepo(newTestStore(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, model.Document{"title": "Jazz Night"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), got["_id"])

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id.String(), list[0]["_id"])
}

func TestDocuments_NotFoundNamesResource(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	missing := model.NewID()

	tests := []struct {
		resource string
		call     func() error
	}{
		{"User", func() error { _, err := NewUserRepo(db).GetByID(ctx, missing); return err }},
		{"Movie", func() error { return NewMovieRepo(db).Delete(ctx, missing) }},
		{"Show", func() error { _, err := NewShowRepo(db).GetByID(ctx, missing); return err }},
		{"Event", func() error { return NewEventRepo(db).Update(ctx, missing, model.Document{"title": "x"}) }},
		{"Participant record", func() error { _, err := NewParticipantRepo(db).AddUser(ctx, "e1", "u1"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, apperror.ErrNotFound)
			assert.Equal(t, tt.resource+" not found", err.Error())
		})
	}
}

func TestUserRepo_GetByCredentials(t *testing.T) {
	repo := NewUserRepo(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, model.Document{"email": "ada@example.com", "password": "secret"})
	require.NoError(t, err)

	_, err = repo.GetByCredentials(ctx, "ada@example.com", "secret")
	assert.NoError(t, err)

	_, err = repo.GetByCredentials(ctx, "ada@example.com", "Secret")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestParticipantRepo(t *testing.T) {
	repo := NewParticipantRepo(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "e1", "u1")
	require.NoError(t, err)

	added, err := repo.AddUser(ctx, "e1", "u2")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddUser(ctx, "e1", "u2")
	require.NoError(t, err)
	assert.False(t, added)

	record, err := repo.GetByEventID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []any{"u1", "u2"}, record["user_ids"])
}
