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

func newTestEventService(t *testing.T, opts EventOptions) *EventService {
	t.Helper()
	return NewEventService(repository.NewEventRepo(newTestStore(t)), opts, newTestLogger())
}

func TestEventCreate_KeepsOnlyKnownFields(t *testing.T) {
	svc := newTestEventService(t, EventOptions{})
	ctx := context.Background()

	id, err := svc.Create(ctx, model.Document{
		"title":     "Jazz Night",
		"price":     float64(20),
		"organiser": "someone",
	})
	require.NoError(t, err)

	event, err := svc.Get(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, model.Document{
		"_id":   id.String(),
		"title": "Jazz Night",
		"image": nil,
		"city":  nil,
		"price": float64(20),
		"date":  nil,
	}, event)
}

func TestEventUpdate_PresenceBased(t *testing.T) {
	svc := newTestEventService(t, EventOptions{})
	ctx := context.Background()

	id, err := svc.Create(ctx, model.Document{"title": "Jazz Night", "price": float64(20), "city": "Austin"})
	require.NoError(t, err)

	// zero is a real value, null means "leave alone"
	require.NoError(t, svc.Update(ctx, id.String(), model.Document{"price": float64(0), "city": nil}))

	event, err := svc.Get(ctx, id.String())
	require.NoError(t, err)
	assert.EqualValues(t, 0, event["price"])
	assert.Equal(t, "Austin", event["city"])
	assert.Equal(t, "Jazz Night", event["title"])
}

func TestEventUpdate_Truthy(t *testing.T) {
	svc := newTestEventService(t, EventOptions{TruthyUpdate: true})
	ctx := context.Background()

	id, err := svc.Create(ctx, model.Document{"title": "Jazz Night", "price": float64(20)})
	require.NoError(t, err)

	err = svc.Update(ctx, id.String(), model.Document{"price": float64(0), "title": ""})
	assertAppError(t, err, apperror.ErrValidation, MsgNoUpdateData)

	require.NoError(t, svc.Update(ctx, id.String(), model.Document{"price": float64(0), "city": "Austin"}))

	event, err := svc.Get(ctx, id.String())
	require.NoError(t, err)
	assert.EqualValues(t, 20, event["price"])
	assert.Equal(t, "Austin", event["city"])
}

func TestEventUpdate_Errors(t *testing.T) {
	svc := newTestEventService(t, EventOptions{})
	ctx := context.Background()

	id, err := svc.Create(ctx, model.Document{"title": "Jazz Night"})
	require.NoError(t, err)

	err = svc.Update(ctx, id.String(), model.Document{"organiser": "x", "title": nil})
	assertAppError(t, err, apperror.ErrValidation, MsgNoUpdateData)

	err = svc.Update(ctx, model.NewID().String(), model.Document{"title": "x"})
	assertAppError(t, err, apperror.ErrNotFound, "Event not found")

	err = svc.Update(ctx, "zzz", model.Document{"title": "x"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestEventDelete(t *testing.T) {
	svc := newTestEventService(t, EventOptions{})
	ctx := context.Background()

	id, err := svc.Create(ctx, model.Document{"title": "Jazz Night"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id.String()))
	assertAppError(t, svc.Delete(ctx, id.String()), apperror.ErrNotFound, "Event not found")

	events, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}
