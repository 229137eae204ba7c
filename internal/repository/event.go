package repository

import (
	"context"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
)

var _ EventRepository = (*EventRepo)(nil)

type EventRepo struct {
	documents
}

func NewEventRepo(s store.Store) *EventRepo {
	return &EventRepo{documents{col: s.Collection(store.Events), resource: "Event"}}
}

func (r *EventRepo) Create(ctx context.Context, doc model.Document) (model.ID, error) {
	return r.create(ctx, doc)
}

func (r *EventRepo) GetByID(ctx context.Context, id model.ID) (model.Document, error) {
	return r.findOne(ctx, store.ByID(id))
}

func (r *EventRepo) List(ctx context.Context) ([]model.Document, error) {
	return r.find(ctx, nil, store.FindOptions{})
}

func (r *EventRepo) Update(ctx context.Context, id model.ID, fields model.Document) error {
	return r.update(ctx, store.ByID(id), fields)
}

func (r *EventRepo) Delete(ctx context.Context, id model.ID) error {
	return r.delete(ctx, id)
}
