package repository

import (
	"context"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
)

var _ ShowRepository = (*ShowRepo)(nil)

// ShowRepo returns shows with both "_id" and "movie_id" as strings.
type ShowRepo struct {
	documents
}

func NewShowRepo(s store.Store) *ShowRepo {
	return &ShowRepo{documents{col: s.Collection(store.Shows), resource: "Show"}}
}

func (r *ShowRepo) Create(ctx context.Context, doc model.Document) (model.ID, error) {
	return r.create(ctx, doc)
}

func (r *ShowRepo) GetByID(ctx context.Context, id model.ID) (model.Document, error) {
	return r.findOne(ctx, store.ByID(id))
}

func (r *ShowRepo) List(ctx context.Context) ([]model.Document, error) {
	return r.find(ctx, nil, store.FindOptions{})
}
