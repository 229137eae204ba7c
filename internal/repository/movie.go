package repository

import (
	"context"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
)

var _ MovieRepository = (*MovieRepo)(nil)

type MovieRepo struct {
	documents
}

func NewMovieRepo(s store.Store) *MovieRepo {
	return &MovieRepo{documents{col: s.Collection(store.Movies), resource: "Movie"}}
}

func (r *MovieRepo) Create(ctx context.Context, doc model.Document) (model.ID, error) {
	return r.create(ctx, doc)
}

func (r *MovieRepo) GetByID(ctx context.Context, id model.ID) (model.Document, error) {
	return r.findOne(ctx, store.ByID(id))
}

func (r *MovieRepo) List(ctx context.Context) ([]model.Document, error) {
	return r.find(ctx, nil, store.FindOptions{})
}

func (r *MovieRepo) Update(ctx context.Context, id model.ID, fields model.Document) error {
	return r.update(ctx, store.ByID(id), fields)
}

// UpdateByRawID targets "_id" with the unparsed request string. A string
// never equals a stored identifier, so this always reports NotFound; it
// exists only for clients that depend on that legacy behaviour.
func (r *MovieRepo) UpdateByRawID(ctx context.Context, rawID string, fields model.Document) error {
	return r.update(ctx, store.Filter{model.IDField: rawID}, fields)
}

func (r *MovieRepo) Delete(ctx context.Context, id model.ID) error {
	return r.delete(ctx, id)
}
