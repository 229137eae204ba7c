package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
)

// documents is the single-collection plumbing every repository embeds.
// resource is the name used in "<resource> not found" messages.
type documents struct {
	col      store.Collection
	resource string
}

func (d documents) create(ctx context.Context, doc model.Document) (model.ID, error) {
	id, err := d.col.InsertOne(ctx, doc.Without(model.IDField))
	if err != nil {
		return model.ID{}, fmt.Errorf("repository: creating %s: %w", d.resource, err)
	}
	return id, nil
}

func (d documents) findOne(ctx context.Context, filter store.Filter) (model.Document, error) {
	doc, err := d.col.FindOne(ctx, filter)
	if errors.Is(err, store.ErrNoDocument) {
		return nil, apperror.NotFound(d.resource)
	}
	if err != nil {
		return nil, fmt.Errorf("repository: finding %s: %w", d.resource, err)
	}
	return doc.ForTransport(), nil
}

func (d documents) find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]model.Document, error) {
	docs, err := d.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("repository: listing %s: %w", d.resource, err)
	}

	out := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.ForTransport())
	}
	return out, nil
}

// update $sets fields on the document matched by filter.
// A match with no actual change still counts as success.
func (d documents) update(ctx context.Context, filter store.Filter, fields model.Document) error {
	res, err := d.col.UpdateOne(ctx, filter, fields.Without(model.IDField))
	if err != nil {
		return fmt.Errorf("repository: updating %s: %w", d.resource, err)
	}
	if res.Matched == 0 {
		return apperror.NotFound(d.resource)
	}
	return nil
}

func (d documents) delete(ctx context.Context, id model.ID) error {
	n, err := d.col.DeleteOne(ctx, store.ByID(id))
	if err != nil {
		return fmt.Errorf("repository: deleting %s: %w", d.resource, err)
	}
	if n == 0 {
		return apperror.NotFound(d.resource)
	}
	return nil
}
