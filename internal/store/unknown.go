package store

import (
	"context"
	"fmt"

	"github.com/sakif/trippila/internal/model"
)

// UnknownCollection returns a Collection whose every operation fails with
// ErrUnknownCollection. Backends hand it out for names outside Collections.
func UnknownCollection(name string) Collection {
	return unknownCollection{name: name}
}

type unknownCollection struct {
	name string
}

func (u unknownCollection) err() error {
	return fmt.Errorf("%w: %q", ErrUnknownCollection, u.name)
}

func (u unknownCollection) FindOne(context.Context, Filter) (model.Document, error) {
	return nil, u.err()
}

func (u unknownCollection) Find(context.Context, Filter, FindOptions) ([]model.Document, error) {
	return nil, u.err()
}

func (u unknownCollection) Count(context.Context, Filter) (int64, error) {
	return 0, u.err()
}

func (u unknownCollection) InsertOne(context.Context, model.Document) (model.ID, error) {
	return model.ID{}, u.err()
}

func (u unknownCollection) UpdateOne(context.Context, Filter, model.Document) (UpdateResult, error) {
	return UpdateResult{}, u.err()
}

func (u unknownCollection) AddToSet(context.Context, Filter, string, any) (UpdateResult, error) {
	return UpdateResult{}, u.err()
}

func (u unknownCollection) DeleteOne(context.Context, Filter) (int64, error) {
	return 0, u.err()
}
