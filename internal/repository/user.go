package repository

import (
	"context"
	"fmt"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
)

// compile-time check that *UserRepo implements UserRepository
var _ UserRepository = (*UserRepo)(nil)

// UserRepo stores user documents verbatim; there is no field whitelist.
type UserRepo struct {
	documents
}

func NewUserRepo(s store.Store) *UserRepo {
	return &UserRepo{documents{col: s.Collection(store.Users), resource: "User"}}
}

func (r *UserRepo) Create(ctx context.Context, doc model.Document) (model.ID, error) {
	return r.create(ctx, doc)
}

func (r *UserRepo) GetByID(ctx context.Context, id model.ID) (model.Document, error) {
	return r.findOne(ctx, store.ByID(id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.Document, error) {
	return r.findOne(ctx, store.Filter{"email": email})
}

// GetByCredentials matches email AND password by exact equality.
// Passwords stored in cleartext are compared in cleartext.
func (r *UserRepo) GetByCredentials(ctx context.Context, email, password string) (model.Document, error) {
	return r.findOne(ctx, store.Filter{"email": email, "password": password})
}

func (r *UserRepo) List(ctx context.Context, opts ListOptions) ([]model.Document, error) {
	return r.find(ctx, nil, store.FindOptions{Skip: opts.Offset, Limit: opts.Limit})
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.col.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("repository: counting users: %w", err)
	}
	return n, nil
}

// Filter ANDs exact matches on the given criteria. An empty criteria map
// returns every user.
func (r *UserRepo) Filter(ctx context.Context, criteria map[string]string) ([]model.Document, error) {
	filter := make(store.Filter, len(criteria))
	for k, v := range criteria {
		filter[k] = v
	}
	return r.find(ctx, filter, store.FindOptions{})
}

func (r *UserRepo) Update(ctx context.Context, id model.ID, fields model.Document) error {
	return r.update(ctx, store.ByID(id), fields)
}

func (r *UserRepo) Delete(ctx context.Context, id model.ID) error {
	return r.delete(ctx, id)
}
