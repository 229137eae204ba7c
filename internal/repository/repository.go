// Package repository holds one repository per collection.
//
// Repositories are the only code that builds store filters. They take typed
// identifiers (model.ID) and hand back documents ready for transport: every
// identifier in a returned document is already its string form.
package repository

import (
	"context"

	"github.com/sakif/trippila/internal/model"
)

type ListOptions struct {
	Limit  int64
	Offset int64
}

type UserRepository interface {
	Create(ctx context.Context, doc model.Document) (model.ID, error)
	GetByID(ctx context.Context, id model.ID) (model.Document, error)
	GetByEmail(ctx context.Context, email string) (model.Document, error)
	GetByCredentials(ctx context.Context, email, password string) (model.Document, error)
	List(ctx context.Context, opts ListOptions) ([]model.Document, error)
	Count(ctx context.Context) (int64, error)
	Filter(ctx context.Context, criteria map[string]string) ([]model.Document, error)
	Update(ctx context.Context, id model.ID, fields model.Document) error
	Delete(ctx context.Context, id model.ID) error
}

type MovieRepository interface {
	Create(ctx context.Context, doc model.Document) (model.ID, error)
	GetByID(ctx context.Context, id model.ID) (model.Document, error)
	List(ctx context.Context) ([]model.Document, error)
	Update(ctx context.Context, id model.ID, fields model.Document) error
	UpdateByRawID(ctx context.Context, rawID string, fields model.Document) error
	Delete(ctx context.Context, id model.ID) error
}

type ShowRepository interface {
	Create(ctx context.Context, doc model.Document) (model.ID, error)
	GetByID(ctx context.Context, id model.ID) (model.Document, error)
	List(ctx context.Context) ([]model.Document, error)
}

type EventRepository interface {
	Create(ctx context.Context, doc model.Document) (model.ID, error)
	GetByID(ctx context.Context, id model.ID) (model.Document, error)
	List(ctx context.Context) ([]model.Document, error)
	Update(ctx context.Context, id model.ID, fields model.Document) error
	Delete(ctx context.Context, id model.ID) error
}

type ParticipantRepository interface {
	GetByEventID(ctx context.Context, eventID string) (model.Document, error)
	Create(ctx context.Context, eventID, userID string) (model.ID, error)
	AddUser(ctx context.Context, eventID, userID string) (bool, error)
	List(ctx context.Context) ([]model.Document, error)
}
