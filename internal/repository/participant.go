package repository

import (
	"context"
	"fmt"

	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
)

var _ ParticipantRepository = (*ParticipantRepo)(nil)

// ParticipantRepo keeps one document per event:
//
//	{"event_id": "<event id string>", "user_ids": ["<user id>", ...]}
type ParticipantRepo struct {
	documents
}

func NewParticipantRepo(s store.Store) *ParticipantRepo {
	return &ParticipantRepo{documents{col: s.Collection(store.Participants), resource: "Participant record"}}
}

func (r *ParticipantRepo) GetByEventID(ctx context.Context, eventID string) (model.Document, error) {
	return r.findOne(ctx, store.Filter{"event_id": eventID})
}

func (r *ParticipantRepo) Create(ctx context.Context, eventID, userID string) (model.ID, error) {
	return r.create(ctx, model.Document{
		"event_id": eventID,
		"user_ids": []any{userID},
	})
}

// AddUser adds userID to the event's membership set. It reports false when
// the user was already a member.
func (r *ParticipantRepo) AddUser(ctx context.Context, eventID, userID string) (bool, error) {
	res, err := r.col.AddToSet(ctx, store.Filter{"event_id": eventID}, "user_ids", userID)
	if err != nil {
		return false, fmt.Errorf("repository: adding participant: %w", err)
	}
	if res.Matched == 0 {
		return false, apperror.NotFound(r.resource)
	}
	return res.Modified > 0, nil
}

func (r *ParticipantRepo) List(ctx context.Context) ([]model.Document, error) {
	return r.find(ctx, nil, store.FindOptions{})
}
