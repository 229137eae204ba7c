package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/repository"
	"github.com/sakif/trippila/internal/validation"
)

// Messages returned by POST /participants.
const (
	MsgParticipantAdded   = "Participant added successfully"
	MsgAlreadyParticipant = "User is already a participant in the event"
)

// ParticipantService manages event membership: one record per event holding
// the set of user ids that joined it.
type ParticipantService struct {
	participants repository.ParticipantRepository
	events       repository.EventRepository
	logger       *slog.Logger
}

func NewParticipantService(participants repository.ParticipantRepository, events repository.EventRepository, logger *slog.Logger) *ParticipantService {
	return &ParticipantService{participants: participants, events: events, logger: logger}
}

// Add puts the user into the event's participant set, creating the record on
// the first join. added is false when the user was already a member.
//
// user_id is not checked against the users collection.
func (s *ParticipantService) Add(ctx context.Context, in model.ParticipantInput) (added bool, err error) {
	if err := validation.Struct(in); err != nil {
		return false, err
	}

	eventID, err := parseID("event_id", in.EventID)
	if err != nil {
		return false, err
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return false, err
	}

	key := eventID.String()
	record, err := s.participants.GetByEventID(ctx, key)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		if _, err := s.participants.Create(ctx, key, in.UserID); err != nil {
			return false, fmt.Errorf("creating participant record: %w", err)
		}
		s.logger.Info("participant record created",
			slog.String("event_id", key),
			slog.String("user_id", in.UserID),
		)
		return true, nil
	case err != nil:
		return false, fmt.Errorf("loading participant record: %w", err)
	}

	if hasMember(record, in.UserID) {
		return false, nil
	}

	// AddUser is an atomic add-to-set, so a concurrent join of the same
	// user shows up here as added == false.
	added, err = s.participants.AddUser(ctx, key, in.UserID)
	if err != nil {
		return false, err
	}
	if added {
		s.logger.Info("participant added",
			slog.String("event_id", key),
			slog.String("user_id", in.UserID),
		)
	}
	return added, nil
}

func (s *ParticipantService) List(ctx context.Context) ([]model.Document, error) {
	return s.participants.List(ctx)
}

// GetByEvent returns the participant record of one event.
func (s *ParticipantService) GetByEvent(ctx context.Context, rawEventID string) (model.Document, error) {
	eventID, err := parseID("event_id", rawEventID)
	if err != nil {
		return nil, err
	}
	return s.participants.GetByEventID(ctx, eventID.String())
}

func hasMember(record model.Document, userID string) bool {
	ids, _ := record["user_ids"].([]any)
	for _, id := range ids {
		if s, ok := id.(string); ok && s == userID {
			return true
		}
	}
	return false
}
