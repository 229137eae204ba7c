package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/repository"
)

// EventOptions toggles legacy event behaviour.
type EventOptions struct {
	// TruthyUpdate drops update fields whose value is falsy (0, "", false,
	// [], {}) instead of only those that are absent or null.
	TruthyUpdate bool
}

// EventService handles events. Only model.EventFields are ever stored.
type EventService struct {
	repo   repository.EventRepository
	opts   EventOptions
	logger *slog.Logger
}

func NewEventService(repo repository.EventRepository, opts EventOptions, logger *slog.Logger) *EventService {
	return &EventService{repo: repo, opts: opts, logger: logger}
}

func (s *EventService) List(ctx context.Context) ([]model.Document, error) {
	return s.repo.List(ctx)
}

func (s *EventService) Get(ctx context.Context, rawID string) (model.Document, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create stores the five event fields from body. Absent fields are stored
// as null and anything else in body is ignored.
func (s *EventService) Create(ctx context.Context, body model.Document) (model.ID, error) {
	doc := make(model.Document, len(model.EventFields))
	for _, field := range model.EventFields {
		doc[field] = body[field]
	}

	id, err := s.repo.Create(ctx, doc)
	if err != nil {
		s.logger.Error("failed to create event", slog.String("error", err.Error()))
		return model.ID{}, fmt.Errorf("creating event: %w", err)
	}

	s.logger.Info("event created", slog.String("id", id.String()))
	return id, nil
}

// Update sets only the recognised fields present in body. With nothing to
// set it fails with MsgNoUpdateData before touching storage.
func (s *EventService) Update(ctx context.Context, rawID string, body model.Document) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}

	fields := s.updateFields(body)
	if len(fields) == 0 {
		return apperror.ValidationFailed("body", MsgNoUpdateData)
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return err
	}

	s.logger.Info("event updated", slog.String("id", id.String()), slog.Int("fields", len(fields)))
	return nil
}

func (s *EventService) updateFields(body model.Document) model.Document {
	fields := make(model.Document)
	for _, field := range model.EventFields {
		v, ok := body[field]
		if !ok || v == nil {
			continue
		}
		if s.opts.TruthyUpdate && !model.Truthy(v) {
			continue
		}
		fields[field] = v
	}
	return fields
}

func (s *EventService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("event deleted", slog.String("id", id.String()))
	return nil
}
