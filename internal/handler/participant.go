package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/service"
)

type ParticipantService interface {
	Add(ctx context.Context, in model.ParticipantInput) (bool, error)
	List(ctx context.Context) ([]model.Document, error)
	GetByEvent(ctx context.Context, eventID string) (model.Document, error)
}

// ParticipantHandler serves /participants.
type ParticipantHandler struct {
	base
	svc ParticipantService
}

func NewParticipantHandler(svc ParticipantService, logger *slog.Logger) *ParticipantHandler {
	return &ParticipantHandler{base: base{logger: logger}, svc: svc}
}

// HandleAdd joins a user to an event.
//
// HTTP: POST /participants
// REQUEST BODY: {"event_id": "<id>", "user_id": "<id>"}
//
// 201 when the user was added, 200 when they were already a participant.
func (h *ParticipantHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var in model.ParticipantInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	added, err := h.svc.Add(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if !added {
		writeJSON(w, http.StatusOK, MessageResponse{Message: service.MsgAlreadyParticipant})
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Message: service.MsgParticipantAdded})
}

// HTTP: GET /participants
func (h *ParticipantHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HTTP: GET /participants/{event_id}
func (h *ParticipantHandler) HandleGetByEvent(w http.ResponseWriter, r *http.Request) {
	record, err := h.svc.GetByEvent(r.Context(), chi.URLParam(r, "event_id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
