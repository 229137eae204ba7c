package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/trippila/internal/model"
)

type EventService interface {
	List(ctx context.Context) ([]model.Document, error)
	Get(ctx context.Context, id string) (model.Document, error)
	Create(ctx context.Context, body model.Document) (model.ID, error)
	Update(ctx context.Context, id string, body model.Document) error
	Delete(ctx context.Context, id string) error
}

// EventHandler serves /events.
type EventHandler struct {
	base
	svc EventService
}

func NewEventHandler(svc EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{base: base{logger: logger}, svc: svc}
}

// HTTP: GET /events
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HTTP: GET /events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// HandleCreate adds an event.
//
// HTTP: POST /events
// REQUEST BODY: {"title", "image", "city", "price", "date"}, all optional
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body model.Document
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.svc.Create(r.Context(), body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeCreated(w, "Event created successfully", "event_id", id.String())
}

// HandleUpdate sets the event fields present in the body.
//
// HTTP: PUT /events/{id}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var body model.Document
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), body); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Event updated successfully"})
}

// HTTP: DELETE /events/{id}
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Event deleted successfully"})
}
