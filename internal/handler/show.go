package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/trippila/internal/model"
)

type ShowService interface {
	List(ctx context.Context) ([]model.Document, error)
	Get(ctx context.Context, id string) (model.Document, error)
	Create(ctx context.Context, in model.ShowInput) (model.ID, error)
}

// ShowHandler serves /shows.
type ShowHandler struct {
	base
	svc ShowService
}

func NewShowHandler(svc ShowService, logger *slog.Logger) *ShowHandler {
	return &ShowHandler{base: base{logger: logger}, svc: svc}
}

// HTTP: GET /shows
func (h *ShowHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	shows, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

// HTTP: GET /shows/{id}
func (h *ShowHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	show, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

// HandleCreate schedules a show for an existing movie.
//
// HTTP: POST /shows
// REQUEST BODY: {"movie_id": "<id>", "timings": ..., "category": ...}
func (h *ShowHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.ShowInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeCreated(w, "Show added successfully", "show_id", id.String())
}
