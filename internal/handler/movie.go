package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/trippila/internal/model"
)

type MovieService interface {
	List(ctx context.Context) ([]model.Document, error)
	Get(ctx context.Context, id string) (model.Document, error)
	Create(ctx context.Context, in model.MovieInput) (model.ID, error)
	Update(ctx context.Context, id string, in model.MovieInput) error
	Delete(ctx context.Context, id string) error
}

// MovieHandler serves /movies.
type MovieHandler struct {
	base
	svc MovieService
}

func NewMovieHandler(svc MovieService, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{base: base{logger: logger}, svc: svc}
}

// HTTP: GET /movies
func (h *MovieHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// HTTP: GET /movies/{id}
func (h *MovieHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	movie, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// HandleCreate adds a movie.
//
// HTTP: POST /movies
// REQUEST BODY: {"title": ..., "imageurl": ..., "city": ..., "language": ...}
func (h *MovieHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.MovieInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeCreated(w, "Movie added successfully", "movie_id", id.String())
}

// HandleUpdate replaces all four movie fields.
//
// HTTP: PUT /movies/{id}
func (h *MovieHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.MovieInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Movie updated successfully"})
}

// HTTP: DELETE /movies/{id}
func (h *MovieHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Movie deleted successfully"})
}
