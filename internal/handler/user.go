package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/service"
)

// UserService is what UserHandler needs from the service layer.
// Defined here, where it is consumed, so tests can substitute a fake.
type UserService interface {
	List(ctx context.Context, page, perPage int64) (*service.UserPage, error)
	Get(ctx context.Context, id string) (model.Document, error)
	Create(ctx context.Context, doc model.Document) (model.ID, error)
	Login(ctx context.Context, req model.LoginRequest) (string, error)
	Update(ctx context.Context, id string, fields model.Document) error
	Delete(ctx context.Context, id string) error
	Filter(ctx context.Context, query map[string]string) ([]model.Document, error)
}

// UserHandler serves /users and /login_user.
type UserHandler struct {
	base
	svc UserService

	// legacyLogin makes every login outcome a 200 with a message body.
	legacyLogin bool
}

func NewUserHandler(svc UserService, legacyLogin bool, logger *slog.Logger) *UserHandler {
	return &UserHandler{base: base{logger: logger}, svc: svc, legacyLogin: legacyLogin}
}

// UserListResponse is the body of GET /users.
type UserListResponse struct {
	Users      []model.Document `json:"users"`
	TotalUsers int64            `json:"total_users"`
}

// UserFilterResponse is the body of GET /users/filter.
type UserFilterResponse struct {
	Users []model.Document `json:"users"`
}

// LoginResponse is the body of a successful POST /login_user.
type LoginResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// HandleList returns one page of users.
//
// HTTP: GET /users?page=2&per_page=20
//
// Both parameters are optional (defaults 1 and 10) and must be positive
// integers when given.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", service.DefaultPage)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	perPage, err := queryInt(r, "per_page", service.DefaultPerPage)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.svc.List(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UserListResponse{Users: result.Users, TotalUsers: result.Total})
}

// HandleFilter returns users matching every given criterion exactly.
//
// HTTP: GET /users/filter?gender=f&membership=gold
//
// Failures are never explained to the client: anything unexpected is a
// plain 500.
func (h *UserHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	query := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	users, err := h.svc.Filter(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UserFilterResponse{Users: users})
}

// HTTP: GET /users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleCreate stores the posted object as a new user.
//
// HTTP: POST /users
// REQUEST BODY: any JSON object with a non-empty "email"
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if err := decodeJSON(w, r, &doc); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.svc.Create(r.Context(), doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeCreated(w, "User created successfully", "user_id", id.String())
}

// HandleLogin checks an email/password pair.
//
// HTTP: POST /login_user
// REQUEST BODY: {"email": "...", "password": "..."}
//
// LEGACY STATUS CODES:
// Existing clients read only the message, so by default every outcome is a
// 200: {"message": "Login successful!", "user_id": ...} on success, or
// {"message": "..."} on failure. With legacy mode off, failures use the
// standard error mapping (400 missing fields, 401 bad credentials).
//
// A credential of another JSON type ({"email": 5}) can never match a stored
// user, so it is a bad credential rather than a malformed body.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body model.Document
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err)
		return
	}

	var (
		userID string
		err    error
	)
	if req, typed := loginRequest(body); typed {
		userID, err = h.svc.Login(r.Context(), req)
	} else {
		err = apperror.Unauthorized(service.MsgInvalidCredentials)
	}
	if err != nil {
		if h.legacyLogin {
			if appErr := loginFailure(err); appErr != nil {
				writeJSON(w, http.StatusOK, MessageResponse{Message: appErr.Message})
				return
			}
		}
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Message: "Login successful!", UserID: userID})
}

// loginRequest extracts the credentials. typed is false when both are given
// but at least one is not a string. A falsy non-string counts as missing and
// is left for the required-field check.
func loginRequest(body model.Document) (req model.LoginRequest, typed bool) {
	email, emailOK := body["email"].(string)
	password, passwordOK := body["password"].(string)
	req = model.LoginRequest{Email: email, Password: password}

	if model.Truthy(body["email"]) && model.Truthy(body["password"]) {
		return req, emailOK && passwordOK
	}
	return req, true
}

// loginFailure returns the AppError of an expected login failure, or nil.
func loginFailure(err error) *apperror.AppError {
	if status, _ := classify(err); status != http.StatusBadRequest && status != http.StatusUnauthorized {
		return nil
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return nil
	}
	return appErr
}

// HandleUpdate merges the posted fields into the user.
//
// HTTP: PUT /users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if err := decodeJSON(w, r, &doc); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), doc); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User updated successfully"})
}

// HTTP: DELETE /users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// queryInt reads an optional positive-integer query parameter.
func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, apperror.ValidationFailed(name, name+" must be a positive integer")
	}
	return n, nil
}
