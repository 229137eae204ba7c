package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/auth"
	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/repository"
	"github.com/sakif/trippila/internal/validation"
)

// Pagination defaults for GET /users. There is deliberately no upper bound.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// Messages the user routes have always returned.
const (
	MsgUserExists          = "User already exists with this email"
	MsgCredentialsRequired = "Email and password are required!"
	MsgInvalidCredentials  = "Invalid credentials!"
	MsgNoUpdateData        = "No update data provided"
)

// UserPage is one page of GET /users.
type UserPage struct {
	Users []model.Document
	Total int64
}

// UserService handles user accounts.
//
// Users are stored verbatim: whatever object the client posts becomes the
// document, minus "_id". In bcrypt mode the password field is replaced by its
// hash before it is stored.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

// List returns page `page` of size `perPage` plus the total number of users.
func (s *UserService) List(ctx context.Context, page, perPage int64) (*UserPage, error) {
	if page < 1 {
		return nil, apperror.ValidationFailed("page", "page must be a positive integer")
	}
	if perPage < 1 {
		return nil, apperror.ValidationFailed("per_page", "per_page must be a positive integer")
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}

	// A skip past math.MaxInt64 would wrap negative; no collection is that
	// large, so the page is simply empty.
	if page-1 > math.MaxInt64/perPage {
		return &UserPage{Users: []model.Document{}, Total: total}, nil
	}

	users, err := s.repo.List(ctx, repository.ListOptions{
		Offset: (page - 1) * perPage,
		Limit:  perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	return &UserPage{Users: users, Total: total}, nil
}

func (s *UserService) Get(ctx context.Context, rawID string) (model.Document, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create stores a new user. The email must be present and not yet taken.
// The uniqueness check is a read before the insert, not a database
// constraint, so two concurrent creates with one email can both succeed.
func (s *UserService) Create(ctx context.Context, doc model.Document) (model.ID, error) {
	email, ok := doc.String("email")
	if !ok || email == "" {
		return model.ID{}, apperror.ValidationFailed("email", "email is required")
	}

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return model.ID{}, apperror.Conflict(MsgUserExists)
	case !errors.Is(err, apperror.ErrNotFound):
		return model.ID{}, fmt.Errorf("checking email: %w", err)
	}

	doc, err = s.storePassword(doc)
	if err != nil {
		return model.ID{}, err
	}

	id, err := s.repo.Create(ctx, doc)
	if err != nil {
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return model.ID{}, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created", slog.String("id", id.String()))
	return id, nil
}

// Login checks an email/password pair and returns the user's id.
//
// Missing fields yield ErrValidation with MsgCredentialsRequired; a wrong
// pair yields ErrUnauthorized with MsgInvalidCredentials. Which HTTP status
// those become is the handler's decision.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", apperror.ValidationFailed("email", MsgCredentialsRequired)
	}

	user, err := s.findByCredentials(ctx, req)
	if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, auth.ErrInvalidPassword) {
		return "", apperror.Unauthorized(MsgInvalidCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	id, _ := user.String(model.IDField)
	return id, nil
}

func (s *UserService) findByCredentials(ctx context.Context, req model.LoginRequest) (model.Document, error) {
	if s.passwords.Mode() == auth.ModePlaintext {
		return s.repo.GetByCredentials(ctx, req.Email, req.Password)
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	stored, _ := user.String("password")
	if err := s.passwords.Verify(stored, req.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// Update merges the given top-level fields into the user. Fields not in
// the body are left alone.
func (s *UserService) Update(ctx context.Context, rawID string, fields model.Document) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}

	fields = fields.Without(model.IDField)
	if len(fields) == 0 {
		return apperror.ValidationFailed("body", MsgNoUpdateData)
	}

	fields, err = s.storePassword(fields)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return err
	}

	s.logger.Info("user updated", slog.String("id", id.String()))
	return nil
}

func (s *UserService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.String("id", id.String()))
	return nil
}

// Filter returns users matching every non-empty criterion in
// model.UserFilterFields. Unknown keys are ignored.
func (s *UserService) Filter(ctx context.Context, query map[string]string) ([]model.Document, error) {
	criteria := make(map[string]string)
	for _, field := range model.UserFilterFields {
		if v := query[field]; v != "" {
			criteria[field] = v
		}
	}

	users, err := s.repo.Filter(ctx, criteria)
	if err != nil {
		s.logger.Error("failed to filter users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("filtering users: %w", err)
	}
	return users, nil
}

// storePassword replaces a string "password" field with the value the
// password mode stores for it.
func (s *UserService) storePassword(doc model.Document) (model.Document, error) {
	plaintext, ok := doc.String("password")
	if !ok || s.passwords.Mode() == auth.ModePlaintext {
		return doc, nil
	}

	hashed, err := s.passwords.Hash(plaintext)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	out := doc.Clone()
	out["password"] = hashed
	return out, nil
}
