package model

// Request bodies with a fixed shape. Users are stored verbatim and have no
// request type of their own.

// LoginRequest is the body of POST /login_user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// MovieInput carries the four movie fields. Missing fields decode to nil and
// are stored as explicit nulls.
type MovieInput struct {
	Title    any `json:"title"`
	ImageURL any `json:"imageurl"`
	City     any `json:"city"`
	Language any `json:"language"`
}

// Document converts the input into the stored shape.
func (m MovieInput) Document() Document {
	return Document{
		"title":    m.Title,
		"imageurl": m.ImageURL,
		"city":     m.City,
		"language": m.Language,
	}
}

// ShowInput is the body of POST /shows.
type ShowInput struct {
	MovieID  string `json:"movie_id" validate:"required"`
	Timings  any    `json:"timings" validate:"required"`
	Category any    `json:"category" validate:"required"`
}

// EventFields lists the fields an event create or update recognises.
var EventFields = []string{"title", "image", "city", "price", "date"}

// ParticipantInput is the body of POST /participants.
type ParticipantInput struct {
	EventID string `json:"event_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
}

// UserFilterFields are the query parameters GET /users/filter understands.
var UserFilterFields = []string{"username", "email", "date_of_birth", "gender", "membership", "user_status"}
