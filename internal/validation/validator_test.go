package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/model"
)

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		wantField string
		wantMsg   string
	}{
		{
			name:  "complete show",
			input: model.ShowInput{MovieID: "64b7f0c2e1a3b4c5d6e7f8a9", Timings: []any{"18:00"}, Category: "imax"},
		},
		{
			name:      "show without movie_id",
			input:     model.ShowInput{Timings: "18:00", Category: "imax"},
			wantField: "movie_id",
			wantMsg:   "movie_id is required",
		},
		{
			name:      "show without timings",
			input:     model.ShowInput{MovieID: "x", Category: "imax"},
			wantField: "timings",
			wantMsg:   "timings is required",
		},
		{
			name:      "participant without user_id",
			input:     model.ParticipantInput{EventID: "e"},
			wantField: "user_id",
			wantMsg:   "user_id is required",
		},
		{
			name:      "login without password",
			input:     model.LoginRequest{Email: "a@b.com"},
			wantField: "password",
			wantMsg:   "password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}
