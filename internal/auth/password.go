// Package auth handles password storage and verification for /login_user.
//
// Two modes exist:
//
//	plaintext: the password is stored as given and login compares by exact
//	           equality. This is how existing user documents were written, so
//	           it stays the default until existing data is migrated.
//	bcrypt:    the password is stored as a bcrypt hash and login verifies it
//	           with bcrypt.CompareHashAndPassword.
//
// bcrypt generates a random salt per hash and embeds it (and the cost) in the
// output, so no separate salt field is needed:
//
//	$2a$12$<22-char salt><31-char hash>
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Mode selects how passwords are stored and compared.
type Mode string

const (
	ModePlaintext Mode = "plaintext"
	ModeBcrypt    Mode = "bcrypt"
)

// ParseMode validates a configured mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePlaintext, ModeBcrypt:
		return Mode(s), nil
	}
	return "", fmt.Errorf("auth: unknown password mode %q", s)
}

// DefaultCost is the bcrypt work factor. Roughly 250ms per hash on a modern server.
const DefaultCost = 12

// ErrInvalidPassword is returned by Verify when the password does not match.
var ErrInvalidPassword = errors.New("auth: invalid password")

// PasswordService hashes and verifies passwords according to its Mode.
//
// It's a struct (not free functions) so that the cost can be injected
// in tests. Bcrypt cost 4 makes tests run in milliseconds.
type PasswordService struct {
	mode Mode
	cost int
}

// NewPasswordService creates a PasswordService. A cost of 0 means DefaultCost.
func NewPasswordService(mode Mode, cost int) (*PasswordService, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if cost == 0 {
		cost = DefaultCost
	}
	if mode == ModeBcrypt && (cost < bcrypt.MinCost || cost > bcrypt.MaxCost) {
		return nil, fmt.Errorf("auth: bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordService{mode: mode, cost: cost}, nil
}

// Mode reports the configured mode.
func (p *PasswordService) Mode() Mode {
	return p.mode
}

// Hash returns the value to store for plaintext: a bcrypt hash in bcrypt
// mode, the password itself in plaintext mode.
//
// In bcrypt mode passwords over 72 bytes are rejected: bcrypt would silently
// truncate them.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if p.mode == ModePlaintext {
		return plaintext, nil
	}

	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks plaintext against a stored value.
// Returns nil on a match and ErrInvalidPassword on a mismatch.
//
// bcrypt.CompareHashAndPassword compares in constant time.
func (p *PasswordService) Verify(stored, plaintext string) error {
	if p.mode == ModePlaintext {
		if stored != plaintext {
			return ErrInvalidPassword
		}
		return nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		// A stored value that is not a bcrypt hash (a user written before
		// hashing was enabled) can never match.
		return fmt.Errorf("%w: comparing password hash: %v", ErrInvalidPassword, err)
	}
	return nil
}
