package auth

import (
	"errors"
	"strings"
	"testing"
)

// =========================================================================
// HELPER
// =========================================================================

// newTestPasswordService returns a bcrypt PasswordService with cost 4,
// the minimum bcrypt allows.
func newTestPasswordService(t *testing.T) *PasswordService {
	t.Helper()
	ps, err := NewPasswordService(ModeBcrypt, 4)
	if err != nil {
		t.Fatalf("NewPasswordService() error = %v", err)
	}
	return ps
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestParseMode(t *testing.T) {
	for _, s := range []string{"plaintext", "bcrypt"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) error = %v", s, err)
		}
	}
	if _, err := ParseMode("md5"); err == nil {
		t.Error("ParseMode(\"md5\") should fail")
	}
}

func TestNewPasswordService_RejectsBadCost(t *testing.T) {
	if _, err := NewPasswordService(ModeBcrypt, 99); err == nil {
		t.Fatal("NewPasswordService() should reject cost 99")
	}
}

func TestNewPasswordService_DefaultCost(t *testing.T) {
	ps, err := NewPasswordService(ModePlaintext, 0)
	if err != nil {
		t.Fatalf("NewPasswordService() error = %v", err)
	}
	if ps.cost != DefaultCost {
		t.Errorf("cost = %d, want %d", ps.cost, DefaultCost)
	}
}

// =========================================================================
// PLAINTEXT MODE
// =========================================================================

func TestPlaintext_HashIsIdentity(t *testing.T) {
	ps, _ := NewPasswordService(ModePlaintext, 0)

	got, err := ps.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if got != "hunter2" {
		t.Errorf("Hash() = %q, want the password unchanged", got)
	}
}

func TestPlaintext_VerifyIsExactEquality(t *testing.T) {
	ps, _ := NewPasswordService(ModePlaintext, 0)

	if err := ps.Verify("hunter2", "hunter2"); err != nil {
		t.Errorf("Verify() = %v, want nil", err)
	}
	if err := ps.Verify("hunter2", "Hunter2"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Verify() = %v, want ErrInvalidPassword", err)
	}
}

// =========================================================================
// BCRYPT MODE
// =========================================================================

func TestHash_OutputLooksBcrypt(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// bcrypt hashes always start with $2a$ or $2b$
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService(t)

	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
}

func TestHash_RejectsPasswordOver72Bytes(t *testing.T) {
	ps := newTestPasswordService(t)

	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatal("Hash() should return an error for passwords longer than 72 bytes")
	}
	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("Hash() should accept a 72-byte password, got error: %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, _ := ps.Hash("the-real-password")

	if err := ps.Verify(hash, "the-wrong-password"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("Verify() = %v, want ErrInvalidPassword", err)
	}
}

// A user stored before hashing was switched on still has a plaintext
// password. It must fail like a wrong password, not like a server error.
func TestVerify_UnhashedStoredValue(t *testing.T) {
	ps := newTestPasswordService(t)

	err := ps.Verify("password", "password")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("Verify() = %v, want ErrInvalidPassword", err)
	}
}

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService(t)

	cases := []struct {
		name     string
		password string
	}{
		{"simple alphanumeric", "hello123"},
		{"special characters", "p@$$w0rd!#%"},
		{"unicode", "пароль-密码"},
		{"whitespace", "  leading and trailing  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := ps.Hash(tc.password)
			if err != nil {
				t.Fatalf("Hash(%q) error = %v", tc.password, err)
			}

			if err := ps.Verify(hash, tc.password); err != nil {
				t.Errorf("Verify() failed for %q: %v", tc.password, err)
			}
		})
	}
}
