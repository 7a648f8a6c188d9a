package domain

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/crypto/pbkdf2"
)

const (
	passwordMinLength = 8
	pbkdf2Iterations  = 10000
	pbkdf2KeyLength   = 32
	saltLength        = 16
)

// Password is an ephemeral value object over a raw secret. It is never
// persisted; only the derived salt:digest string leaves the process.
type Password struct {
	raw string
}

// NewPassword validates the strength rules: minimum length plus at
// least one uppercase letter, one lowercase letter and one digit.
func NewPassword(raw string) (Password, error) {
	if len(raw) < passwordMinLength {
		return Password{}, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	var upper, lower, digit bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return Password{}, &ValidationError{Field: "password", Reason: "must contain an uppercase letter, a lowercase letter and a digit"}
	}
	return Password{raw: raw}, nil
}

// Raw exposes the secret for handing to a PasswordHasher port. Callers
// must not retain the returned string.
func (p Password) Raw() string { return p.raw }

// Hash derives a "<salt>:<digest>" string with a fresh random salt, so
// two calls on the same password produce different strings.
func (p Password) Hash() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return p.hashWith(salt), nil
}

// Verify recomputes the digest from a stored "<salt>:<digest>" string
// and compares in constant time. Malformed input yields false, never an
// error.
func (p Password) Verify(hashValue string) bool {
	saltHex, digestHex, ok := strings.Cut(hashValue, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(p.raw), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hmac.Equal(got, want)
}

func (p Password) hashWith(salt []byte) string {
	digest := pbkdf2.Key([]byte(p.raw), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest)
}
