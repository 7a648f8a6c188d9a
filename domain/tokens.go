package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Default credential lifetimes.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 30 * 24 * time.Hour
	// RotationThreshold is the window before refresh-token expiry in
	// which a refresh call also rotates the refresh token itself.
	RotationThreshold = 7 * 24 * time.Hour
)

// Token is a short-lived access credential. Treat as immutable.
type Token struct {
	Value     string     `json:"value"`
	TokenType string     `json:"token_type"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NewToken wraps an opaque credential value. A nil expiry means the
// token never expires.
func NewToken(value string, expiresAt *time.Time) Token {
	return Token{Value: value, TokenType: "Bearer", ExpiresAt: expiresAt}
}

// GenerateToken mints a token with a random opaque value and the
// default access TTL.
func GenerateToken() Token {
	exp := time.Now().Add(AccessTokenTTL)
	return NewToken(randomTokenValue(), &exp)
}

func (t Token) IsExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*t.ExpiresAt)
}

// RefreshToken is a long-lived credential used to mint new access
// tokens. The JTI uniquely identifies it for revocation bookkeeping.
type RefreshToken struct {
	Value     string    `json:"value"`
	UserID    UserID    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	JTI       string    `json:"jti"`
}

// NewRefreshToken wraps an opaque refresh credential for a user.
func NewRefreshToken(value string, userID UserID, expiresAt time.Time, jti string) RefreshToken {
	return RefreshToken{Value: value, UserID: userID, ExpiresAt: expiresAt, JTI: jti}
}

// GenerateRefreshToken mints a refresh token with a random value and
// the default refresh TTL.
func GenerateRefreshToken(userID UserID) RefreshToken {
	return NewRefreshToken(randomTokenValue(), userID, time.Now().Add(RefreshTokenTTL), uuid.NewString())
}

func (t RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// WithinRotationWindow reports whether the token expires within d.
func (t RefreshToken) WithinRotationWindow(d time.Duration) bool {
	return time.Until(t.ExpiresAt) <= d
}

func randomTokenValue() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
