package domain

import (
	"testing"
	"time"
)

func TestToken_IsExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Minute)

	tests := []struct {
		name    string
		token   Token
		expired bool
	}{
		{name: "no expiry never expires", token: NewToken("v", nil), expired: false},
		{name: "future expiry", token: NewToken("v", &future), expired: false},
		{name: "past expiry", token: NewToken("v", &past), expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.IsExpired(); got != tt.expired {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestGenerateToken_Defaults(t *testing.T) {
	tok := GenerateToken()
	if tok.Value == "" {
		t.Fatal("expected opaque value")
	}
	if tok.TokenType != "Bearer" {
		t.Errorf("expected Bearer type, got %s", tok.TokenType)
	}
	if tok.ExpiresAt == nil {
		t.Fatal("expected default expiry")
	}
	ttl := time.Until(*tok.ExpiresAt)
	if ttl <= 14*time.Minute || ttl > AccessTokenTTL {
		t.Errorf("expected ~15m ttl, got %v", ttl)
	}
	if GenerateToken().Value == tok.Value {
		t.Error("token values must be random")
	}
}

func TestGenerateRefreshToken_Defaults(t *testing.T) {
	rt := GenerateRefreshToken("user-1")
	if rt.Value == "" || rt.JTI == "" {
		t.Fatal("expected opaque value and jti")
	}
	if rt.UserID != "user-1" {
		t.Errorf("expected owning user id, got %s", rt.UserID)
	}
	if rt.IsExpired() {
		t.Error("fresh refresh token must not be expired")
	}
	if rt.WithinRotationWindow(RotationThreshold) {
		t.Error("30-day token is outside the 7-day rotation window")
	}
	if !rt.WithinRotationWindow(31 * 24 * time.Hour) {
		t.Error("token expiring within the window must report so")
	}
	if GenerateRefreshToken("user-1").JTI == rt.JTI {
		t.Error("jti must be unique per token")
	}
}
