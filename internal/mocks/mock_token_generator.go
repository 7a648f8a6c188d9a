package mocks

import (
	"time"

	"github.com/you/identitysvc/domain"
)

// MockTokenGenerator implements domain.TokenGenerator for testing. The
// defaults mint random opaque tokens with the domain factories.
type MockTokenGenerator struct {
	GenerateAccessTokenFunc  func(user *domain.User, ttl time.Duration) (domain.Token, error)
	GenerateRefreshTokenFunc func(userID domain.UserID) (domain.RefreshToken, error)
	ValidateTokenFunc        func(tokenValue string) bool
	DecodeTokenFunc          func(tokenValue string) (map[string]any, error)
}

func (m *MockTokenGenerator) GenerateAccessToken(user *domain.User, ttl time.Duration) (domain.Token, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(user, ttl)
	}
	return domain.GenerateToken(), nil
}

func (m *MockTokenGenerator) GenerateRefreshToken(userID domain.UserID) (domain.RefreshToken, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(userID)
	}
	return domain.GenerateRefreshToken(userID), nil
}

func (m *MockTokenGenerator) ValidateToken(tokenValue string) bool {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenValue)
	}
	return tokenValue != ""
}

func (m *MockTokenGenerator) DecodeToken(tokenValue string) (map[string]any, error) {
	if m.DecodeTokenFunc != nil {
		return m.DecodeTokenFunc(tokenValue)
	}
	return map[string]any{}, nil
}
