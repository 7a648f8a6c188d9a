package mocks

import (
	"context"

	"github.com/you/identitysvc/domain"
)

// MockEmailService implements domain.EmailService for testing.
type MockEmailService struct {
	SendWelcomeEmailFunc       func(ctx context.Context, user *domain.User) error
	SendPasswordResetEmailFunc func(ctx context.Context, user *domain.User, token string) error
	SendVerificationEmailFunc  func(ctx context.Context, user *domain.User, token string) error
}

func (m *MockEmailService) SendWelcomeEmail(ctx context.Context, user *domain.User) error {
	if m.SendWelcomeEmailFunc != nil {
		return m.SendWelcomeEmailFunc(ctx, user)
	}
	return nil
}

func (m *MockEmailService) SendPasswordResetEmail(ctx context.Context, user *domain.User, token string) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, user, token)
	}
	return nil
}

func (m *MockEmailService) SendVerificationEmail(ctx context.Context, user *domain.User, token string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, user, token)
	}
	return nil
}
