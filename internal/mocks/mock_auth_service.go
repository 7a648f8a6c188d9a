package mocks

import (
	"context"

	"github.com/you/identitysvc/domain"
)

// MockAuthService implements domain.AuthService with function fields.
type MockAuthService struct {
	RegisterUserFunc           func(ctx context.Context, email, name, password string) (*domain.User, error)
	AuthenticateUserFunc       func(ctx context.Context, email, password string) (*domain.User, *domain.AuthSession, error)
	RefreshAccessTokenFunc     func(ctx context.Context, refreshTokenValue string) (*domain.User, *domain.AuthSession, error)
	LogoutFunc                 func(ctx context.Context, accessTokenValue string) error
	GetUserByTokenFunc         func(ctx context.Context, accessTokenValue string) (*domain.User, error)
	ChangePasswordFunc         func(ctx context.Context, userID domain.UserID, oldPassword, newPassword string) error
	AssignRoleFunc             func(ctx context.Context, userID domain.UserID, roleName string) error
	RevokeRoleFunc             func(ctx context.Context, userID domain.UserID, roleName string) error
	AuthorizeUserFunc          func(ctx context.Context, userID domain.UserID, permissionName string) (bool, error)
	CleanupExpiredSessionsFunc func(ctx context.Context) (int64, error)
}

func (m *MockAuthService) RegisterUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	if m.RegisterUserFunc != nil {
		return m.RegisterUserFunc(ctx, email, name, password)
	}
	return domain.NewUser(email, name)
}

func (m *MockAuthService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, *domain.AuthSession, error) {
	if m.AuthenticateUserFunc != nil {
		return m.AuthenticateUserFunc(ctx, email, password)
	}
	return nil, nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshTokenValue string) (*domain.User, *domain.AuthSession, error) {
	if m.RefreshAccessTokenFunc != nil {
		return m.RefreshAccessTokenFunc(ctx, refreshTokenValue)
	}
	return nil, nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) Logout(ctx context.Context, accessTokenValue string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accessTokenValue)
	}
	return nil
}

func (m *MockAuthService) GetUserByToken(ctx context.Context, accessTokenValue string) (*domain.User, error) {
	if m.GetUserByTokenFunc != nil {
		return m.GetUserByTokenFunc(ctx, accessTokenValue)
	}
	return nil, nil
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID domain.UserID, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

func (m *MockAuthService) AssignRole(ctx context.Context, userID domain.UserID, roleName string) error {
	if m.AssignRoleFunc != nil {
		return m.AssignRoleFunc(ctx, userID, roleName)
	}
	return nil
}

func (m *MockAuthService) RevokeRole(ctx context.Context, userID domain.UserID, roleName string) error {
	if m.RevokeRoleFunc != nil {
		return m.RevokeRoleFunc(ctx, userID, roleName)
	}
	return nil
}

func (m *MockAuthService) AuthorizeUser(ctx context.Context, userID domain.UserID, permissionName string) (bool, error) {
	if m.AuthorizeUserFunc != nil {
		return m.AuthorizeUserFunc(ctx, userID, permissionName)
	}
	return false, nil
}

func (m *MockAuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	if m.CleanupExpiredSessionsFunc != nil {
		return m.CleanupExpiredSessionsFunc(ctx)
	}
	return 0, nil
}
