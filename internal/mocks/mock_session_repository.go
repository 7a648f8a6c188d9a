package mocks

import (
	"context"

	"github.com/you/identitysvc/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing.
type MockSessionRepository struct {
	SaveFunc               func(ctx context.Context, session *domain.AuthSession) (*domain.AuthSession, error)
	FindByIDFunc           func(ctx context.Context, id string) (*domain.AuthSession, error)
	FindByTokenFunc        func(ctx context.Context, tokenValue string) (*domain.AuthSession, error)
	FindByRefreshTokenFunc func(ctx context.Context, refreshValue string) (*domain.AuthSession, error)
	DeleteFunc             func(ctx context.Context, id string) (bool, error)
	DeleteAllForUserFunc   func(ctx context.Context, userID domain.UserID) (int64, error)
	DeleteExpiredFunc      func(ctx context.Context) (int64, error)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *domain.AuthSession) (*domain.AuthSession, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	return session, nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id string) (*domain.AuthSession, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) FindByToken(ctx context.Context, tokenValue string) (*domain.AuthSession, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, tokenValue)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) FindByRefreshToken(ctx context.Context, refreshValue string) (*domain.AuthSession, error) {
	if m.FindByRefreshTokenFunc != nil {
		return m.FindByRefreshTokenFunc(ctx, refreshValue)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockSessionRepository) DeleteAllForUser(ctx context.Context, userID domain.UserID) (int64, error) {
	if m.DeleteAllForUserFunc != nil {
		return m.DeleteAllForUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}
