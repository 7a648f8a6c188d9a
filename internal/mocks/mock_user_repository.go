package mocks

import (
	"context"

	"github.com/you/identitysvc/domain"
)

// MockUserRepository implements domain.UserRepository for testing.
// Unset funcs fall back to not-found / echo behaviour.
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByIDFunc    func(ctx context.Context, id domain.UserID) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email domain.Email) (*domain.User, error)
	DeleteFunc      func(ctx context.Context, id domain.UserID) (bool, error)
	ListFunc        func(ctx context.Context, offset, limit int) ([]*domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return user, nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Delete(ctx context.Context, id domain.UserID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, offset, limit)
	}
	return nil, nil
}
