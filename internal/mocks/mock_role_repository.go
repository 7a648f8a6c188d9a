package mocks

import (
	"context"

	"github.com/you/identitysvc/domain"
)

// MockRoleRepository implements domain.RoleRepository for testing.
type MockRoleRepository struct {
	SaveFunc       func(ctx context.Context, role *domain.Role) (*domain.Role, error)
	FindByIDFunc   func(ctx context.Context, id string) (*domain.Role, error)
	FindByNameFunc func(ctx context.Context, name string) (*domain.Role, error)
	DeleteFunc     func(ctx context.Context, id string) (bool, error)
	ListFunc       func(ctx context.Context) ([]*domain.Role, error)
}

func (m *MockRoleRepository) Save(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, role)
	}
	return role, nil
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrRoleNotFound
}

func (m *MockRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, domain.ErrRoleNotFound
}

func (m *MockRoleRepository) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}
