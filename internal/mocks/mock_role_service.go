package mocks

import (
	"context"

	"github.com/you/identitysvc/domain"
)

// MockRoleService implements domain.RoleService with function fields.
type MockRoleService struct {
	CreateRoleFunc       func(ctx context.Context, name, description string) (*domain.Role, error)
	DeleteRoleFunc       func(ctx context.Context, name string) error
	ListRolesFunc        func(ctx context.Context) ([]*domain.Role, error)
	AddPermissionFunc    func(ctx context.Context, roleName, permName, resource, action, description string) (*domain.Role, error)
	RemovePermissionFunc func(ctx context.Context, roleName, permName string) (*domain.Role, error)
}

func (m *MockRoleService) CreateRole(ctx context.Context, name, description string) (*domain.Role, error) {
	if m.CreateRoleFunc != nil {
		return m.CreateRoleFunc(ctx, name, description)
	}
	return domain.NewRole(name, description, domain.RoleKindCustom)
}

func (m *MockRoleService) DeleteRole(ctx context.Context, name string) error {
	if m.DeleteRoleFunc != nil {
		return m.DeleteRoleFunc(ctx, name)
	}
	return nil
}

func (m *MockRoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	if m.ListRolesFunc != nil {
		return m.ListRolesFunc(ctx)
	}
	return nil, nil
}

func (m *MockRoleService) AddPermission(ctx context.Context, roleName, permName, resource, action, description string) (*domain.Role, error) {
	if m.AddPermissionFunc != nil {
		return m.AddPermissionFunc(ctx, roleName, permName, resource, action, description)
	}
	return nil, domain.ErrRoleNotFound
}

func (m *MockRoleService) RemovePermission(ctx context.Context, roleName, permName string) (*domain.Role, error) {
	if m.RemovePermissionFunc != nil {
		return m.RemovePermissionFunc(ctx, roleName, permName)
	}
	return nil, domain.ErrRoleNotFound
}
