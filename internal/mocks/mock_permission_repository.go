package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/you/identitysvc/domain"
)

// MockPermissionRepository implements domain.PermissionRepository for
// testing. The default Save assigns an id to drafts, mirroring the
// persistence-boundary contract.
type MockPermissionRepository struct {
	SaveFunc       func(ctx context.Context, permission *domain.Permission) (*domain.Permission, error)
	FindByIDFunc   func(ctx context.Context, id string) (*domain.Permission, error)
	FindByNameFunc func(ctx context.Context, name string) (*domain.Permission, error)
	DeleteFunc     func(ctx context.Context, id string) (bool, error)
	ListFunc       func(ctx context.Context) ([]*domain.Permission, error)
}

func (m *MockPermissionRepository) Save(ctx context.Context, permission *domain.Permission) (*domain.Permission, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, permission)
	}
	saved := *permission
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	return &saved, nil
}

func (m *MockPermissionRepository) FindByID(ctx context.Context, id string) (*domain.Permission, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrPermissionNotFound
}

func (m *MockPermissionRepository) FindByName(ctx context.Context, name string) (*domain.Permission, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, domain.ErrPermissionNotFound
}

func (m *MockPermissionRepository) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockPermissionRepository) List(ctx context.Context) ([]*domain.Permission, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}
