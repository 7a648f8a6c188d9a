package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/identitysvc/domain"
)

// RoleServiceImpl implements domain.RoleService: role CRUD
// orchestration, independent of session logic.
type RoleServiceImpl struct {
	roleRepo domain.RoleRepository
	permRepo domain.PermissionRepository
}

// NewRoleService creates a new role management service.
func NewRoleService(roleRepo domain.RoleRepository, permRepo domain.PermissionRepository) domain.RoleService {
	return &RoleServiceImpl{roleRepo: roleRepo, permRepo: permRepo}
}

// CreateRole implements domain.RoleService.
func (s *RoleServiceImpl) CreateRole(ctx context.Context, name, description string) (*domain.Role, error) {
	existing, err := s.roleRepo.FindByName(ctx, name)
	if err == nil && existing != nil {
		return nil, domain.ErrRoleAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, fmt.Errorf("failed to check existing role: %w", err)
	}

	role, err := domain.NewRole(name, description, domain.RoleKindCustom)
	if err != nil {
		return nil, err
	}
	return s.roleRepo.Save(ctx, role)
}

// DeleteRole implements domain.RoleService.
func (s *RoleServiceImpl) DeleteRole(ctx context.Context, name string) error {
	role, err := s.roleRepo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if _, err := s.roleRepo.Delete(ctx, role.ID); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

// ListRoles implements domain.RoleService.
func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roleRepo.List(ctx)
}

// AddPermission implements domain.RoleService. The permission draft is
// handed to the repository, which assigns its identity on save.
func (s *RoleServiceImpl) AddPermission(ctx context.Context, roleName, permName, resource, action, description string) (*domain.Role, error) {
	role, err := s.roleRepo.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	perm, err := s.permRepo.FindByName(ctx, permName)
	if err != nil {
		if !errors.Is(err, domain.ErrPermissionNotFound) {
			return nil, err
		}
		draft, err := domain.NewPermission(permName, resource, action, description)
		if err != nil {
			return nil, err
		}
		perm, err = s.permRepo.Save(ctx, draft)
		if err != nil {
			return nil, fmt.Errorf("failed to persist permission: %w", err)
		}
	}

	role.AddPermission(perm)
	return s.roleRepo.Save(ctx, role)
}

// RemovePermission implements domain.RoleService.
func (s *RoleServiceImpl) RemovePermission(ctx context.Context, roleName, permName string) (*domain.Role, error) {
	role, err := s.roleRepo.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if !role.HasPermission(permName) {
		return nil, domain.ErrPermissionNotFound
	}
	role.RemovePermission(permName)
	return s.roleRepo.Save(ctx, role)
}
