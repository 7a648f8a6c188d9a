package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/identitysvc/domain"
)

// RoleRepositoryImpl implements domain.RoleRepository using GORM.
type RoleRepositoryImpl struct {
	db *gorm.DB
}

// DBRole represents the database model for Role (with GORM tags).
type DBRole struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"uniqueIndex;size:64"`
	Description string `gorm:"size:255"`
	Kind        string `gorm:"index;size:32"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Permissions []*DBPermission `gorm:"many2many:role_permissions"`
}

func (DBRole) TableName() string { return "roles" }

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *gorm.DB) domain.RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

// Save implements domain.RoleRepository.
func (r *RoleRepositoryImpl) Save(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	dbRole := roleToDB(role)
	tx := r.db.WithContext(ctx)
	if err := tx.Omit("Permissions").Save(dbRole).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(dbRole).Association("Permissions").Replace(dbRole.Permissions); err != nil {
		return nil, err
	}
	return role, nil
}

// FindByID implements domain.RoleRepository.
func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	var dbRole DBRole
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("id = ?", id).
		First(&dbRole).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return roleToDomain(&dbRole), nil
}

// FindByName implements domain.RoleRepository.
func (r *RoleRepositoryImpl) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var dbRole DBRole
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("name = ?", name).
		First(&dbRole).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return roleToDomain(&dbRole), nil
}

// Delete implements domain.RoleRepository.
func (r *RoleRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	dbRole := DBRole{ID: id}
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&dbRole).Association("Permissions").Clear(); err != nil {
		return false, err
	}
	res := tx.Delete(&dbRole)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List implements domain.RoleRepository.
func (r *RoleRepositoryImpl) List(ctx context.Context) ([]*domain.Role, error) {
	var dbRoles []*DBRole
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Order("name").
		Find(&dbRoles).Error
	if err != nil {
		return nil, err
	}
	roles := make([]*domain.Role, 0, len(dbRoles))
	for _, dbRole := range dbRoles {
		roles = append(roles, roleToDomain(dbRole))
	}
	return roles, nil
}

func roleToDB(role *domain.Role) *DBRole {
	perms := make([]*DBPermission, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		perms = append(perms, permissionToDB(p))
	}
	return &DBRole{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Kind:        string(role.Kind),
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
		Permissions: perms,
	}
}

func roleToDomain(dbRole *DBRole) *domain.Role {
	perms := make([]*domain.Permission, 0, len(dbRole.Permissions))
	for _, p := range dbRole.Permissions {
		perms = append(perms, permissionToDomain(p))
	}
	return &domain.Role{
		ID:          dbRole.ID,
		Name:        dbRole.Name,
		Description: dbRole.Description,
		Kind:        domain.RoleKind(dbRole.Kind),
		Permissions: perms,
		CreatedAt:   dbRole.CreatedAt,
		UpdatedAt:   dbRole.UpdatedAt,
	}
}
