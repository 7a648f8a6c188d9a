package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/identitysvc/domain"
)

// PermissionRepositoryImpl implements domain.PermissionRepository using
// GORM.
type PermissionRepositoryImpl struct {
	db *gorm.DB
}

// DBPermission represents the database model for Permission (with GORM
// tags).
type DBPermission struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"uniqueIndex;size:128"`
	Resource    string `gorm:"index;size:128"`
	Action      string `gorm:"size:64"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
}

func (DBPermission) TableName() string { return "permissions" }

// NewPermissionRepository creates a new permission repository.
func NewPermissionRepository(db *gorm.DB) domain.PermissionRepository {
	return &PermissionRepositoryImpl{db: db}
}

// Save implements domain.PermissionRepository. Drafts arrive without
// identity; the repository assigns one here.
func (r *PermissionRepositoryImpl) Save(ctx context.Context, perm *domain.Permission) (*domain.Permission, error) {
	saved := *perm
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Save(permissionToDB(&saved)).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// FindByID implements domain.PermissionRepository.
func (r *PermissionRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Permission, error) {
	var dbPerm DBPermission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbPerm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, err
	}
	return permissionToDomain(&dbPerm), nil
}

// FindByName implements domain.PermissionRepository.
func (r *PermissionRepositoryImpl) FindByName(ctx context.Context, name string) (*domain.Permission, error) {
	var dbPerm DBPermission
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&dbPerm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, err
	}
	return permissionToDomain(&dbPerm), nil
}

// Delete implements domain.PermissionRepository.
func (r *PermissionRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&DBPermission{ID: id})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List implements domain.PermissionRepository.
func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]*domain.Permission, error) {
	var dbPerms []*DBPermission
	if err := r.db.WithContext(ctx).Order("name").Find(&dbPerms).Error; err != nil {
		return nil, err
	}
	perms := make([]*domain.Permission, 0, len(dbPerms))
	for _, p := range dbPerms {
		perms = append(perms, permissionToDomain(p))
	}
	return perms, nil
}

func permissionToDB(p *domain.Permission) *DBPermission {
	return &DBPermission{
		ID:          p.ID,
		Name:        p.Name,
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func permissionToDomain(p *DBPermission) *domain.Permission {
	return &domain.Permission{
		ID:          p.ID,
		Name:        p.Name,
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
