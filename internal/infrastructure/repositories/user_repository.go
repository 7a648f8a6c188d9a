package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/identitysvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM.
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags).
type DBUser struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255"`
	Name         string `gorm:"size:255"`
	PasswordHash string `gorm:"column:password"`
	Status       string `gorm:"index;size:32"`
	Profile      string `gorm:"type:jsonb;default:'{}'"`
	LastLogin    *time.Time
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
	Roles        []*DBRole `gorm:"many2many:user_roles"`
}

func (DBUser) TableName() string { return "users" }

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Save implements domain.UserRepository. It upserts the user row and
// replaces the role links to mirror the aggregate's references.
func (r *UserRepositoryImpl) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	dbUser, err := userToDB(user)
	if err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx)
	if err := tx.Omit("Roles").Save(dbUser).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(dbUser).Association("Roles").Replace(dbUser.Roles); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Where("id = ?", id.String()).
		First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser)
}

// FindByEmail implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Where("email = ?", email.String()).
		First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser)
}

// Delete implements domain.UserRepository. The bool reports whether a
// row was actually removed. Role rows survive user deletion.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id domain.UserID) (bool, error) {
	dbUser := DBUser{ID: id.String()}
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&dbUser).Association("Roles").Clear(); err != nil {
		return false, err
	}
	res := tx.Delete(&dbUser)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List implements domain.UserRepository.
func (r *UserRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	var dbUsers []*DBUser
	err := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Order("created_at").
		Offset(offset).
		Limit(limit).
		Find(&dbUsers).Error
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(dbUsers))
	for _, dbUser := range dbUsers {
		user, err := userToDomain(dbUser)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func userToDB(user *domain.User) (*DBUser, error) {
	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return nil, err
	}
	roles := make([]*DBRole, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, roleToDB(role))
	}
	return &DBUser{
		ID:           user.ID.String(),
		Email:        user.Email.String(),
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Status:       string(user.Status),
		Profile:      string(profile),
		LastLogin:    user.LastLogin,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
		Roles:        roles,
	}, nil
}

func userToDomain(dbUser *DBUser) (*domain.User, error) {
	email, err := domain.NewEmail(dbUser.Email)
	if err != nil {
		return nil, err
	}
	profile := make(map[string]any)
	if dbUser.Profile != "" {
		if err := json.Unmarshal([]byte(dbUser.Profile), &profile); err != nil {
			return nil, err
		}
	}
	roles := make([]*domain.Role, 0, len(dbUser.Roles))
	for _, dbRole := range dbUser.Roles {
		roles = append(roles, roleToDomain(dbRole))
	}
	return &domain.User{
		ID:           domain.UserID(dbUser.ID),
		Email:        email,
		Name:         dbUser.Name,
		PasswordHash: dbUser.PasswordHash,
		Status:       domain.UserStatus(dbUser.Status),
		Roles:        roles,
		Profile:      profile,
		LastLogin:    dbUser.LastLogin,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}, nil
}
