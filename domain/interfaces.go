package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations. Lookups return
// ErrUserNotFound when no record matches.
type UserRepository interface {
	Save(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id UserID) (*User, error)
	FindByEmail(ctx context.Context, email Email) (*User, error)
	Delete(ctx context.Context, id UserID) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
}

// RoleRepository defines role data access operations.
type RoleRepository interface {
	Save(ctx context.Context, role *Role) (*Role, error)
	FindByID(ctx context.Context, id string) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*Role, error)
}

// PermissionRepository defines permission data access operations. Save
// assigns identity to drafts: the returned record carries the id.
type PermissionRepository interface {
	Save(ctx context.Context, permission *Permission) (*Permission, error)
	FindByID(ctx context.Context, id string) (*Permission, error)
	FindByName(ctx context.Context, name string) (*Permission, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*Permission, error)
}

// SessionRepository defines session data access operations. The
// secondary indexes by token and refresh-token value must stay
// consistent with the primary record on every save and delete.
type SessionRepository interface {
	Save(ctx context.Context, session *AuthSession) (*AuthSession, error)
	FindByID(ctx context.Context, id string) (*AuthSession, error)
	FindByToken(ctx context.Context, tokenValue string) (*AuthSession, error)
	FindByRefreshToken(ctx context.Context, refreshValue string) (*AuthSession, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAllForUser(ctx context.Context, userID UserID) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// PasswordHasher defines credential hashing operations.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenGenerator mints and inspects signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(user *User, ttl time.Duration) (Token, error)
	GenerateRefreshToken(userID UserID) (RefreshToken, error)
	ValidateToken(tokenValue string) bool
	DecodeToken(tokenValue string) (map[string]any, error)
}

// EmailService sends user-facing mail. All sends are best-effort.
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, user *User) error
	SendPasswordResetEmail(ctx context.Context, user *User, token string) error
	SendVerificationEmail(ctx context.Context, user *User, token string) error
}

// EventPublisher emits domain events. Publication is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
}

// AuthService defines the identity and session use cases.
type AuthService interface {
	RegisterUser(ctx context.Context, email, name, password string) (*User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*User, *AuthSession, error)
	RefreshAccessToken(ctx context.Context, refreshTokenValue string) (*User, *AuthSession, error)
	Logout(ctx context.Context, accessTokenValue string) error
	GetUserByToken(ctx context.Context, accessTokenValue string) (*User, error)
	ChangePassword(ctx context.Context, userID UserID, oldPassword, newPassword string) error
	AssignRole(ctx context.Context, userID UserID, roleName string) error
	RevokeRole(ctx context.Context, userID UserID, roleName string) error
	AuthorizeUser(ctx context.Context, userID UserID, permissionName string) (bool, error)
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// RoleService defines role management, independent of session logic.
type RoleService interface {
	CreateRole(ctx context.Context, name, description string) (*Role, error)
	DeleteRole(ctx context.Context, name string) error
	ListRoles(ctx context.Context) ([]*Role, error)
	AddPermission(ctx context.Context, roleName, permName, resource, action, description string) (*Role, error)
	RemovePermission(ctx context.Context, roleName, permName string) (*Role, error)
}
