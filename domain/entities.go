package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStatus enumerates account states. Transitions are unrestricted:
// any state may be entered from any other.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// RoleKind tags a role's flavour.
type RoleKind string

const (
	RoleKindAdmin  RoleKind = "admin"
	RoleKindUser   RoleKind = "user"
	RoleKindCustom RoleKind = "custom"
)

// Permission grants an action on a resource. Permissions are immutable
// once persisted; the domain constructs identity-less drafts and the
// persistence boundary assigns the id on save.
type Permission struct {
	ID          string
	Name        string
	Resource    string
	Action      string
	Description string
	CreatedAt   time.Time
}

// NewPermission builds a permission draft without identity.
func NewPermission(name, resource, action, description string) (*Permission, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "permission_name", Reason: "must not be empty"}
	}
	return &Permission{
		Name:        name,
		Resource:    resource,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

// Role owns a set of permissions and is shared by reference across
// users: removing a user never deletes the role.
type Role struct {
	ID          string
	Name        string
	Description string
	Kind        RoleKind
	Permissions []*Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRole builds a role with a fresh identity.
func NewRole(name, description string, kind RoleKind) (*Role, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "role_name", Reason: "must not be empty"}
	}
	now := time.Now()
	return &Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Kind:        kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddPermission inserts into the permission set, keyed by name.
func (r *Role) AddPermission(p *Permission) {
	if p == nil || r.HasPermission(p.Name) {
		return
	}
	r.Permissions = append(r.Permissions, p)
	r.UpdatedAt = time.Now()
}

// RemovePermission drops a permission by name, if present.
func (r *Role) RemovePermission(name string) {
	for i, p := range r.Permissions {
		if p.Name == name {
			r.Permissions = append(r.Permissions[:i], r.Permissions[i+1:]...)
			r.UpdatedAt = time.Now()
			return
		}
	}
}

func (r *Role) HasPermission(name string) bool {
	for _, p := range r.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}

// User is the identity aggregate. Roles are referenced, not owned.
type User struct {
	ID           UserID
	Email        Email
	Name         string
	PasswordHash string
	Status       UserStatus
	Roles        []*Role
	Profile      map[string]any
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser constructs a valid active user from primitive inputs. This is
// the domain service gate: value-object invariants are enforced here,
// before anything touches persistence.
func NewUser(rawEmail, name string) (*User, error) {
	email, err := NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	now := time.Now()
	return &User{
		ID:        UserID(uuid.NewString()),
		Email:     email,
		Name:      name,
		Status:    UserStatusActive,
		Profile:   make(map[string]any),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddRole attaches a role reference, unique by role id.
func (u *User) AddRole(role *Role) {
	if role == nil {
		return
	}
	for _, r := range u.Roles {
		if r.ID == role.ID {
			return
		}
	}
	u.Roles = append(u.Roles, role)
	u.UpdatedAt = time.Now()
}

// RemoveRole detaches a role reference by name.
func (u *User) RemoveRole(name string) {
	for i, r := range u.Roles {
		if r.Name == name {
			u.Roles = append(u.Roles[:i], u.Roles[i+1:]...)
			u.UpdatedAt = time.Now()
			return
		}
	}
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HasPermission is a pure union over all referenced roles. There are no
// deny or override semantics: grants are additive only.
func (u *User) HasPermission(name string) bool {
	for _, r := range u.Roles {
		if r.HasPermission(name) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether any referenced role carries the admin kind.
func (u *User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r.Kind == RoleKindAdmin {
			return true
		}
	}
	return false
}

// RoleNames returns the names of all referenced roles, in order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (u *User) IsActive() bool { return u.Status == UserStatusActive }

func (u *User) Activate()   { u.Status = UserStatusActive; u.UpdatedAt = time.Now() }
func (u *User) Deactivate() { u.Status = UserStatusInactive; u.UpdatedAt = time.Now() }
func (u *User) Suspend()    { u.Status = UserStatusSuspended; u.UpdatedAt = time.Now() }

// RecordLogin stamps the last successful authentication.
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLogin = &now
	u.UpdatedAt = now
}

// UpdateProfile merges the given entries into the profile map.
func (u *User) UpdateProfile(entries map[string]any) {
	if u.Profile == nil {
		u.Profile = make(map[string]any)
	}
	for k, v := range entries {
		u.Profile[k] = v
	}
	u.UpdatedAt = time.Now()
}

// AuthSession pairs one access token with one refresh token for a user.
// A user may hold any number of concurrent sessions.
type AuthSession struct {
	ID           string       `json:"id"`
	UserID       UserID       `json:"user_id"`
	Token        Token        `json:"token"`
	RefreshToken RefreshToken `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	LastActivity time.Time    `json:"last_activity"`
}

// NewAuthSession creates an active session. The expiry must be strictly
// in the future.
func NewAuthSession(userID UserID, token Token, refresh RefreshToken, expiresAt time.Time) (*AuthSession, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	now := time.Now()
	if !expiresAt.After(now) {
		return nil, &ValidationError{Field: "expires_at", Reason: "must be in the future"}
	}
	return &AuthSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		Token:        token,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: now,
	}, nil
}

// IsValid reports whether the session is active and not past expiry.
func (s *AuthSession) IsValid() bool {
	return s.IsActive && time.Now().Before(s.ExpiresAt)
}

// Invalidate is terminal: the session never becomes active again.
func (s *AuthSession) Invalidate() { s.IsActive = false }

// Refresh swaps in replacement credentials on the same aggregate and
// stamps activity.
func (s *AuthSession) Refresh(token Token, refresh RefreshToken) {
	s.Token = token
	s.RefreshToken = refresh
	s.Touch()
}

// Extend pushes the expiry forward by d.
func (s *AuthSession) Extend(d time.Duration) {
	s.ExpiresAt = s.ExpiresAt.Add(d)
}

// ExtendTo moves the expiry to t when t is later than the current
// expiry; the deadline never moves backwards.
func (s *AuthSession) ExtendTo(t time.Time) {
	if t.After(s.ExpiresAt) {
		s.ExpiresAt = t
	}
}

// Touch stamps the last-activity time.
func (s *AuthSession) Touch() { s.LastActivity = time.Now() }
