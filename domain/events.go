package domain

import "time"

// EventType names a domain event emitted after a primary write.
type EventType string

const (
	UserCreatedEvent       EventType = "user_created"
	UserAuthenticatedEvent EventType = "user_authenticated"
	UserLoggedInEvent      EventType = "user_logged_in"
	UserLoggedOutEvent     EventType = "user_logged_out"
	RoleAssignedEvent      EventType = "role_assigned"
	RoleRevokedEvent       EventType = "role_revoked"
	UserRoleChangedEvent   EventType = "user_role_changed"
	PasswordChangedEvent   EventType = "password_changed"
)

// Event is a best-effort notification: it is published after the
// primary state change has been committed, and a publish failure does
// not undo that change.
type Event struct {
	Type      EventType      `json:"type"`
	UserID    UserID         `json:"user_id"`
	Email     string         `json:"email,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewEvent creates an event with common fields populated.
func NewEvent(eventType EventType, userID UserID) *Event {
	return &Event{
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]any),
	}
}

// WithEmail sets the subject email.
func (e *Event) WithEmail(email string) *Event {
	e.Email = email
	return e
}

// WithMetadata adds a metadata entry.
func (e *Event) WithMetadata(key string, value any) *Event {
	e.Metadata[key] = value
	return e
}

func NewUserCreatedEvent(u *User) *Event {
	return NewEvent(UserCreatedEvent, u.ID).WithEmail(u.Email.String())
}

func NewUserAuthenticatedEvent(u *User) *Event {
	return NewEvent(UserAuthenticatedEvent, u.ID).WithEmail(u.Email.String())
}

func NewUserLoggedInEvent(u *User, sessionID string) *Event {
	return NewEvent(UserLoggedInEvent, u.ID).WithEmail(u.Email.String()).WithMetadata("session_id", sessionID)
}

func NewUserLoggedOutEvent(userID UserID, sessionID string) *Event {
	return NewEvent(UserLoggedOutEvent, userID).WithMetadata("session_id", sessionID)
}

func NewRoleAssignedEvent(u *User, roleName string) *Event {
	return NewEvent(RoleAssignedEvent, u.ID).WithMetadata("role", roleName)
}

func NewRoleRevokedEvent(u *User, roleName string) *Event {
	return NewEvent(RoleRevokedEvent, u.ID).WithMetadata("role", roleName)
}

// NewUserRoleChangedEvent records the role-name lists before and after
// an assignment or revocation.
func NewUserRoleChangedEvent(u *User, before, after []string) *Event {
	return NewEvent(UserRoleChangedEvent, u.ID).
		WithMetadata("roles_before", before).
		WithMetadata("roles_after", after)
}

func NewPasswordChangedEvent(u *User) *Event {
	return NewEvent(PasswordChangedEvent, u.ID).WithEmail(u.Email.String())
}
