package domain

import "strings"

// UserID identifies a user across aggregates.
type UserID string

// NewUserID wraps a raw id, rejecting the empty string.
func NewUserID(raw string) (UserID, error) {
	if raw == "" {
		return "", &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	return UserID(raw), nil
}

func (id UserID) String() string { return string(id) }

// Email is a validated email address. The local part and domain are
// derived from the raw value, not stored separately.
type Email struct {
	value string
}

// NewEmail validates and wraps a raw address. The only structural
// requirement is the presence of an '@' separator.
func NewEmail(raw string) (Email, error) {
	if !strings.Contains(raw, "@") {
		return Email{}, &ValidationError{Field: "email", Reason: "missing '@'"}
	}
	return Email{value: raw}, nil
}

func (e Email) String() string { return e.value }

// LocalPart returns everything before the first '@'.
func (e Email) LocalPart() string {
	local, _, _ := strings.Cut(e.value, "@")
	return local
}

// Domain returns everything after the first '@'.
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.value, "@")
	return domain
}

func (e Email) IsZero() bool { return e.value == "" }
