package domain

import (
	"errors"
	"fmt"
)

// ValidationError is raised at value-object construction time:
// malformed email, weak password, empty name, non-future session
// expiry. It is always local and never silently discarded.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Business-rule conflicts.
var (
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrRoleAlreadyExists       = errors.New("role already exists")
	ErrPermissionAlreadyExists = errors.New("permission already exists")
)

// Credential failures. Deliberately distinct from "not found" so the
// presentation layer can map both to a generic unauthorized response
// without leaking account existence.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Administrative lookups, where existence is not a secret.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
)

// Session and token errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenMalformed  = errors.New("malformed token")
)
