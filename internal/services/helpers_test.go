package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/mocks"
)

// authMocks bundles one mock per port so table-driven tests can wire
// behaviour per case.
type authMocks struct {
	users    *mocks.MockUserRepository
	roles    *mocks.MockRoleRepository
	sessions *mocks.MockSessionRepository
	hasher   *mocks.MockPasswordHasher
	tokens   *mocks.MockTokenGenerator
	email    *mocks.MockEmailService
	events   *mocks.MockEventPublisher
}

func newTestAuthService(t *testing.T, cfg AuthConfig) (domain.AuthService, *authMocks) {
	t.Helper()
	m := &authMocks{
		users:    &mocks.MockUserRepository{},
		roles:    &mocks.MockRoleRepository{},
		sessions: &mocks.MockSessionRepository{},
		hasher:   &mocks.MockPasswordHasher{},
		tokens:   &mocks.MockTokenGenerator{},
		email:    &mocks.MockEmailService{},
		events:   &mocks.MockEventPublisher{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAuthService(m.users, m.roles, m.sessions, m.hasher, m.tokens, m.email, m.events, cfg, logger)
	return svc, m
}

// activeUser builds a persisted-looking user with the default mock
// hasher's encoding of the given password.
func activeUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "Test User")
	if err != nil {
		t.Fatalf("failed to build user: %v", err)
	}
	if password != "" {
		user.PasswordHash = "hashed_" + password
	}
	return user
}

// liveSession builds a valid session for the user, expiring an hour out.
func liveSession(t *testing.T, userID domain.UserID) *domain.AuthSession {
	t.Helper()
	sess, err := domain.NewAuthSession(userID, domain.GenerateToken(), domain.GenerateRefreshToken(userID), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	return sess
}

func hasEventType(types []domain.EventType, want domain.EventType) bool {
	for _, ty := range types {
		if ty == want {
			return true
		}
	}
	return false
}
