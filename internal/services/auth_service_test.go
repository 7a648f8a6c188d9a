package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/you/identitysvc/domain"
)

func TestAuthServiceImpl_RegisterUser(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		userName      string
		password      string
		setupMocks    func(m *authMocks)
		expectedError error
		expectValErr  bool
		validate      func(t *testing.T, m *authMocks, user *domain.User)
	}{
		{
			name:     "successful registration",
			email:    "newuser@example.com",
			userName: "New User",
			password: "Passw0rdX",
			validate: func(t *testing.T, m *authMocks, user *domain.User) {
				if user == nil {
					t.Fatal("user is nil")
				}
				if user.Email.String() != "newuser@example.com" {
					t.Errorf("unexpected email %s", user.Email.String())
				}
				if user.PasswordHash != "hashed_Passw0rdX" {
					t.Errorf("unexpected hash %s", user.PasswordHash)
				}
				if user.Status != domain.UserStatusActive {
					t.Errorf("expected active status, got %s", user.Status)
				}
				if !hasEventType(m.events.PublishedTypes(), domain.UserCreatedEvent) {
					t.Error("expected user_created event")
				}
			},
		},
		{
			name:     "duplicate email",
			email:    "existing@example.com",
			userName: "Existing",
			password: "Passw0rdX",
			setupMocks: func(m *authMocks) {
				m.users.FindByEmailFunc = func(ctx context.Context, email domain.Email) (*domain.User, error) {
					return activeUser(t, email.String(), "Passw0rdX"), nil
				}
			},
			expectedError: domain.ErrUserAlreadyExists,
		},
		{
			name:         "malformed email",
			email:        "not-an-email",
			userName:     "Someone",
			password:     "Passw0rdX",
			expectValErr: true,
		},
		{
			name:         "weak password",
			email:        "a@b.com",
			userName:     "Someone",
			password:     "short",
			expectValErr: true,
		},
		{
			name:         "blank name",
			email:        "a@b.com",
			userName:     "   ",
			password:     "Passw0rdX",
			expectValErr: true,
		},
		{
			name:     "welcome email failure does not fail registration",
			email:    "a@b.com",
			userName: "Someone",
			password: "Passw0rdX",
			setupMocks: func(m *authMocks) {
				m.email.SendWelcomeEmailFunc = func(ctx context.Context, user *domain.User) error {
					return errors.New("smtp down")
				}
			},
			validate: func(t *testing.T, m *authMocks, user *domain.User) {
				if user == nil {
					t.Fatal("registration must survive email failure")
				}
			},
		},
		{
			name:     "event publish failure does not fail registration",
			email:    "a@b.com",
			userName: "Someone",
			password: "Passw0rdX",
			setupMocks: func(m *authMocks) {
				m.events.PublishFunc = func(ctx context.Context, event *domain.Event) error {
					return errors.New("broker down")
				}
			},
			validate: func(t *testing.T, m *authMocks, user *domain.User) {
				if user == nil {
					t.Fatal("registration must survive publish failure")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestAuthService(t, DefaultAuthConfig())
			if tt.setupMocks != nil {
				tt.setupMocks(m)
			}

			user, err := svc.RegisterUser(context.Background(), tt.email, tt.userName, tt.password)
			if tt.expectValErr {
				if !domain.IsValidationError(err) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, m, user)
			}
		})
	}
}

func TestAuthServiceImpl_AuthenticateUser(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(m *authMocks)
		wantErr    error
	}{
		{
			name:     "success",
			email:    "alice@example.com",
			password: "Passw0rdX",
			setupMocks: func(m *authMocks) {
				m.users.FindByEmailFunc = func(ctx context.Context, email domain.Email) (*domain.User, error) {
					return activeUser(t, email.String(), "Passw0rdX"), nil
				}
			},
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "Passw0rdX",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "alice@example.com",
			password: "Wr0ngPassword",
			setupMocks: func(m *authMocks) {
				m.users.FindByEmailFunc = func(ctx context.Context, email domain.Email) (*domain.User, error) {
					return activeUser(t, email.String(), "Passw0rdX"), nil
				}
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:     "no password set",
			email:    "sso@example.com",
			password: "Passw0rdX",
			setupMocks: func(m *authMocks) {
				m.users.FindByEmailFunc = func(ctx context.Context, email domain.Email) (*domain.User, error) {
					return activeUser(t, email.String(), ""), nil
				}
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:     "suspended account",
			email:    "alice@example.com",
			password: "Passw0rdX",
			setupMocks: func(m *authMocks) {
				m.users.FindByEmailFunc = func(ctx context.Context, email domain.Email) (*domain.User, error) {
					user := activeUser(t, email.String(), "Passw0rdX")
					user.Suspend()
					return user, nil
				}
			},
			wantErr: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestAuthService(t, DefaultAuthConfig())
			if tt.setupMocks != nil {
				tt.setupMocks(m)
			}

			var savedSession *domain.AuthSession
			m.sessions.SaveFunc = func(ctx context.Context, session *domain.AuthSession) (*domain.AuthSession, error) {
				savedSession = session
				return session, nil
			}

			user, session, err := svc.AuthenticateUser(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if user != nil || session != nil {
					t.Error("no user or session on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if session.UserID != user.ID {
				t.Errorf("session owner %s != user %s", session.UserID, user.ID)
			}
			if savedSession == nil {
				t.Error("session must be persisted")
			}
			if user.LastLogin == nil {
				t.Error("last login must be stamped")
			}
			types := m.events.PublishedTypes()
			if !hasEventType(types, domain.UserAuthenticatedEvent) || !hasEventType(types, domain.UserLoggedInEvent) {
				t.Errorf("expected authenticated+logged_in events, got %v", types)
			}
		})
	}
}

func TestAuthServiceImpl_AuthenticateUser_UniformFailures(t *testing.T) {
	// Unknown account and wrong password must be indistinguishable.
	svc, m := newTestAuthService(t, DefaultAuthConfig())
	_, _, unknownErr := svc.AuthenticateUser(context.Background(), "ghost@example.com", "Passw0rdX")

	m.users.FindByEmailFunc = func(ctx context.Context, email domain.Email) (*domain.User, error) {
		return activeUser(t, email.String(), "Passw0rdX"), nil
	}
	_, _, wrongErr := svc.AuthenticateUser(context.Background(), "alice@example.com", "Wr0ngPassword")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) || !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("both failures must be ErrInvalidCredentials: %v vs %v", unknownErr, wrongErr)
	}
}

func TestAuthServiceImpl_RefreshAccessToken(t *testing.T) {
	cfg := DefaultAuthConfig()

	tests := []struct {
		name         string
		refreshIn    time.Duration // time until refresh token expiry
		expectRotate bool
	}{
		{name: "outside rotation window keeps refresh token", refreshIn: 20 * 24 * time.Hour, expectRotate: false},
		{name: "inside rotation window rotates refresh token", refreshIn: 3 * 24 * time.Hour, expectRotate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestAuthService(t, cfg)

			user := activeUser(t, "alice@example.com", "Passw0rdX")
			sess := liveSession(t, user.ID)
			sess.RefreshToken = domain.NewRefreshToken("refresh-1", user.ID, time.Now().Add(tt.refreshIn), "jti-1")
			oldAccess := sess.Token.Value

			m.sessions.FindByRefreshTokenFunc = func(ctx context.Context, value string) (*domain.AuthSession, error) {
				if value != "refresh-1" {
					return nil, domain.ErrSessionNotFound
				}
				return sess, nil
			}
			m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
				return user, nil
			}
			var saved *domain.AuthSession
			m.sessions.SaveFunc = func(ctx context.Context, session *domain.AuthSession) (*domain.AuthSession, error) {
				saved = session
				return session, nil
			}

			gotUser, gotSess, err := svc.RefreshAccessToken(context.Background(), "refresh-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotUser.ID != user.ID {
				t.Errorf("owner mismatch: %s", gotUser.ID)
			}
			if gotSess.ID != sess.ID {
				t.Error("refresh must keep the same session aggregate")
			}
			if gotSess.Token.Value == oldAccess {
				t.Error("access token must always change")
			}
			rotated := gotSess.RefreshToken.Value != "refresh-1"
			if rotated != tt.expectRotate {
				t.Errorf("rotation = %v, want %v", rotated, tt.expectRotate)
			}
			if saved == nil {
				t.Error("refreshed session must be persisted")
			}
		})
	}
}

func TestAuthServiceImpl_RefreshAccessToken_Failures(t *testing.T) {
	t.Run("unknown refresh token", func(t *testing.T) {
		svc, _ := newTestAuthService(t, DefaultAuthConfig())
		_, _, err := svc.RefreshAccessToken(context.Background(), "nope")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("expired refresh token is deleted on read", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "Passw0rdX")
		sess := liveSession(t, user.ID)
		sess.RefreshToken = domain.NewRefreshToken("refresh-1", user.ID, time.Now().Add(-time.Minute), "jti-1")

		m.sessions.FindByRefreshTokenFunc = func(ctx context.Context, value string) (*domain.AuthSession, error) {
			return sess, nil
		}
		deleted := false
		m.sessions.DeleteFunc = func(ctx context.Context, id string) (bool, error) {
			deleted = id == sess.ID
			return true, nil
		}

		_, _, err := svc.RefreshAccessToken(context.Background(), "refresh-1")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if !deleted {
			t.Error("expired session must be deleted as a side effect")
		}
	})

	t.Run("inactive owner", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "Passw0rdX")
		user.Deactivate()
		sess := liveSession(t, user.ID)

		m.sessions.FindByRefreshTokenFunc = func(ctx context.Context, value string) (*domain.AuthSession, error) {
			return sess, nil
		}
		m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			return user, nil
		}

		_, _, err := svc.RefreshAccessToken(context.Background(), sess.RefreshToken.Value)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthServiceImpl_Logout(t *testing.T) {
	t.Run("deletes the session and publishes", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		sess := liveSession(t, "u-1")

		m.sessions.FindByTokenFunc = func(ctx context.Context, value string) (*domain.AuthSession, error) {
			return sess, nil
		}
		deleted := false
		m.sessions.DeleteFunc = func(ctx context.Context, id string) (bool, error) {
			deleted = id == sess.ID
			return true, nil
		}

		if err := svc.Logout(context.Background(), sess.Token.Value); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted {
			t.Error("session must be deleted")
		}
		if !hasEventType(m.events.PublishedTypes(), domain.UserLoggedOutEvent) {
			t.Error("expected user_logged_out event")
		}
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		if err := svc.Logout(context.Background(), "nope"); err != nil {
			t.Fatalf("logout of unknown token must not error: %v", err)
		}
		if len(m.events.Published()) != 0 {
			t.Error("no events for a no-op logout")
		}
	})
}

func TestAuthServiceImpl_GetUserByToken(t *testing.T) {
	t.Run("valid token returns owner and stamps activity", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "Passw0rdX")
		sess := liveSession(t, user.ID)
		before := sess.LastActivity

		m.sessions.FindByTokenFunc = func(ctx context.Context, value string) (*domain.AuthSession, error) {
			return sess, nil
		}
		var saved *domain.AuthSession
		m.sessions.SaveFunc = func(ctx context.Context, session *domain.AuthSession) (*domain.AuthSession, error) {
			saved = session
			return session, nil
		}
		m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			return user, nil
		}

		got, err := svc.GetUserByToken(context.Background(), sess.Token.Value)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Fatal("expected owning user")
		}
		if saved == nil || saved.LastActivity.Before(before) {
			t.Error("last activity must be stamped and persisted")
		}
	})

	t.Run("absent session returns none", func(t *testing.T) {
		svc, _ := newTestAuthService(t, DefaultAuthConfig())
		user, err := svc.GetUserByToken(context.Background(), "nope")
		if err != nil || user != nil {
			t.Fatalf("expected (nil, nil), got (%v, %v)", user, err)
		}
	})

	t.Run("expired token is cleaned up on read", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		sess := liveSession(t, "u-1")
		past := time.Now().Add(-time.Minute)
		sess.Token = domain.NewToken(sess.Token.Value, &past)

		m.sessions.FindByTokenFunc = func(ctx context.Context, value string) (*domain.AuthSession, error) {
			return sess, nil
		}
		deleted := false
		m.sessions.DeleteFunc = func(ctx context.Context, id string) (bool, error) {
			deleted = id == sess.ID
			return true, nil
		}

		user, err := svc.GetUserByToken(context.Background(), sess.Token.Value)
		if err != nil || user != nil {
			t.Fatalf("expected (nil, nil), got (%v, %v)", user, err)
		}
		if !deleted {
			t.Error("expired session must be deleted on read")
		}
	})

	t.Run("inactive owner returns none", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "Passw0rdX")
		user.Deactivate()
		sess := liveSession(t, user.ID)

		m.sessions.FindByTokenFunc = func(ctx context.Context, value string) (*domain.AuthSession, error) {
			return sess, nil
		}
		m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			return user, nil
		}

		got, err := svc.GetUserByToken(context.Background(), sess.Token.Value)
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil), got (%v, %v)", got, err)
		}
	})
}

func TestAuthServiceImpl_ChangePassword(t *testing.T) {
	t.Run("replaces hash and destroys sessions", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "OldPassw0rd")

		m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			return user, nil
		}
		var savedUser *domain.User
		m.users.SaveFunc = func(ctx context.Context, u *domain.User) (*domain.User, error) {
			savedUser = u
			return u, nil
		}
		var cascadedFor domain.UserID
		m.sessions.DeleteAllForUserFunc = func(ctx context.Context, userID domain.UserID) (int64, error) {
			cascadedFor = userID
			return 2, nil
		}

		err := svc.ChangePassword(context.Background(), user.ID, "OldPassw0rd", "NewPassw0rd")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if savedUser == nil || savedUser.PasswordHash != "hashed_NewPassw0rd" {
			t.Error("hash must be replaced and persisted")
		}
		if cascadedFor != user.ID {
			t.Error("all sessions for the user must be deleted")
		}
		if !hasEventType(m.events.PublishedTypes(), domain.PasswordChangedEvent) {
			t.Error("expected password_changed event")
		}
	})

	t.Run("wrong old password", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "OldPassw0rd")
		m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			return user, nil
		}
		err := svc.ChangePassword(context.Background(), user.ID, "Wr0ngOldPwd", "NewPassw0rd")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newTestAuthService(t, DefaultAuthConfig())
		err := svc.ChangePassword(context.Background(), "ghost", "OldPassw0rd", "NewPassw0rd")
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("weak new password", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "OldPassw0rd")
		m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			return user, nil
		}
		err := svc.ChangePassword(context.Background(), user.ID, "OldPassw0rd", "weak")
		if !domain.IsValidationError(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestAuthServiceImpl_RoleAssignment(t *testing.T) {
	adminRole := func(t *testing.T) *domain.Role {
		t.Helper()
		role, err := domain.NewRole("admin", "administrators", domain.RoleKindAdmin)
		if err != nil {
			t.Fatal(err)
		}
		perm, _ := domain.NewPermission("users:delete", "users", "delete", "")
		perm.ID = "p-1"
		role.AddPermission(perm)
		return role
	}

	t.Run("assign then authorize then revoke", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "Passw0rdX")
		role := adminRole(t)

		m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			return user, nil
		}
		m.roles.FindByNameFunc = func(ctx context.Context, name string) (*domain.Role, error) {
			if name != "admin" {
				return nil, domain.ErrRoleNotFound
			}
			return role, nil
		}

		if err := svc.AssignRole(context.Background(), user.ID, "admin"); err != nil {
			t.Fatalf("assign failed: %v", err)
		}
		ok, err := svc.AuthorizeUser(context.Background(), user.ID, "users:delete")
		if err != nil || !ok {
			t.Fatalf("expected authorized after assign, got (%v, %v)", ok, err)
		}

		if err := svc.RevokeRole(context.Background(), user.ID, "admin"); err != nil {
			t.Fatalf("revoke failed: %v", err)
		}
		ok, err = svc.AuthorizeUser(context.Background(), user.ID, "users:delete")
		if err != nil || ok {
			t.Fatalf("expected unauthorized after revoke, got (%v, %v)", ok, err)
		}

		types := m.events.PublishedTypes()
		for _, want := range []domain.EventType{domain.RoleAssignedEvent, domain.RoleRevokedEvent, domain.UserRoleChangedEvent} {
			if !hasEventType(types, want) {
				t.Errorf("expected %s event, got %v", want, types)
			}
		}
	})

	t.Run("role change event carries before and after lists", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "Passw0rdX")
		role := adminRole(t)

		m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			return user, nil
		}
		m.roles.FindByNameFunc = func(ctx context.Context, name string) (*domain.Role, error) {
			return role, nil
		}

		if err := svc.AssignRole(context.Background(), user.ID, "admin"); err != nil {
			t.Fatalf("assign failed: %v", err)
		}
		var changed *domain.Event
		for _, e := range m.events.Published() {
			if e.Type == domain.UserRoleChangedEvent {
				changed = e
			}
		}
		if changed == nil {
			t.Fatal("expected user_role_changed event")
		}
		before, _ := changed.Metadata["roles_before"].([]string)
		after, _ := changed.Metadata["roles_after"].([]string)
		if len(before) != 0 || len(after) != 1 || after[0] != "admin" {
			t.Errorf("unexpected role lists: before=%v after=%v", before, after)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		svc, m := newTestAuthService(t, DefaultAuthConfig())
		user := activeUser(t, "alice@example.com", "Passw0rdX")
		m.users.FindByIDFunc = func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			return user, nil
		}
		err := svc.AssignRole(context.Background(), user.ID, "nope")
		if !errors.Is(err, domain.ErrRoleNotFound) {
			t.Fatalf("expected ErrRoleNotFound, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newTestAuthService(t, DefaultAuthConfig())
		err := svc.AssignRole(context.Background(), "ghost", "admin")
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAuthServiceImpl_AuthorizeUser_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t, DefaultAuthConfig())
	ok, err := svc.AuthorizeUser(context.Background(), "ghost", "users:delete")
	if err != nil {
		t.Fatalf("unknown user is not an error: %v", err)
	}
	if ok {
		t.Error("unknown user is never authorized")
	}
}

func TestAuthServiceImpl_CleanupExpiredSessions(t *testing.T) {
	svc, m := newTestAuthService(t, DefaultAuthConfig())

	remaining := int64(3)
	m.sessions.DeleteExpiredFunc = func(ctx context.Context) (int64, error) {
		n := remaining
		remaining = 0
		return n, nil
	}

	first, err := svc.CleanupExpiredSessions(context.Background())
	if err != nil || first != 3 {
		t.Fatalf("expected 3 removed, got (%d, %v)", first, err)
	}
	second, err := svc.CleanupExpiredSessions(context.Background())
	if err != nil || second != 0 {
		t.Fatalf("second pass must remove 0, got (%d, %v)", second, err)
	}
}
