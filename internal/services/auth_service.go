package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/you/identitysvc/domain"
)

// AuthConfig carries the session policy knobs.
type AuthConfig struct {
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	RotationThreshold time.Duration
}

// DefaultAuthConfig returns the stock policy: 15m access tokens, 30d
// refresh tokens, rotation within 7 days of refresh expiry.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTTL:         domain.AccessTokenTTL,
		RefreshTTL:        domain.RefreshTokenTTL,
		RotationThreshold: domain.RotationThreshold,
	}
}

// AuthServiceImpl implements domain.AuthService. It orchestrates the
// ports and owns no state beyond configuration; all writes go through
// the repositories in a fixed order (validate, mutate, persist primary,
// best-effort side effects).
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	roleRepo    domain.RoleRepository
	sessionRepo domain.SessionRepository
	hasher      domain.PasswordHasher
	tokenGen    domain.TokenGenerator
	emailSvc    domain.EmailService
	events      domain.EventPublisher
	cfg         AuthConfig
	logger      *slog.Logger
}

// NewAuthService creates a new auth application service.
func NewAuthService(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	sessionRepo domain.SessionRepository,
	hasher domain.PasswordHasher,
	tokenGen domain.TokenGenerator,
	emailSvc domain.EmailService,
	events domain.EventPublisher,
	cfg AuthConfig,
	logger *slog.Logger,
) domain.AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthServiceImpl{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokenGen:    tokenGen,
		emailSvc:    emailSvc,
		events:      events,
		cfg:         cfg,
		logger:      logger,
	}
}

// RegisterUser implements domain.AuthService.
func (s *AuthServiceImpl) RegisterUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	// Validate inputs before touching any port.
	addr, err := domain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	pwd, err := domain.NewPassword(password)
	if err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.FindByEmail(ctx, addr); err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user, err := domain.NewUser(email, name)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(pwd.Raw())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	saved, err := s.userRepo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Welcome email and event are best-effort: the user record is
	// already committed and stays committed.
	if err := s.emailSvc.SendWelcomeEmail(ctx, saved); err != nil {
		s.logger.Warn("welcome email failed", "user_id", saved.ID, "error", err)
	}
	s.publish(ctx, domain.NewUserCreatedEvent(saved))

	return saved, nil
}

// AuthenticateUser implements domain.AuthService. All failure causes
// collapse into ErrInvalidCredentials so callers cannot probe for
// account existence.
func (s *AuthServiceImpl) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, *domain.AuthSession, error) {
	addr, err := domain.NewEmail(email)
	if err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, addr)
	if err != nil || user == nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenGen.GenerateAccessToken(user, s.cfg.AccessTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokenGen.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session, err := domain.NewAuthSession(user.ID, token, refresh, time.Now().Add(s.cfg.RefreshTTL))
	if err != nil {
		return nil, nil, err
	}
	session, err = s.sessionRepo.Save(ctx, session)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	user.RecordLogin()
	if _, err := s.userRepo.Save(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to record login: %w", err)
	}

	s.publish(ctx, domain.NewUserAuthenticatedEvent(user))
	s.publish(ctx, domain.NewUserLoggedInEvent(user, session.ID))

	return user, session, nil
}

// RefreshAccessToken implements domain.AuthService. A new access token
// is always issued; the refresh token only rotates inside the rotation
// window before its expiry.
func (s *AuthServiceImpl) RefreshAccessToken(ctx context.Context, refreshTokenValue string) (*domain.User, *domain.AuthSession, error) {
	session, err := s.sessionRepo.FindByRefreshToken(ctx, refreshTokenValue)
	if err != nil || session == nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if session.RefreshToken.IsExpired() {
		// Cleanup-on-read: the expired session is gone after this call.
		if _, err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil || user == nil || !user.IsActive() {
		return nil, nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenGen.GenerateAccessToken(user, s.cfg.AccessTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh := session.RefreshToken
	if refresh.WithinRotationWindow(s.cfg.RotationThreshold) {
		refresh, err = s.tokenGen.GenerateRefreshToken(user.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to rotate refresh token: %w", err)
		}
	}

	session.Refresh(token, refresh)
	session.Extend(s.cfg.AccessTTL)
	session.ExtendTo(refresh.ExpiresAt)

	session, err = s.sessionRepo.Save(ctx, session)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist refreshed session: %w", err)
	}

	return user, session, nil
}

// Logout implements domain.AuthService. Unknown tokens are a no-op.
func (s *AuthServiceImpl) Logout(ctx context.Context, accessTokenValue string) error {
	session, err := s.sessionRepo.FindByToken(ctx, accessTokenValue)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if session == nil {
		return nil
	}

	if _, err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.publish(ctx, domain.NewUserLoggedOutEvent(session.UserID, session.ID))
	return nil
}

// GetUserByToken implements domain.AuthService. Absent or expired
// sessions and missing or inactive users all resolve to (nil, nil).
func (s *AuthServiceImpl) GetUserByToken(ctx context.Context, accessTokenValue string) (*domain.User, error) {
	session, err := s.sessionRepo.FindByToken(ctx, accessTokenValue)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if session.Token.IsExpired() || !session.IsValid() {
		if _, err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, nil
	}

	session.Touch()
	if _, err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to stamp session activity: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if user == nil || !user.IsActive() {
		return nil, nil
	}
	return user, nil
}

// ChangePassword implements domain.AuthService. Every session of the
// user is destroyed afterwards: forced re-login policy.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID domain.UserID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" || !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	pwd, err := domain.NewPassword(newPassword)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(pwd.Raw())
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	if _, err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to persist password change: %w", err)
	}

	if _, err := s.sessionRepo.DeleteAllForUser(ctx, user.ID); err != nil {
		s.logger.Warn("failed to cascade session invalidation", "user_id", user.ID, "error", err)
	}
	s.publish(ctx, domain.NewPasswordChangedEvent(user))
	return nil
}

// AssignRole implements domain.AuthService.
func (s *AuthServiceImpl) AssignRole(ctx context.Context, userID domain.UserID, roleName string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	role, err := s.roleRepo.FindByName(ctx, roleName)
	if err != nil {
		return err
	}

	before := user.RoleNames()
	user.AddRole(role)
	if _, err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to persist role assignment: %w", err)
	}

	s.publish(ctx, domain.NewRoleAssignedEvent(user, role.Name))
	s.publish(ctx, domain.NewUserRoleChangedEvent(user, before, user.RoleNames()))
	return nil
}

// RevokeRole implements domain.AuthService.
func (s *AuthServiceImpl) RevokeRole(ctx context.Context, userID domain.UserID, roleName string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	role, err := s.roleRepo.FindByName(ctx, roleName)
	if err != nil {
		return err
	}

	before := user.RoleNames()
	user.RemoveRole(role.Name)
	if _, err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to persist role revocation: %w", err)
	}

	s.publish(ctx, domain.NewRoleRevokedEvent(user, role.Name))
	s.publish(ctx, domain.NewUserRoleChangedEvent(user, before, user.RoleNames()))
	return nil
}

// AuthorizeUser implements domain.AuthService. An unknown user is not
// an error, just not authorized.
func (s *AuthServiceImpl) AuthorizeUser(ctx context.Context, userID domain.UserID, permissionName string) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.HasPermission(permissionName), nil
}

// CleanupExpiredSessions implements domain.AuthService. Safe to call
// repeatedly and concurrently.
func (s *AuthServiceImpl) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}

func (s *AuthServiceImpl) publish(ctx context.Context, event *domain.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "event", event.Type, "user_id", event.UserID, "error", err)
	}
}
