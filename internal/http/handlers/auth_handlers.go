package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/http/middleware"
	"github.com/you/identitysvc/internal/observability"
)

// AuthHandlers handles authentication HTTP requests.
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Register handles user registration.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.RegisterUser(c.Request.Context(), req.Email, req.Name, req.Password)
	observability.ObserveRegistration(err == nil)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		case domain.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"user": userPayload(user),
		},
	})
}

// Login handles user authentication.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, session, err := h.authSvc.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	observability.ObserveAuthentication(err == nil)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessionPayload(user, session)})
}

// Refresh handles access-token refresh.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, session, err := h.authSvc.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		return
	}
	// The refresh token only changes when the service rotated it.
	observability.ObserveTokenRefresh(session.RefreshToken.Value != req.RefreshToken)

	c.JSON(http.StatusOK, gin.H{"data": sessionPayload(user, session)})
}

// Logout invalidates the caller's session.
func (h *AuthHandlers) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenValue := ""
	if len(header) > len("Bearer ") {
		tokenValue = header[len("Bearer "):]
	}

	if err := h.authSvc.Logout(c.Request.Context(), tokenValue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out"}})
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": userPayload(user)}})
}

// ChangePassword rotates the authenticated user's password.
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authSvc.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case domain.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password change failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Password changed. All sessions were revoked."}})
}

// CleanupSessions triggers an expired-session sweep on demand.
func (h *AuthHandlers) CleanupSessions(c *gin.Context) {
	deleted, err := h.authSvc.CleanupExpiredSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session cleanup failed"})
		return
	}
	observability.ObserveSessionsCleaned(deleted)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": deleted}})
}

func userPayload(user *domain.User) gin.H {
	return gin.H{
		"id":     user.ID.String(),
		"email":  user.Email.String(),
		"name":   user.Name,
		"status": string(user.Status),
		"roles":  user.RoleNames(),
	}
}

func sessionPayload(user *domain.User, session *domain.AuthSession) gin.H {
	expiresIn := int64(0)
	if session.Token.ExpiresAt != nil {
		expiresIn = int64(time.Until(*session.Token.ExpiresAt).Seconds())
	}
	return gin.H{
		"access_token":  session.Token.Value,
		"refresh_token": session.RefreshToken.Value,
		"token_type":    session.Token.TokenType,
		"expires_in":    expiresIn,
		"user":          userPayload(user),
	}
}
