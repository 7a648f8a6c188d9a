package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/identitysvc/domain"
)

// Context keys set for downstream handlers.
const (
	CtxUserKey   = "user"
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "user_email"
	CtxRolesKey  = "user_roles"
)

// AuthMW resolves bearer tokens to users for protected routes.
type AuthMW struct {
	authSvc domain.AuthService
}

// NewAuthMW creates new auth middleware wrapper.
func NewAuthMW(authSvc domain.AuthService) *AuthMW {
	return &AuthMW{authSvc: authSvc}
}

// RequireAuth returns the bearer-token middleware function. The token
// must resolve to a live session owned by an active user.
func (mw *AuthMW) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenValue, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenValue == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			c.Abort()
			return
		}

		user, err := mw.authSvc.GetUserByToken(c.Request.Context(), tokenValue)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication check failed"})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxUserKey, user)
		c.Set(CtxUserIDKey, user.ID.String())
		c.Set(CtxEmailKey, user.Email.String())
		c.Set(CtxRolesKey, user.RoleNames())
		c.Next()
	}
}

// UserFromContext returns the authenticated user set by RequireAuth.
func UserFromContext(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
