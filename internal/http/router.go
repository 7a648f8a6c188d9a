package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/identitysvc/internal/http/handlers"
	"github.com/you/identitysvc/internal/http/middleware"
	"github.com/you/identitysvc/internal/observability"
)

func BuildRouter(ah *handlers.AuthHandlers, rh *handlers.RoleHandlers, authmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(observability.Handler()))

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/refresh", ah.Refresh)

	me := r.Group("/auth").Use(authmw.RequireAuth())
	me.GET("/me", ah.Me)
	me.POST("/logout", ah.Logout)
	me.POST("/password", ah.ChangePassword)

	adm := r.Group("/admin").Use(authmw.RequireAuth(), cb.Enforce())
	adm.GET("/roles", rh.List)
	adm.POST("/roles", rh.Create)
	adm.DELETE("/roles/:name", rh.Delete)
	adm.POST("/roles/:name/permissions", rh.AddPermission)
	adm.DELETE("/roles/:name/permissions/:permission", rh.RemovePermission)
	adm.POST("/users/:id/roles", rh.AssignToUser)
	adm.DELETE("/users/:id/roles/:name", rh.RevokeFromUser)
	adm.POST("/sessions/cleanup", ah.CleanupSessions)

	return r
}
