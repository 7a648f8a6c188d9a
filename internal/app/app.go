package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/config"
	httpx "github.com/you/identitysvc/internal/http"
	"github.com/you/identitysvc/internal/http/handlers"
	"github.com/you/identitysvc/internal/http/middleware"
	"github.com/you/identitysvc/internal/observability"
)

// Run wires the container, seeds defaults and serves HTTP until a
// shutdown signal arrives.
func Run(cfg *config.Config, logger *slog.Logger) error {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	observability.Init()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	if err := seedRoles(context.Background(), c); err != nil {
		return err
	}
	seedPolicies(c)

	authH := handlers.NewAuthHandlers(c.AuthSvc)
	roleH := handlers.NewRoleHandlers(c.RoleSvc, c.AuthSvc)
	authMW := middleware.NewAuthMW(c.AuthSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(authH, roleH, authMW, casbinMW)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runSessionSweeper(ctx, c, cfg.CleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedRoles makes sure the built-in admin and user roles exist.
func seedRoles(ctx context.Context, c *Container) error {
	builtins := []struct {
		name string
		desc string
		kind domain.RoleKind
	}{
		{"admin", "full administrative access", domain.RoleKindAdmin},
		{"user", "default member role", domain.RoleKindUser},
	}

	for _, b := range builtins {
		_, err := c.RoleRepo.FindByName(ctx, b.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRoleNotFound) {
			return err
		}
		role, err := domain.NewRole(b.name, b.desc, b.kind)
		if err != nil {
			return err
		}
		if _, err := c.RoleRepo.Save(ctx, role); err != nil {
			return err
		}
		c.Logger.Info("seeded role", "role", b.name)
	}
	return nil
}

// seedPolicies installs default route policies on an empty store.
func seedPolicies(c *Container) {
	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) > 0 {
		return
	}
	c.Casbin.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	_ = c.Casbin.E.SavePolicy()
	c.Logger.Info("casbin: seeded default policies")
}

// runSessionSweeper deletes expired sessions on a fixed interval until
// the context is cancelled.
func runSessionSweeper(ctx context.Context, c *Container, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := c.AuthSvc.CleanupExpiredSessions(ctx)
			if err != nil {
				c.Logger.Warn("session sweep failed", "error", err)
				continue
			}
			observability.ObserveSessionsCleaned(deleted)
			if deleted > 0 {
				c.Logger.Info("session sweep", "deleted", deleted)
			}
		}
	}
}
