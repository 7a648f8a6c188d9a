package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/config"
	"github.com/you/identitysvc/internal/infrastructure/auth"
	"github.com/you/identitysvc/internal/infrastructure/database"
	"github.com/you/identitysvc/internal/infrastructure/events"
	"github.com/you/identitysvc/internal/infrastructure/notifications"
	"github.com/you/identitysvc/internal/infrastructure/repositories"
	"github.com/you/identitysvc/internal/services"
)

// Container holds all dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService
	Publisher   *events.KafkaPublisher

	// Repositories
	UserRepo    domain.UserRepository
	RoleRepo    domain.RoleRepository
	PermRepo    domain.PermissionRepository
	SessionRepo domain.SessionRepository

	// Services
	PasswordSvc domain.PasswordHasher
	TokenSvc    domain.TokenGenerator
	EmailSvc    domain.EmailService
	AuthSvc     domain.AuthService
	RoleSvc     domain.RoleService
}

// NewContainer creates and initializes all dependencies.
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.DB = db
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis() error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return err
	}
	c.RedisClient = rdb.Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.RoleRepo = repositories.NewRoleRepository(c.DB)
	c.PermRepo = repositories.NewPermissionRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService(c.Config.BcryptCost)
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.RefreshTTL)
	c.EmailSvc = notifications.NewEmailService(c.Config.SMTPHost, c.Config.SMTPPort, c.Config.SMTPFrom, c.Logger)
	c.Publisher = events.NewKafkaPublisher(c.Config.KafkaBroker, c.Config.KafkaTopic)

	authCfg := services.AuthConfig{
		AccessTTL:         c.Config.AccessTTL,
		RefreshTTL:        c.Config.RefreshTTL,
		RotationThreshold: c.Config.RotationThreshold,
	}
	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.RoleRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.EmailSvc,
		c.Publisher,
		authCfg,
		c.Logger,
	)
	c.RoleSvc = services.NewRoleService(c.RoleRepo, c.PermRepo)
}

// Close closes all connections.
func (c *Container) Close() error {
	if c.Publisher != nil {
		_ = c.Publisher.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
