package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret            string `yaml:"secret"`
	Issuer            string `yaml:"issuer"`
	AccessTTL         string `yaml:"access_ttl"`
	RefreshTTL        string `yaml:"refresh_ttl"`
	RotationThreshold string `yaml:"rotation_threshold"`
}

type PasswordConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	From string `yaml:"from"`
}

type KafkaConfig struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Password PasswordConfig `yaml:"password"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

// Config is the flattened runtime configuration.
type Config struct {
	Port              string
	GinMode           string
	DSN               string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	JWTSecret         string
	JWTIssuer         string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	RotationThreshold time.Duration
	BcryptCost        int
	SMTPHost          string
	SMTPPort          int
	SMTPFrom          string
	KafkaBroker       string
	KafkaTopic        string
	CasbinModelPath   string
	CleanupInterval   time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml and applies environment overrides for
// the secrets and endpoints that differ per deployment.
func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	file, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accessTTL, err := parseDuration(file.JWT.AccessTTL, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	refreshTTL, err := parseDuration(file.JWT.RefreshTTL, 720*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}
	rotation, err := parseDuration(file.JWT.RotationThreshold, 168*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid rotation threshold: %w", err)
	}
	cleanup, err := parseDuration(env("SESSION_CLEANUP_INTERVAL", ""), time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup interval: %w", err)
	}

	cost := file.Password.BcryptCost
	if cost == 0 {
		cost = 12
	}

	redisDB := file.Redis.DB
	if v := os.Getenv("REDIS_DB"); v != "" {
		if redisDB, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	}

	return &Config{
		Port:              env("PORT", strconv.Itoa(file.App.Port)),
		GinMode:           env("GIN_MODE", file.App.GinMode),
		DSN:               env("DATABASE_DSN", file.Database.DSN),
		RedisAddr:         env("REDIS_ADDR", file.Redis.Addr),
		RedisPassword:     env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:           redisDB,
		JWTSecret:         env("JWT_SECRET", file.JWT.Secret),
		JWTIssuer:         file.JWT.Issuer,
		AccessTTL:         accessTTL,
		RefreshTTL:        refreshTTL,
		RotationThreshold: rotation,
		BcryptCost:        cost,
		SMTPHost:          env("SMTP_HOST", file.SMTP.Host),
		SMTPPort:          file.SMTP.Port,
		SMTPFrom:          file.SMTP.From,
		KafkaBroker:       env("KAFKA_BROKER", file.Kafka.Broker),
		KafkaTopic:        file.Kafka.Topic,
		CasbinModelPath:   file.Casbin.ModelPath,
		CleanupInterval:   cleanup,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var file ConfigFile
	if err := yaml.Unmarshal(bytes, &file); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}
	return &file, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
