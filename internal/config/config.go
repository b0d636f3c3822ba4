package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"bizportal/internal/common"
)

const (
	TenantConfigBackendFile     = "file"
	TenantConfigBackendPostgres = "postgres"
)

// Config holds every setting the server reads from the environment
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Storage StorageConfig
	Auth    AuthConfig
	Redis   RedisConfig
	Minio   MinioConfig
	Backup  BackupConfig
}

// StorageConfig locates the namespace tree and the tenant config records
type StorageConfig struct {
	DataRoot            string `env:"DATA_ROOT" envDefault:"./data"`
	DefaultNamespace    string `env:"DEFAULT_NAMESPACE" envDefault:"defaultBPdata"`
	TenantConfigBackend string `env:"TENANT_CONFIG_BACKEND" envDefault:"file"`
	DatabaseURL         string `env:"DATABASE_URL"`
}

type AuthConfig struct {
	JWTSecret       string `env:"JWT_SECRET"`
	CognitoJWKSURL  string `env:"COGNITO_JWKS_URL"`
	CognitoClientID string `env:"COGNITO_CLIENT_ID"`
	AdminGroup      string `env:"ADMIN_GROUP" envDefault:"bizportal-admins"`
	// JWKSRefresh controls how often signing keys are re-fetched from the identity provider.
	JWKSRefresh time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"1h"`
}

type RedisConfig struct {
	Addr            string        `env:"REDIS_ADDR"`
	Password        string        `env:"REDIS_PASSWORD"`
	DB              int           `env:"REDIS_DB" envDefault:"0"`
	RateLimit       int           `env:"RATE_LIMIT" envDefault:"120"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

type BackupConfig struct {
	Bucket    string        `env:"BACKUP_BUCKET" envDefault:"business-backups"`
	Interval  time.Duration `env:"BACKUP_INTERVAL" envDefault:"24h"`
	URLExpiry time.Duration `env:"BACKUP_URL_EXPIRY" envDefault:"15m"`
}

// Load reads an optional .env file and then parses the environment into a Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Storage.DataRoot == "" {
		return errors.New("DATA_ROOT is required")
	}
	if err := common.ValidateNamespace(c.Storage.DefaultNamespace); err != nil {
		return fmt.Errorf("DEFAULT_NAMESPACE: %w", err)
	}

	switch c.Storage.TenantConfigBackend {
	case TenantConfigBackendFile:
	case TenantConfigBackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when TENANT_CONFIG_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown TENANT_CONFIG_BACKEND %q", c.Storage.TenantConfigBackend)
	}

	if c.Auth.CognitoJWKSURL != "" && c.Auth.CognitoClientID == "" {
		return errors.New("COGNITO_CLIENT_ID is required when COGNITO_JWKS_URL is set")
	}

	if c.Redis.RateLimit < 0 {
		return errors.New("RATE_LIMIT cannot be negative")
	}
	return nil
}

// IsProduction reports whether the server runs with production defaults
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// BackupEnabled reports whether object storage is configured for exports
func (c *Config) BackupEnabled() bool {
	return c.Minio.Endpoint != "" && c.Backup.Bucket != ""
}
