package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Credential store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	Port      string `env:"PORT,       default=8081"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	PageSize  int    `env:"PAGE_SIZE,  default=10"`

	Backend    BackendConfig
	Credential CredentialConfig
	Redis      RedisConfig
	Audit      AuditConfig
	Mongo      MongoConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:8080"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

type CredentialConfig struct {
	Store string `env:"CREDENTIAL_STORE, default=file"`
	// File defaults to the per-user config directory when empty.
	File       string `env:"CREDENTIAL_FILE"`
	Passphrase string `env:"CREDENTIAL_PASSPHRASE"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Prefix   string `env:"REDIS_PREFIX,   default=admin-console:"`
}

type AuditConfig struct {
	Enabled bool `env:"AUDIT_ENABLED, default=false"`
	Workers int  `env:"AUDIT_WORKERS, default=2"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=admin_console"`
}

// Load reads an optional .env file, then the environment.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express in tags.
func (c *Config) Validate() error {
	var errs []error
	if c.PageSize < 1 || c.PageSize > 100 {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be between 1 and 100, got %d", c.PageSize))
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("BACKEND_URL must be an http(s) URL, got %q", c.Backend.URL))
	}
	switch c.Credential.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("CREDENTIAL_STORE must be memory, file or redis, got %q", c.Credential.Store))
	}
	if c.Audit.Enabled && c.Mongo.URI == "" {
		errs = append(errs, errors.New("AUDIT_ENABLED requires MONGO_URI"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IsDevelopment reports whether ENV is development.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }
