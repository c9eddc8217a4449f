package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_PORT"` specify the environment variable name.
// `default:""` provides a default value if the env var is not set.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"` // e.g., development, staging, production
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`      // e.g., debug, info, warn, error
	HttpServer ServerConfig
	GrpcServer GrpcServerConfig
	Catalog    CatalogConfig
	Session    SessionConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
}

// GrpcServerConfig holds gRPC server-specific configurations.
type GrpcServerConfig struct {
	Port string `envconfig:"GRPC_SERVER_PORT" default:"9090"`
	// ProbeInterval is how often the backend is probed for the health service.
	ProbeInterval time.Duration `envconfig:"HEALTH_PROBE_INTERVAL" default:"30s"`
}

// CatalogConfig describes the catalog backend and the list view.
type CatalogConfig struct {
	BackendURL   string        `envconfig:"CATALOG_BACKEND_URL" default:"http://localhost:8000"`
	Timeout      time.Duration `envconfig:"CATALOG_BACKEND_TIMEOUT" default:"0s"` // 0 disables the timeout
	Debounce     time.Duration `envconfig:"CATALOG_SEARCH_DEBOUNCE" default:"500ms"`
	ItemsPerPage int           `envconfig:"CATALOG_ITEMS_PER_PAGE" default:"9"`
}

// SessionConfig controls the per-browser admin sessions.
type SessionConfig struct {
	IdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
	MaxSessions int           `envconfig:"SESSION_MAX" default:"1000"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil { // The first argument is a prefix for env vars, empty means no prefix
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Catalog.BackendURL == "" {
		return fmt.Errorf("config: CATALOG_BACKEND_URL must not be empty")
	}
	if c.Catalog.ItemsPerPage <= 0 {
		return fmt.Errorf("config: CATALOG_ITEMS_PER_PAGE must be positive, got %d", c.Catalog.ItemsPerPage)
	}
	if c.Catalog.Debounce < 0 || c.Catalog.Timeout < 0 {
		return fmt.Errorf("config: durations must not be negative")
	}
	if c.GrpcServer.ProbeInterval <= 0 {
		return fmt.Errorf("config: HEALTH_PROBE_INTERVAL must be positive")
	}
	if c.Session.MaxSessions <= 0 {
		return fmt.Errorf("config: SESSION_MAX must be positive, got %d", c.Session.MaxSessions)
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("config: SESSION_IDLE_TIMEOUT must be positive")
	}
	return nil
}
