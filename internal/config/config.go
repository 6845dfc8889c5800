// Package config loads ClaimFlow configuration from TOML files and CLAIMFLOW_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/claimflow/pkg/database"
	"github.com/JaimeStill/claimflow/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvClaimFlowEnv             = "CLAIMFLOW_ENV"
	EnvClaimFlowShutdownTimeout = "CLAIMFLOW_SHUTDOWN_TIMEOUT"
	EnvClaimFlowVersion         = "CLAIMFLOW_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CLAIMFLOW_DB_HOST",
	Port:            "CLAIMFLOW_DB_PORT",
	Name:            "CLAIMFLOW_DB_NAME",
	User:            "CLAIMFLOW_DB_USER",
	Password:        "CLAIMFLOW_DB_PASSWORD",
	SSLMode:         "CLAIMFLOW_DB_SSL_MODE",
	MaxOpenConns:    "CLAIMFLOW_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CLAIMFLOW_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CLAIMFLOW_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CLAIMFLOW_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "CLAIMFLOW_STORAGE_PROVIDER",
	Directory:        "CLAIMFLOW_STORAGE_DIRECTORY",
	ContainerName:    "CLAIMFLOW_STORAGE_CONTAINER_NAME",
	ConnectionString: "CLAIMFLOW_STORAGE_CONNECTION_STRING",
	Endpoint:         "CLAIMFLOW_STORAGE_ENDPOINT",
	AccessKey:        "CLAIMFLOW_STORAGE_ACCESS_KEY",
	SecretKey:        "CLAIMFLOW_STORAGE_SECRET_KEY",
	Secure:           "CLAIMFLOW_STORAGE_SECURE",
}

// Config is the root configuration for the ClaimFlow service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Logging         LoggingConfig   `toml:"logging"`
	Storage         storage.Config  `toml:"storage"`
	Database        database.Config `toml:"database"`
	Policies        PoliciesConfig  `toml:"policies"`
	Estimator       EstimatorConfig `toml:"estimator"`
	Notify          NotifyConfig    `toml:"notify"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns CLAIMFLOW_ENV, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvClaimFlowEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads config.toml when present, merges the config.<env>.toml overlay,
// and finalizes every section. Without any file, defaults and environment
// variables supply the whole configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Logging.Merge(&overlay.Logging)
	c.Storage.Merge(&overlay.Storage)
	c.Database.Merge(&overlay.Database)
	c.Policies.Merge(&overlay.Policies)
	c.Estimator.Merge(&overlay.Estimator)
	c.Notify.Merge(&overlay.Notify)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"api", c.API.Finalize},
		{"logging", c.Logging.Finalize},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"policies", c.Policies.Finalize},
		{"estimator", c.Estimator.Finalize},
		{"notify", c.Notify.Finalize},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvClaimFlowShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvClaimFlowVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvClaimFlowEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
