package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/claimflow/pkg/formatting"
	"github.com/JaimeStill/claimflow/pkg/middleware"
	"github.com/JaimeStill/claimflow/pkg/pagination"
)

const (
	EnvAPIBasePath      = "CLAIMFLOW_API_BASE_PATH"
	EnvAPIMaxUploadSize = "CLAIMFLOW_API_MAX_UPLOAD_SIZE"
	EnvAPIPublicURL     = "CLAIMFLOW_API_PUBLIC_URL"
)

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CLAIMFLOW_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CLAIMFLOW_PAGINATION_MAX_PAGE_SIZE",
}

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CLAIMFLOW_CORS_ENABLED",
	Origins:          "CLAIMFLOW_CORS_ORIGINS",
	AllowedMethods:   "CLAIMFLOW_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CLAIMFLOW_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CLAIMFLOW_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CLAIMFLOW_CORS_MAX_AGE",
}

// APIConfig holds API routing, upload limits, listing limits, and CORS settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	PublicURL     string                `toml:"public_url"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Finalize guarantees it parses.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// DocumentURL returns the externally reachable URL of a claim's offer document.
func (c *APIConfig) DocumentURL(claimID string) string {
	return strings.TrimSuffix(c.PublicURL, "/") + c.BasePath + "/claims/" + claimID + "/document"
}

// Finalize applies defaults, environment overrides, and validation, including the nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.PublicURL != "" {
		c.PublicURL = overlay.PublicURL
	}
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvAPIPublicURL); v != "" {
		c.PublicURL = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base_path must start with /: %s", c.BasePath)
	}
	return nil
}
