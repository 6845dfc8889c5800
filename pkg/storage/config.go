package storage

import (
	"fmt"
	"os"
	"strconv"
)

// Storage providers.
const (
	ProviderFilesystem = "filesystem"
	ProviderAzure      = "azure"
	ProviderMinio      = "minio"
)

// Config selects a blob storage provider and holds its connection parameters.
// ContainerName is the Azure container or MinIO bucket; Directory is the
// filesystem root. Endpoint is the MinIO host or, without a connection
// string, the Azure account URL.
type Config struct {
	Provider         string `toml:"provider"`
	Directory        string `toml:"directory"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	Endpoint         string `toml:"endpoint"`
	AccessKey        string `toml:"access_key"`
	SecretKey        string `toml:"secret_key"`
	Secure           bool   `toml:"secure"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	Directory        string
	ContainerName    string
	ConnectionString string
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Secure           string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Directory != "" {
		c.Directory = overlay.Directory
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.AccessKey != "" {
		c.AccessKey = overlay.AccessKey
	}
	if overlay.SecretKey != "" {
		c.SecretKey = overlay.SecretKey
	}
	if overlay.Secure {
		c.Secure = true
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderFilesystem
	}
	if c.Directory == "" {
		c.Directory = "output"
	}
	if c.ContainerName == "" {
		c.ContainerName = "offers"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(env.Provider, &c.Provider)
	set(env.Directory, &c.Directory)
	set(env.ContainerName, &c.ContainerName)
	set(env.ConnectionString, &c.ConnectionString)
	set(env.Endpoint, &c.Endpoint)
	set(env.AccessKey, &c.AccessKey)
	set(env.SecretKey, &c.SecretKey)

	if env.Secure != "" {
		if v := os.Getenv(env.Secure); v != "" {
			if secure, err := strconv.ParseBool(v); err == nil {
				c.Secure = secure
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderFilesystem:
		if c.Directory == "" {
			return fmt.Errorf("directory required")
		}
	case ProviderAzure:
		if c.ConnectionString == "" && c.Endpoint == "" {
			return fmt.Errorf("connection_string or endpoint required")
		}
	case ProviderMinio:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint required")
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			return fmt.Errorf("access_key and secret_key required")
		}
	default:
		return fmt.Errorf("unknown provider: %q", c.Provider)
	}
	return nil
}
