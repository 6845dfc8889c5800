package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvPoliciesSource = "CLAIMFLOW_POLICIES_SOURCE"
	EnvEstimatorSeed  = "CLAIMFLOW_ESTIMATOR_SEED"

	PolicySourceMemory   = "memory"
	PolicySourcePostgres = "postgres"
)

// PoliciesConfig selects where policy records are read from.
type PoliciesConfig struct {
	Source string `toml:"source"`
}

// Finalize applies defaults, environment overrides, and validation.
func (c *PoliciesConfig) Finalize() error {
	if c.Source == "" {
		c.Source = PolicySourceMemory
	}
	if v := os.Getenv(EnvPoliciesSource); v != "" {
		c.Source = v
	}

	switch c.Source {
	case PolicySourceMemory, PolicySourcePostgres:
		return nil
	default:
		return fmt.Errorf("unknown source: %s", c.Source)
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *PoliciesConfig) Merge(overlay *PoliciesConfig) {
	if overlay.Source != "" {
		c.Source = overlay.Source
	}
}

// UsesDatabase reports whether the PostgreSQL repository backs policy lookup.
func (c *PoliciesConfig) UsesDatabase() bool {
	return c.Source == PolicySourcePostgres
}

// EstimatorConfig configures the mock damage estimator.
// A zero Seed seeds the generator from the clock.
type EstimatorConfig struct {
	Seed int64 `toml:"seed"`
}

// Finalize applies environment overrides.
func (c *EstimatorConfig) Finalize() error {
	if v := os.Getenv(EnvEstimatorSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %w", err)
		}
		c.Seed = seed
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *EstimatorConfig) Merge(overlay *EstimatorConfig) {
	if overlay.Seed != 0 {
		c.Seed = overlay.Seed
	}
}
