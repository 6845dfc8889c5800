package infrastructure

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/claimflow/internal/config"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("CLAIMFLOW_STORAGE_PROVIDER", "filesystem")
	t.Setenv("CLAIMFLOW_STORAGE_DIRECTORY", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewMemoryPolicies(t *testing.T) {
	cfg := memoryConfig(t)

	infra, err := newWithOutput(cfg, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Nil(t, infra.Database)
	assert.NotNil(t, infra.Storage)
	assert.NotNil(t, infra.Metrics)

	require.NoError(t, infra.Start())
	assert.False(t, infra.Ready())

	infra.Lifecycle.WaitForStartup()
	assert.True(t, infra.Ready())

	require.NoError(t, infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()))
	assert.False(t, infra.Ready())
}

func TestNewPostgresPolicies(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Policies.Source = config.PolicySourcePostgres

	infra, err := newWithOutput(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotNil(t, infra.Database)
	assert.False(t, infra.Ready())
}

func TestRegistryGathers(t *testing.T) {
	infra, err := newWithOutput(memoryConfig(t), &bytes.Buffer{})
	require.NoError(t, err)

	infra.Metrics.IncrementClaims("approved")

	families, err := infra.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["claimflow_claims_processed_total"])
	assert.True(t, names["go_goroutines"])
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&config.LoggingConfig{Level: "info", Format: config.LogFormatJSON}, &buf)
	logger.Info("hello", "claim_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "abc", entry["claim_id"])

	buf.Reset()
	logger = NewLogger(&config.LoggingConfig{Level: "warn", Format: config.LogFormatText}, &buf)
	logger.Info("dropped")
	assert.Empty(t, buf.String())
	logger.Warn("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}
