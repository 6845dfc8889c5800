package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/claimflow/internal/config"
	"github.com/JaimeStill/claimflow/pkg/storage"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8000

[api]
base_path = "/api"
max_upload_size = "5MB"
public_url = "http://claims.example.com/"

[api.cors]
enabled = true
origins = ["http://claims.example.com"]

[api.pagination]
default_page_size = 10

[logging]
level = "debug"
format = "json"

[storage]
provider = "filesystem"
directory = "output"

[policies]
source = "memory"

[estimator]
seed = 42

[notify]
webhook_url = "https://hooks.example.com/services/T000"
timeout = "5s"
default_recipient = "customer@example.com"
`

const overlayConfig = `
[server]
port = 9090

[storage]
provider = "minio"
endpoint = "minio:9000"
access_key = "minio"
secret_key = "minio123"

[notify.smtp]
host = "smtp.example.com"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("server port: got %d, want 8000", cfg.Server.Port)
	}
	if cfg.API.MaxUploadSizeBytes() != 5<<20 {
		t.Errorf("max upload: got %d, want %d", cfg.API.MaxUploadSizeBytes(), 5<<20)
	}
	if got, want := cfg.API.DocumentURL("abc"), "http://claims.example.com/api/claims/abc/document"; got != want {
		t.Errorf("document url: got %s, want %s", got, want)
	}
	if cfg.API.Pagination.DefaultPageSize != 10 || cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination: got %+v, want default 10 max 100", cfg.API.Pagination)
	}
	if !cfg.API.CORS.Enabled {
		t.Error("cors enabled: got false, want true")
	}
	if cfg.Logging.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level: got %v, want debug", cfg.Logging.SlogLevel())
	}
	if cfg.Estimator.Seed != 42 {
		t.Errorf("estimator seed: got %d, want 42", cfg.Estimator.Seed)
	}
	if cfg.Notify.TimeoutDuration() != 5*time.Second {
		t.Errorf("notify timeout: got %v, want 5s", cfg.Notify.TimeoutDuration())
	}
	if cfg.Notify.SMTP.Port != 587 {
		t.Errorf("smtp port default: got %d, want 587", cfg.Notify.SMTP.Port)
	}
	if cfg.Policies.UsesDatabase() {
		t.Error("policies: memory source should not use database")
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv(config.EnvClaimFlowEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "staging" {
		t.Errorf("env: got %s, want staging", cfg.Env())
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (overlay)", cfg.Server.Port)
	}
	if cfg.Storage.Provider != storage.ProviderMinio {
		t.Errorf("storage provider: got %s, want minio (overlay)", cfg.Storage.Provider)
	}
	if cfg.Notify.SMTP.Host != "smtp.example.com" {
		t.Errorf("smtp host: got %s (overlay)", cfg.Notify.SMTP.Host)
	}
	if cfg.Notify.WebhookURL != "https://hooks.example.com/services/T000" {
		t.Errorf("webhook url: got %s (base)", cfg.Notify.WebhookURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("CLAIMFLOW_VERSION", "2.0.0")
	t.Setenv("CLAIMFLOW_SERVER_PORT", "3000")
	t.Setenv("CLAIMFLOW_POLICIES_SOURCE", "postgres")
	t.Setenv("CLAIMFLOW_ESTIMATOR_SEED", "7")
	t.Setenv("CLAIMFLOW_LOG_LEVEL", "WARN")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if !cfg.Policies.UsesDatabase() {
		t.Error("policies: expected postgres source")
	}
	if cfg.Estimator.Seed != 7 {
		t.Errorf("seed: got %d, want 7", cfg.Estimator.Seed)
	}
	if cfg.Logging.SlogLevel() != slog.LevelWarn {
		t.Errorf("log level: got %v, want warn", cfg.Logging.SlogLevel())
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("server port default: got %d, want 8000", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("base path default: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.Storage.Provider != storage.ProviderFilesystem {
		t.Errorf("storage provider default: got %s", cfg.Storage.Provider)
	}
	if cfg.Logging.Format != config.LogFormatText {
		t.Errorf("log format default: got %s", cfg.Logging.Format)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout default: got %v", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad shutdown timeout", `shutdown_timeout = "later"`, "shutdown_timeout"},
		{"bad port", "[server]\nport = 70000", "server"},
		{"bad upload size", "[api]\nmax_upload_size = \"lots\"", "api"},
		{"bad page size", "[api.pagination]\ndefault_page_size = 500", "pagination"},
		{"bad log format", "[logging]\nformat = \"xml\"", "logging"},
		{"bad policy source", "[policies]\nsource = \"redis\"", "policies"},
		{"bad webhook url", "[notify]\nwebhook_url = \"ftp://hooks\"", "notify"},
		{"bad recipient", "[notify]\ndefault_recipient = \"not-an-address\"", "notify"},
		{"azure without connection", "[storage]\nprovider = \"azure\"", "storage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.content)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", "[server\nport = ")
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadShippedConfig(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	t.Setenv(config.EnvClaimFlowEnv, "")
	t.Setenv("CLAIMFLOW_STORAGE_PROVIDER", "")
	t.Setenv("CLAIMFLOW_STORAGE_DIRECTORY", "")
	chdir(t, root)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load shipped config: %v", err)
	}

	if cfg.Storage.Provider != storage.ProviderFilesystem {
		t.Errorf("storage provider: got %q, want filesystem", cfg.Storage.Provider)
	}
	if got, want := filepath.Join(cfg.Storage.Directory, "offers"), filepath.Join("data", "offers"); got != want {
		t.Errorf("offer letter directory: got %s, want %s", got, want)
	}
}
