package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/claimflow/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderFilesystem {
		t.Errorf("provider: got %s, want %s", cfg.Provider, storage.ProviderFilesystem)
	}
	if cfg.Directory != "output" {
		t.Errorf("directory: got %s, want output", cfg.Directory)
	}
	if cfg.ContainerName != "offers" {
		t.Errorf("container_name: got %s, want offers", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "minio")
	t.Setenv("TEST_ENDPOINT", "http://localhost:9000")
	t.Setenv("TEST_ACCESS", "access")
	t.Setenv("TEST_SECRET", "secret")
	t.Setenv("TEST_SECURE", "true")

	env := &storage.Env{
		Provider:  "TEST_PROVIDER",
		Endpoint:  "TEST_ENDPOINT",
		AccessKey: "TEST_ACCESS",
		SecretKey: "TEST_SECRET",
		Secure:    "TEST_SECURE",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderMinio {
		t.Errorf("provider: got %s, want minio", cfg.Provider)
	}
	if cfg.Endpoint != "http://localhost:9000" {
		t.Errorf("endpoint: got %s", cfg.Endpoint)
	}
	if !cfg.Secure {
		t.Error("secure: got false, want true")
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
		want string
	}{
		{"azure without connection string", storage.Config{Provider: storage.ProviderAzure}, "connection_string or endpoint required"},
		{"minio without endpoint", storage.Config{Provider: storage.ProviderMinio}, "endpoint required"},
		{"minio without credentials", storage.Config{Provider: storage.ProviderMinio, Endpoint: "localhost:9000"}, "access_key and secret_key required"},
		{"unknown provider", storage.Config{Provider: "s3"}, "unknown provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want containing %q", err, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{Provider: storage.ProviderFilesystem, Directory: "output"}
	base.Merge(&storage.Config{Provider: storage.ProviderAzure, ConnectionString: "conn"})

	if base.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want azure", base.Provider)
	}
	if base.Directory != "output" {
		t.Errorf("directory: got %s, want output", base.Directory)
	}
	if base.ConnectionString != "conn" {
		t.Errorf("connection_string: got %s, want conn", base.ConnectionString)
	}
}
