package config

import (
	"context"
	"testing"
)

func TestWithPort(t *testing.T) {
	cfg, err := Load(WithPort("9090"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got: %s", cfg.Port)
	}
}

func TestWithPortEmpty(t *testing.T) {
	_, err := Load(WithPort(""))
	if err == nil {
		t.Error("expected error for empty port, got nil")
	}
}

func TestWithEnvironment(t *testing.T) {
	cfg, err := Load(WithEnvironment("production"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got: %s", cfg.Environment)
	}
}

func TestWithDatabase(t *testing.T) {
	tests := []struct {
		name      string
		dbType    string
		url       string
		wantError bool
	}{
		{"memory valid", "memory", "", false},
		{"postgres valid", "postgres", "postgresql://localhost/test", false},
		{"postgres missing url", "postgres", "", true},
		{"invalid type", "mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(WithDatabase(tt.dbType, tt.url))
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if cfg.DatabaseType != tt.dbType {
				t.Errorf("expected database type %s, got: %s", tt.dbType, cfg.DatabaseType)
			}
		})
	}
}

func TestWithFilesystemStorage(t *testing.T) {
	cfg, err := Load(
		WithFilesystemStorage("", "/srv/assets"),
		WithDefaultStorage("fs"),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.DefaultStorageBackend != "fs" {
		t.Errorf("expected default backend fs, got: %s", cfg.DefaultStorageBackend)
	}

	if _, err := Load(WithFilesystemStorage("fs", "")); err == nil {
		t.Error("expected error for empty base dir, got nil")
	}
}

func TestWithDefaultStorageUnknownName(t *testing.T) {
	_, err := Load(WithDefaultStorage("nope"))
	if err == nil {
		t.Error("expected error for unconfigured default backend, got nil")
	}
}

func TestWithS3Storage(t *testing.T) {
	cfg, err := Load(
		WithS3Storage("", "my-bucket", ""),
		WithS3Credentials("", "key", "secret"),
		WithS3Endpoint("", "http://localhost:9000", true),
		WithDefaultStorage("s3"),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for _, backend := range cfg.StorageBackends {
		if backend.Name != "s3" {
			continue
		}
		if backend.Config["bucket"] != "my-bucket" {
			t.Errorf("expected bucket my-bucket, got %v", backend.Config["bucket"])
		}
		if backend.Config["region"] != "us-east-1" {
			t.Errorf("expected default region us-east-1, got %v", backend.Config["region"])
		}
		if backend.Config["access_key_id"] != "key" {
			t.Errorf("expected credentials applied, got %v", backend.Config["access_key_id"])
		}
		if backend.Config["endpoint"] != "http://localhost:9000" {
			t.Errorf("expected endpoint applied, got %v", backend.Config["endpoint"])
		}
		return
	}
	t.Fatal("s3 backend not configured")
}

func TestValidateDuplicateBackendNames(t *testing.T) {
	_, err := Load(func(c *ServerConfig) error {
		c.StorageBackends = append(c.StorageBackends,
			StorageBackendConfig{Name: "dup", Type: "memory", Config: map[string]interface{}{}},
			StorageBackendConfig{Name: "dup", Type: "memory", Config: map[string]interface{}{}},
		)
		return nil
	})
	if err == nil {
		t.Error("expected error for duplicate backend names, got nil")
	}
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	svc, err := cfg.BuildService(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if svc == nil {
		t.Fatal("expected a service")
	}

	count, err := svc.CountFiles(context.Background())
	if err != nil {
		t.Fatalf("count files: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty catalog, got %d files", count)
	}
}
