package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-asset/pkg/simpleasset"
	repomemory "github.com/tendant/simple-asset/pkg/simpleasset/repo/memory"
	repopg "github.com/tendant/simple-asset/pkg/simpleasset/repo/postgres"
	fsstorage "github.com/tendant/simple-asset/pkg/simpleasset/storage/fs"
	memorystorage "github.com/tendant/simple-asset/pkg/simpleasset/storage/memory"
	s3storage "github.com/tendant/simple-asset/pkg/simpleasset/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:                  "8080",
		Environment:           "development",
		DatabaseType:          "memory",
		DefaultStorageBackend: "memory",
		StorageBackends: []StorageBackendConfig{
			{
				Name:   "memory",
				Type:   "memory",
				Config: map[string]interface{}{},
			},
		},
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the simple-asset service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	DefaultStorageBackend string
	StorageBackends       []StorageBackendConfig

	// Server options
	EnableEventLogging bool
}

// StorageBackendConfig represents configuration for a storage backend
type StorageBackendConfig struct {
	Name   string
	Type   string // "memory", "fs", "s3"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if len(c.StorageBackends) == 0 {
		return errors.New("at least one storage backend is required")
	}

	names := make(map[string]bool)
	for _, backend := range c.StorageBackends {
		if backend.Name == "" {
			return errors.New("storage backend name is required")
		}
		if names[backend.Name] {
			return fmt.Errorf("duplicate storage backend name: %s", backend.Name)
		}
		names[backend.Name] = true
	}

	if !names[c.DefaultStorageBackend] {
		return fmt.Errorf("default storage backend %q is not configured", c.DefaultStorageBackend)
	}

	return nil
}

// BuildService wires a simpleasset.Service from the configuration: a
// repository (memory or Postgres), the configured blob storage backends, and
// an event sink.
func (c *ServerConfig) BuildService(ctx context.Context) (simpleasset.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	options := []simpleasset.Option{
		simpleasset.WithRepository(repo),
		simpleasset.WithDefaultBackend(c.DefaultStorageBackend),
	}

	for _, backendCfg := range c.StorageBackends {
		backend, err := buildBlobStore(backendCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build storage backend %q: %w", backendCfg.Name, err)
		}
		options = append(options, simpleasset.WithBlobStore(backendCfg.Name, backend))
	}

	if c.EnableEventLogging {
		options = append(options, simpleasset.WithEventSink(simpleasset.NewAuditEventSink(nil)))
	}

	return simpleasset.New(options...)
}

func (c *ServerConfig) buildRepository(ctx context.Context) (simpleasset.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func buildBlobStore(cfg StorageBackendConfig) (simpleasset.BlobStore, error) {
	switch cfg.Type {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		baseDir, _ := cfg.Config["base_dir"].(string)
		return fsstorage.New(fsstorage.Config{BaseDir: baseDir})
	case "s3":
		s3cfg := s3storage.Config{
			Region:          stringValue(cfg.Config, "region"),
			Bucket:          stringValue(cfg.Config, "bucket"),
			AccessKeyID:     stringValue(cfg.Config, "access_key_id"),
			SecretAccessKey: stringValue(cfg.Config, "secret_access_key"),
			Endpoint:        stringValue(cfg.Config, "endpoint"),
		}
		if v, ok := cfg.Config["use_path_style"].(bool); ok {
			s3cfg.UsePathStyle = v
		}
		if v, ok := cfg.Config["create_bucket_if_not_exist"].(bool); ok {
			s3cfg.CreateBucketIfNotExist = v
		}
		return s3storage.New(s3cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", cfg.Type)
	}
}

func stringValue(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}
