package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tendant/simple-asset/pkg/simpleasset/api"
	"github.com/tendant/simple-asset/pkg/simpleasset/config"
)

type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	DataDir     string `env:"DATA_DIR" env-default:"./data"`
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverCfg, err := buildServerConfig(cfg)
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := serverCfg.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Mount("/api/v1", api.NewHandler(svc).Routes())

	addr := ":" + serverCfg.Port
	slog.Info("Starting simple-asset server", "addr", addr, "data_dir", cfg.DataDir)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(1)
	}
}

func buildServerConfig(cfg Config) (*config.ServerConfig, error) {
	opts := []config.Option{
		config.WithPort(cfg.Port),
		config.WithEnvironment(cfg.Environment),
		config.WithFilesystemStorage("fs", cfg.DataDir),
		config.WithDefaultStorage("fs"),
	}
	if cfg.DatabaseURL != "" {
		opts = append(opts, config.WithDatabase("postgres", cfg.DatabaseURL))
	}

	return config.Load(opts...)
}
