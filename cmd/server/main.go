package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/fmcsa/internal/application"
	"github.com/JonMunkholm/fmcsa/internal/config"
	"github.com/JonMunkholm/fmcsa/internal/logging"
	"github.com/JonMunkholm/fmcsa/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.File != "" {
		closer, err := logging.SetupFile(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			slog.Error("failed to open log file", "path", cfg.Logging.File, "error", err)
			os.Exit(1)
		}
		defer closer.Close()
	} else {
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", cfg.SourceKind(),
		"page_size", cfg.View.PageSize,
		"refresh_interval", cfg.Source.RefreshInterval.String(),
	)
	slog.Debug("configuration", "config", cfg.String())

	app, err := application.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialise dataset", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := web.NewServer(app.Service, app.Layout, cfg)

	// Cancelled on SIGINT/SIGTERM; stops the refresher and the server.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.Service.StartRefreshScheduler(ctx, cfg.Source.RefreshInterval)

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Run(ctx); err != nil {
		slog.Error("server error", "error", err)
	}
}
