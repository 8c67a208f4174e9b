// Package application assembles the dataset service from configuration.
// Both the web server and the terminal viewer start through it.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/fmcsa/internal/config"
	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/schema"
	"github.com/JonMunkholm/fmcsa/internal/source"
)

// App bundles what a front-end needs: the loaded layout and the service.
type App struct {
	Config  *config.Config
	Layout  *schema.Layout
	Service *core.Service

	pool *pgxpool.Pool
}

// Open loads the layout, connects the configured source and builds the
// service. The dataset itself is loaded lazily on first use.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	layout, err := schema.LoadFile(cfg.View.LayoutFile)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}

	app := &App{Config: cfg, Layout: layout}

	src, err := app.openSource(ctx)
	if err != nil {
		return nil, err
	}

	app.Service = core.NewService(src, core.Options{LoadTimeout: cfg.Source.Timeout})

	slog.Info("dataset source configured",
		"kind", cfg.SourceKind(),
		"source", src.Name(),
		"columns", len(layout.Columns),
	)
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *App) openSource(ctx context.Context) (core.Source, error) {
	cfg := a.Config
	opts := source.ParseOptions{
		Required: a.Layout.RequiredFields(),
		MaxBytes: cfg.Source.MaxBytes,
	}

	switch cfg.SourceKind() {
	case config.SourcePostgres:
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		return source.NewPostgres(pool, cfg.Database.Table, cfg.Database.OrderBy, opts.Required), nil

	case config.SourceHTTP:
		client := &http.Client{Timeout: cfg.Source.Timeout}
		return source.NewHTTP(cfg.Source.URL, client, opts), nil

	default:
		return source.NewFile(cfg.Source.Path, opts), nil
	}
}

func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %w", core.ErrSourceUnavailable, err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
