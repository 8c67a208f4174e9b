package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/fmcsa/internal/application"
	"github.com/JonMunkholm/fmcsa/internal/config"
	"github.com/JonMunkholm/fmcsa/internal/logging"
	"github.com/JonMunkholm/fmcsa/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal owns stdout; logs go to LOG_FILE or nowhere.
	closer, err := logging.SetupFile(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer closer.Close()

	app, err := application.Open(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	model := tui.New(app.Service, app.Layout, tui.Options{
		PageSize:    cfg.View.PageSize,
		LoadTimeout: cfg.Source.Timeout,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
