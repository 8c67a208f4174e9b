package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JonMunkholm/fmcsa/internal/table"
)

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Source
	if c.Source.URL != "" && c.Database.URL != "" {
		errs = append(errs, "SOURCE_URL and SOURCE_DATABASE_URL are mutually exclusive")
	}
	if c.Source.URL != "" {
		u, err := url.Parse(c.Source.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("SOURCE_URL (%q) must be an http or https URL", c.Source.URL))
		}
	}
	if c.SourceKind() == SourceFile && c.Source.Path == "" {
		errs = append(errs, "one of SOURCE_PATH, SOURCE_URL or SOURCE_DATABASE_URL is required")
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, "SOURCE_TIMEOUT must be positive")
	}
	if c.Source.RefreshInterval < 0 {
		errs = append(errs, "SOURCE_REFRESH_INTERVAL must be non-negative")
	}
	if c.Source.MaxBytes <= 0 {
		errs = append(errs, "SOURCE_MAX_BYTES must be positive")
	}

	// Database
	if c.Database.URL != "" {
		if c.Database.Table == "" {
			errs = append(errs, "SOURCE_TABLE is required with SOURCE_DATABASE_URL")
		}
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
		}
	}

	// View
	if !table.IsAllowedPageSize(c.View.PageSize) {
		errs = append(errs, fmt.Sprintf("VIEW_PAGE_SIZE (%d) must be one of %v", c.View.PageSize, table.PageSizes))
	}

	// Logging
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The database URL is masked.
func (c *Config) String() string {
	dbURL := ""
	if c.Database.URL != "" {
		dbURL = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	fmt.Fprintf(&b, "Source: {Kind: %s, Path: %q, URL: %q, Timeout: %s, Refresh: %s}, ",
		c.SourceKind(), c.Source.Path, c.Source.URL, c.Source.Timeout, c.Source.RefreshInterval)
	fmt.Fprintf(&b, "Database: {URL: %s, Table: %q, MaxConns: %d}, ", dbURL, c.Database.Table, c.Database.MaxConns)
	fmt.Fprintf(&b, "View: {PageSize: %d, LayoutFile: %q}, ", c.View.PageSize, c.View.LayoutFile)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
