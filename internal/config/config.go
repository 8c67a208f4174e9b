// Package config loads the viewer's settings from environment variables.
// Every setting has a default except the data source, and the whole
// configuration is validated once at startup.
package config

import (
	"strconv"
	"time"
)

// Source kinds, in order of precedence.
const (
	SourcePostgres = "postgres"
	SourceHTTP     = "http"
	SourceFile     = "file"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Database DatabaseConfig
	View     ViewConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SourceConfig selects and bounds the dataset source.
type SourceConfig struct {
	// Path is a local CSV file, used when neither URL nor a database is set.
	Path string `env:"SOURCE_PATH" default:"data/fmsca-records.csv"`

	// URL is an http(s) CSV resource.
	URL string `env:"SOURCE_URL"`

	// Timeout bounds one load of the dataset (default: 30s)
	Timeout time.Duration `env:"SOURCE_TIMEOUT" default:"30s"`

	// RefreshInterval reloads the dataset in the background; 0 disables it.
	RefreshInterval time.Duration `env:"SOURCE_REFRESH_INTERVAL" default:"0s"`

	// MaxBytes caps the CSV size (default: 100MB)
	MaxBytes int64 `env:"SOURCE_MAX_BYTES" default:"104857600"`
}

// DatabaseConfig holds the Postgres source settings. The source is active
// when URL is set.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	URL string `env:"SOURCE_DATABASE_URL" envAlt:"DATABASE_URL"`

	// Table holds one carrier per row, optionally schema-qualified.
	Table string `env:"SOURCE_TABLE" default:"fmcsa_records"`

	// OrderBy names the column that defines input order.
	OrderBy string `env:"SOURCE_ORDER_BY" default:"id"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ViewConfig holds presentation settings.
type ViewConfig struct {
	// PageSize is the initial rows-per-page (default: 50)
	PageSize int `env:"VIEW_PAGE_SIZE" default:"50"`

	// LayoutFile replaces the built-in column and section layout.
	LayoutFile string `env:"VIEW_LAYOUT_FILE"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File redirects logs to a file. The terminal viewer discards logs
	// when it is empty.
	File string `env:"LOG_FILE" envAlt:"VIEWER_LOG_FILE"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// SourceKind reports which source the configuration selects: a database URL
// wins over an HTTP URL, which wins over the file path.
func (c *Config) SourceKind() string {
	switch {
	case c.Database.URL != "":
		return SourcePostgres
	case c.Source.URL != "":
		return SourceHTTP
	default:
		return SourceFile
	}
}
