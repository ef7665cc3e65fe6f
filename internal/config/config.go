// Package config provides centralized configuration management for csvclean.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Sink kinds accepted by SINK_KIND.
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Run      RunConfig
	Source   SourceConfig
	Sink     SinkConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// RunConfig holds the default locations used when no paths are given on the
// command line.
type RunConfig struct {
	// InputPath is the file to clean (default: data/input.csv)
	InputPath string `env:"CSVCLEAN_INPUT" default:"data/input.csv"`

	// OutputPath is where the cleaned table goes (default: data/cleaned.csv).
	// For the postgres sink this is the destination table name.
	OutputPath string `env:"CSVCLEAN_OUTPUT" default:"data/cleaned.csv"`
}

// SourceConfig holds input parsing settings.
type SourceConfig struct {
	// Delimiter is the field separator, a single character (default: ,)
	Delimiter string `env:"SOURCE_DELIMITER" default:","`

	// MaxFileSize is the maximum accepted input size in bytes (default: 100MB)
	MaxFileSize int64 `env:"SOURCE_MAX_FILE_SIZE" default:"104857600"`

	// MissingMarkers are field values read as Missing, in addition to empty fields
	MissingMarkers []string `env:"SOURCE_MISSING_MARKERS" default:"NA,NaN,null,NULL"`

	// ColumnKinds overrides inferred kinds: "price:numeric,code:categorical"
	ColumnKinds []string `env:"SOURCE_COLUMN_KINDS"`
}

// SinkConfig holds output settings.
type SinkConfig struct {
	// Kind selects the sink: csv or postgres (default: csv)
	Kind string `env:"SINK_KIND" default:"csv"`

	// Delimiter is the field separator for the csv sink (default: ,)
	Delimiter string `env:"SINK_DELIMITER" default:","`

	// BOM prefixes csv output with a UTF-8 byte order mark for Excel (default: false)
	BOM bool `env:"SINK_BOM" default:"false"`
}

// DatabaseConfig holds settings for the postgres sink.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string, required when SINK_KIND=postgres.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// ConnectTimeout bounds connecting and pinging the database (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
