package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/csvclean/internal/core"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom is Load with an explicit variable lookup, for tests and for
// callers that merge several sources.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value, lookup LookupFunc) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal, lookup); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value, _ := lookup(envName)
		if value == "" && envAlt != "" {
			value, _ = lookup(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// splitList splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Source validation
	if utf8.RuneCountInString(c.Source.Delimiter) != 1 {
		errs = append(errs, fmt.Sprintf("SOURCE_DELIMITER (%q) must be a single character", c.Source.Delimiter))
	}
	if c.Source.MaxFileSize <= 0 {
		errs = append(errs, "SOURCE_MAX_FILE_SIZE must be positive")
	}
	if _, err := c.Source.Kinds(); err != nil {
		errs = append(errs, fmt.Sprintf("SOURCE_COLUMN_KINDS: %v", err))
	}

	// Sink validation
	switch strings.ToLower(c.Sink.Kind) {
	case SinkCSV:
		if utf8.RuneCountInString(c.Sink.Delimiter) != 1 {
			errs = append(errs, fmt.Sprintf("SINK_DELIMITER (%q) must be a single character", c.Sink.Delimiter))
		}
	case SinkPostgres:
		if c.Database.URL == "" {
			errs = append(errs, "DATABASE_URL is required when SINK_KIND is postgres")
		}
		if c.Database.ConnectTimeout <= 0 {
			errs = append(errs, "DB_CONNECT_TIMEOUT must be positive")
		}
	default:
		errs = append(errs, fmt.Sprintf("SINK_KIND (%q) must be one of: csv, postgres", c.Sink.Kind))
	}

	// Logging validation
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

// Kinds parses ColumnKinds into declared column kinds.
func (s SourceConfig) Kinds() (map[string]core.ColumnKind, error) {
	if len(s.ColumnKinds) == 0 {
		return nil, nil
	}

	kinds := make(map[string]core.ColumnKind, len(s.ColumnKinds))
	for _, entry := range s.ColumnKinds {
		name, kind, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("entry %q must look like column:kind", entry)
		}
		switch strings.ToLower(strings.TrimSpace(kind)) {
		case "numeric":
			kinds[name] = core.KindNumeric
		case "categorical":
			kinds[name] = core.KindCategorical
		default:
			return nil, fmt.Errorf("entry %q: kind must be numeric or categorical", entry)
		}
	}
	return kinds, nil
}

// DelimiterRune returns the source delimiter as a rune. Call after Validate.
func (s SourceConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	return r
}

// DelimiterRune returns the sink delimiter as a rune. Call after Validate.
func (s SinkConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	return r
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Run: {InputPath: %q, OutputPath: %q}, ", c.Run.InputPath, c.Run.OutputPath))
	b.WriteString(fmt.Sprintf("Source: {Delimiter: %q, MaxFileSize: %d, MissingMarkers: %q, ColumnKinds: %q}, ",
		c.Source.Delimiter, c.Source.MaxFileSize, c.Source.MissingMarkers, c.Source.ColumnKinds))
	b.WriteString(fmt.Sprintf("Sink: {Kind: %q, Delimiter: %q, BOM: %v}, ", c.Sink.Kind, c.Sink.Delimiter, c.Sink.BOM))
	dbURL := ""
	if c.Database.URL != "" {
		dbURL = "[MASKED]"
	}
	b.WriteString(fmt.Sprintf("Database: {URL: %s, ConnectTimeout: %s}, ", dbURL, c.Database.ConnectTimeout))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
