// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/morganforge/dataguard/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete dataguard configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Feed  FeedConfig  `toml:"feed" json:"feed"`
	Scan  ScanConfig  `toml:"scan" json:"scan"`
	UI    UIConfig    `toml:"ui" json:"ui"`
	Audit AuditConfig `toml:"audit" json:"audit"`
	Log   LogConfig   `toml:"log" json:"log"`
}

// FeedConfig selects the detection sources.
type FeedConfig struct {
	// Sources are feed specs: "demo", a .json/.yaml path, or "sqlite:path"
	Sources []string `toml:"sources" json:"sources"`
	// Watch warns when a file-backed source changes during a session
	Watch bool `toml:"watch" json:"watch"`
}

// ScanConfig tunes the scan progress simulator.
type ScanConfig struct {
	// IntervalMS is the tick interval in milliseconds
	IntervalMS int `toml:"interval_ms" json:"interval_ms"`
	// MaxIncrement is the upper bound of one progress step, in percent
	MaxIncrement float64 `toml:"max_increment" json:"max_increment"`
	// HistorySize is how many past runs the Scans view keeps
	HistorySize int `toml:"history_size" json:"history_size"`
}

// Interval returns IntervalMS as a duration.
func (s ScanConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMS) * time.Millisecond
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// Compact removes the spacing between detection cards
	Compact bool `toml:"compact" json:"compact"`
	// ShowHelp shows the key help footer
	ShowHelp bool `toml:"show_help" json:"show_help"`
}

// AuditConfig controls the outcome journal.
type AuditConfig struct {
	Enabled   bool   `toml:"enabled" json:"enabled"`
	Path      string `toml:"path" json:"path"`
	MaxSizeMB int    `toml:"max_size_mb" json:"max_size_mb"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" json:"level"`
	// Path is the log file used while the dashboard owns the terminal
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Feed: FeedConfig{
			Sources: []string{"demo"},
			Watch:   true,
		},

		Scan: ScanConfig{
			IntervalMS:   500,
			MaxIncrement: 15,
			HistorySize:  20,
		},

		UI: UIConfig{
			Theme:    "dark",
			Compact:  false,
			ShowHelp: true,
		},

		Audit: AuditConfig{
			Enabled:   true,
			Path:      "", // resolved to ~/.dataguard/audit.log
			MaxSizeMB: 10,
		},

		Log: LogConfig{
			Level: "info",
			Path:  "", // resolved to ~/.dataguard/dataguard.log
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the dataguard configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".dataguard"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// AuditPath returns the configured journal path or the default one.
func (c *Config) AuditPath() string {
	if c.Audit.Path != "" {
		return c.Audit.Path
	}
	dir, err := ConfigDir()
	if err != nil {
		return "audit.log"
	}
	return filepath.Join(dir, "audit.log")
}

// LogPath returns the configured log path or the default one.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	dir, err := ConfigDir()
	if err != nil {
		return "dataguard.log"
	}
	return filepath.Join(dir, "dataguard.log")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// A .env file in the working directory is read first, then TOML, then JSON,
// falling back to defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			} else {
				return finish(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
				cfg = Default()
			} else {
				return finish(cfg)
			}
		}
	}

	cfg, err = finish(cfg)
	if err != nil {
		return nil, err
	}
	// Defaults, with any load error for informational purposes
	return cfg, loadErr
}

// finish applies env overrides, migration, defaults, and validation.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
// Keys missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// ReadFile decodes path over the defaults without environment overrides or
// validation. It is the starting point for edits that are saved back to
// path. A missing file yields the defaults.
func ReadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	var err error
	if strings.HasSuffix(path, ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
	}
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# dataguard configuration file\n")
	buf.WriteString("# Generated by dataguard - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = map[string]bool{"dark": true, "light": true, "auto": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	for i, src := range c.Feed.Sources {
		if strings.TrimSpace(src) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("feed.sources[%d]", i),
				Message: "empty source",
			})
		}
	}

	if c.Scan.IntervalMS < 50 || c.Scan.IntervalMS > 60000 {
		errs = append(errs, ValidationError{
			Field:   "scan.interval_ms",
			Message: fmt.Sprintf("%d out of range, must be between 50 and 60000", c.Scan.IntervalMS),
		})
	}
	if c.Scan.MaxIncrement <= 0 || c.Scan.MaxIncrement > 100 {
		errs = append(errs, ValidationError{
			Field:   "scan.max_increment",
			Message: fmt.Sprintf("%g out of range, must be in (0, 100]", c.Scan.MaxIncrement),
		})
	}
	if c.Scan.HistorySize < 0 {
		errs = append(errs, ValidationError{
			Field:   "scan.history_size",
			Message: "must not be negative",
		})
	}

	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if c.Audit.MaxSizeMB < 0 {
		errs = append(errs, ValidationError{
			Field:   "audit.max_size_mb",
			Message: "must not be negative",
		})
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values that have no meaning as zero.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if len(c.Feed.Sources) == 0 {
		c.Feed.Sources = defaults.Feed.Sources
	}
	if c.Scan.IntervalMS == 0 {
		c.Scan.IntervalMS = defaults.Scan.IntervalMS
	}
	if c.Scan.MaxIncrement == 0 {
		c.Scan.MaxIncrement = defaults.Scan.MaxIncrement
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// Migrate handles migration from old configuration formats to new ones.
func (c *Config) Migrate() error {
	// "system" was the original name for "auto"
	if strings.EqualFold(c.UI.Theme, "system") {
		c.UI.Theme = "auto"
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)

	if strings.EqualFold(c.Log.Level, "warning") {
		c.Log.Level = "warn"
	}
	c.Log.Level = strings.ToLower(c.Log.Level)

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DATAGUARD_FEED: comma-separated feed specs, replaces feed.sources
//   - DATAGUARD_THEME: overrides ui.theme
//   - DATAGUARD_SCAN_INTERVAL_MS: overrides scan.interval_ms
//   - DATAGUARD_AUDIT: "0"/"false" disables the journal, "1"/"true" enables it
//   - DATAGUARD_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if feed := os.Getenv("DATAGUARD_FEED"); feed != "" {
		var sources []string
		for _, s := range strings.Split(feed, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		c.Feed.Sources = sources
	}

	if theme := os.Getenv("DATAGUARD_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if interval := os.Getenv("DATAGUARD_SCAN_INTERVAL_MS"); interval != "" {
		if ms, err := strconv.Atoi(interval); err == nil {
			c.Scan.IntervalMS = ms
		}
	}

	if audit := os.Getenv("DATAGUARD_AUDIT"); audit != "" {
		c.Audit.Enabled = audit == "1" || strings.ToLower(audit) == "true"
	}

	if level := os.Getenv("DATAGUARD_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "scan.interval_ms").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, s := range strings.Split(strVal, ",") {
					if s = strings.TrimSpace(s); s != "" {
						items = append(items, s)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"feed.sources",
		"feed.watch",
		"scan.interval_ms",
		"scan.max_increment",
		"scan.history_size",
		"ui.theme",
		"ui.compact",
		"ui.show_help",
		"audit.enabled",
		"audit.path",
		"audit.max_size_mb",
		"log.level",
		"log.path",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Feed.Sources != nil {
		clone.Feed.Sources = append([]string(nil), c.Feed.Sources...)
	}
	return &clone
}

// String returns an indented JSON rendering for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
