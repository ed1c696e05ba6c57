// Package config loads the comparator configuration file.
//
// The file is YAML. Environment variables are expanded before decoding
// (`auth_token: ${COMPARATOR_TOKEN}`), and decoding is strict so a typo in a
// key is an error instead of a silently ignored setting.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/nico916/football-comparator/pkg/engine"
	"github.com/nico916/football-comparator/pkg/pca"
	"github.com/nico916/football-comparator/pkg/roster"
)

// Config is the top-level configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Model   ModelConfig   `yaml:"model"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`             // ":9091"
	AuthToken       string        `yaml:"auth_token"`       // empty disables auth
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // 5s
}

// DatasetConfig describes where the season table lives and how it is laid out.
type DatasetConfig struct {
	Path           string   `yaml:"path"`
	Delimiter      string   `yaml:"delimiter"` // single character, ";" by default
	IDColumn       string   `yaml:"id_column"`
	PositionColumn string   `yaml:"position_column"`
	Attributes     []string `yaml:"attributes"` // empty: auto-detect numeric columns
}

// ModelConfig tunes the PCA and the query layer.
type ModelConfig struct {
	MaxAttributes int `yaml:"max_attributes"`
	NeighborCount int `yaml:"neighbor_count"`
	CacheSize     int `yaml:"cache_size"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns a working configuration for a local CSV export.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":9091",
			ShutdownTimeout: 5 * time.Second,
		},
		Dataset: DatasetConfig{
			Path:           "player_stats_processed.csv",
			Delimiter:      ";",
			IDColumn:       "Player",
			PositionColumn: "Pos",
		},
		Model: ModelConfig{
			MaxAttributes: pca.DefaultMaxAttributes,
			NeighborCount: 5,
			CacheSize:     4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML configuration file at path on top of DefaultConfig.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read configuration file '%s': %w", path, err)
	}

	decoder := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("YAML syntax error in '%s': %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration '%s': %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the YAML types cannot express.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Dataset.Delimiter) > 1 {
		return fmt.Errorf("dataset.delimiter must be a single character, got %q", c.Dataset.Delimiter)
	}
	if c.Model.MaxAttributes < 0 || c.Model.NeighborCount < 0 || c.Model.CacheSize < 0 {
		return fmt.Errorf("model settings must not be negative")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// EngineOptions maps the configuration onto engine.Options.
func (c Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions(c.Dataset.Path)
	delimiter := opts.Load.Delimiter
	if r, _ := utf8.DecodeRuneInString(c.Dataset.Delimiter); r != utf8.RuneError {
		delimiter = r
	}
	opts.Load = roster.LoadOptions{
		Delimiter:      delimiter,
		IDColumn:       c.Dataset.IDColumn,
		PositionColumn: c.Dataset.PositionColumn,
		Attributes:     c.Dataset.Attributes,
	}
	if c.Model.MaxAttributes > 0 {
		opts.Model.MaxAttributes = c.Model.MaxAttributes
	}
	if c.Model.NeighborCount > 0 {
		opts.NeighborCount = c.Model.NeighborCount
	}
	if c.Model.CacheSize > 0 {
		opts.CacheSize = c.Model.CacheSize
	}
	return opts
}

// NewLogger builds the slog logger described by the log section.
func (c LogConfig) NewLogger() *slog.Logger {
	level, _ := parseLevel(c.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
