package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvHistoryDB = "QBMERGE_HISTORY_DB"
	EnvNoHistory = "QBMERGE_NO_HISTORY"
	EnvLogFormat = "QBMERGE_LOG_FORMAT"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds settings loaded from qbmerge.yml
type Config struct {
	// HistoryPath is the merge history database. Empty means the default
	// location under the XDG data directory.
	HistoryPath string `yaml:"historyPath,omitempty"`
	// History toggles the merge history; unset means enabled
	History   *bool  `yaml:"history,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty"`
	Verbose   bool   `yaml:"verbose,omitempty"`
}

// Load reads .env, then qbmerge.yml or qbmerge.yaml from dir, then applies
// environment overrides. A missing config file yields defaults, not an
// error.
func Load(dir string) (*Config, error) {
	// .env never overrides variables already set
	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	cfg := &Config{}
	for _, name := range []string{"qbmerge.yml", "qbmerge.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		break
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if env := os.Getenv(EnvHistoryDB); env != "" {
		c.HistoryPath = env
	}
	if env := os.Getenv(EnvNoHistory); env != "" {
		off, err := strconv.ParseBool(env)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNoHistory, err)
		}
		enabled := !off
		c.History = &enabled
	}
	if env := os.Getenv(EnvLogFormat); env != "" {
		c.LogFormat = env
	}
	return nil
}

// Validate normalizes the log format and rejects unknown ones
func (c *Config) Validate() error {
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case "":
		c.LogFormat = LogFormatText
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (want %s or %s)", c.LogFormat, LogFormatText, LogFormatJSON)
	}
	return nil
}

// HistoryEnabled reports whether merges are recorded
func (c *Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// DisableHistory turns the merge history off
func (c *Config) DisableHistory() {
	off := false
	c.History = &off
}

// NewLogger builds the logger for the configured format. The level is Warn,
// or Debug when verbose.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if c.Verbose {
		opts.Level = slog.LevelDebug
	}

	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
