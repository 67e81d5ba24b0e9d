// Package config holds the settings of the entryctl command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/greghart/dbentry/queryp"
	"gopkg.in/yaml.v3"
)

// Config holds the connection and logging settings.
//
// Dialect is derived from Driver when empty. LogFormat is either text or json.
type Config struct {
	Driver    string `yaml:"driver"`
	DSN       string `yaml:"dsn"`
	Dialect   string `yaml:"dialect"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the settings used before any file or flag is applied.
func Default() *Config {
	return &Config{
		Driver:    "sqlite3",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load returns the defaults overlaid with the YAML file at path. Keys missing from the file keep
// their default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config can open a database.
func (c *Config) Validate() error {
	var errs []error
	if c.Driver == "" {
		errs = append(errs, errors.New("driver is required"))
	}
	if c.DSN == "" {
		errs = append(errs, errors.New("dsn is required"))
	}
	if _, err := c.ResolveDialect(); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ResolveDialect returns the configured dialect, or the one of the driver.
func (c *Config) ResolveDialect() (queryp.Dialect, error) {
	if c.Dialect != "" {
		return queryp.DialectFor(c.Dialect)
	}
	return queryp.DialectFor(c.Driver)
}

// Logger returns a logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.LogFormat)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
