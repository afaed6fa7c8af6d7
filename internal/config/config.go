// Package config loads gafaws settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds gafaws settings. Command-line flags take precedence over
// everything here.
type Config struct {
	// DatabasePath is the SQLite file holding stored corpora.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CatalogPath optionally overlays the built-in message catalog.
	CatalogPath string `yaml:"catalog_path"`

	// DefaultFormat is json or text.
	DefaultFormat string `yaml:"default_format"`
}

// Home returns the gafaws state directory.
func Home() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gafaws")
}

// DefaultPath returns the config file location: $GAFAWS_CONFIG or
// ~/.gafaws/config.yaml.
func DefaultPath() string {
	if env := os.Getenv("GAFAWS_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(Home(), "config.yaml")
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:  filepath.Join(Home(), "gafaws.db"),
		LogLevel:      "info",
		DefaultFormat: "json",
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GAFAWS_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("GAFAWS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GAFAWS_CATALOG"); v != "" {
		c.CatalogPath = v
	}
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"json": true, "text": true}
)

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q (valid: debug, info, warn, error)", c.LogLevel)
	}
	if !validFormats[c.DefaultFormat] {
		return fmt.Errorf("invalid default_format %q (valid: json, text)", c.DefaultFormat)
	}
	return nil
}
