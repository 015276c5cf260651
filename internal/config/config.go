// Package config holds the viewer configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// MarkdownExtensions are the file suffixes treated as Markdown.
	MarkdownExtensions []string `yaml:"markdown_extensions"`

	// RequestTimeout bounds every remote fetch.
	RequestTimeout string `yaml:"request_timeout,omitempty"`

	// MaxRedirects bounds redirect following on remote fetches.
	MaxRedirects int `yaml:"max_redirects,omitempty"`

	// UserAgent is sent with every remote fetch.
	UserAgent string `yaml:"user_agent,omitempty"`

	// Bullets overrides the glyphs cycled through for nested
	// unordered list items.
	Bullets []string `yaml:"bullets,omitempty"`

	// HistoryLimit caps the persisted visit history.
	HistoryLimit int `yaml:"history_limit,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MarkdownExtensions: []string{".md", ".markdown", ".mdown", ".mkd"},
		RequestTimeout:     "10s",
		MaxRedirects:       10,
		UserAgent:          "docview/1.0",
		HistoryLimit:       256,
	}
}

// Timeout parses RequestTimeout, falling back to 10 seconds.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Load reads the configuration file at path; a missing file yields the
// defaults. Unset fields are filled in from the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.MarkdownExtensions) == 0 {
		cfg.MarkdownExtensions = Default().MarkdownExtensions
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = Default().HistoryLimit
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// DataDir returns the directory holding bookmarks, history, and the
// configuration file.
func DataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(base, "docview"), nil
}
