// Package config provides TOML-based configuration for themedeck.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the full themedeck configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Storage StorageConfig `toml:"storage"`
	Catalog CatalogConfig `toml:"catalog"`
	Updates UpdatesConfig `toml:"updates"`
}

// GeneralConfig holds top-level behavior settings.
type GeneralConfig struct {
	// Theme applied when no activation state has been persisted yet.
	DefaultTheme string `toml:"default_theme"`
	LogLevel     string `toml:"log_level"`
	// StateDir holds the activation state file.
	StateDir string `toml:"state_dir"`
}

// StorageConfig selects and configures the theme storage backend.
type StorageConfig struct {
	// Backend is "http" or "dir".
	Backend string `toml:"backend"`
	// BaseURL of the HTTP backend, e.g. "http://localhost:8087/api".
	BaseURL string `toml:"base_url"`
	// Dir used by the directory backend.
	Dir string `toml:"dir"`
	// Watch reloads the registry when the directory backend changes on disk.
	Watch bool `toml:"watch"`
}

// CatalogConfig points at the remote community theme catalog.
type CatalogConfig struct {
	// Source is "http", "dir" or "" to disable catalog features.
	Source  string `toml:"source"`
	BaseURL string `toml:"base_url"`
	Dir     string `toml:"dir"`
}

// UpdatesConfig controls unattended catalog reconciliation.
type UpdatesConfig struct {
	AutoUpdate bool `toml:"auto_update"`
	// Authorized marks this instance as allowed to write to the backend.
	Authorized bool     `toml:"authorized"`
	Interval   Duration `toml:"interval"`
}

// DefaultConfig returns the default configuration with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		General: GeneralConfig{
			DefaultTheme: "dark-default",
			LogLevel:     "info",
			StateDir:     filepath.Join(xdgStateHome(home), "themedeck"),
		},
		Storage: StorageConfig{
			Backend: "dir",
			Dir:     filepath.Join(xdgDataHome(home), "themedeck", "themes"),
			Watch:   true,
		},
		Catalog: CatalogConfig{
			Source: "",
		},
		Updates: UpdatesConfig{
			AutoUpdate: false,
			Authorized: false,
			Interval:   Duration{6 * time.Hour},
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("THEMEDECK_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("THEMEDECK_BASE_URL"); v != "" {
		cfg.Storage.BaseURL = v
	}
	if v := os.Getenv("THEMEDECK_THEME_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("THEMEDECK_CATALOG_URL"); v != "" {
		cfg.Catalog.Source = "http"
		cfg.Catalog.BaseURL = v
	}
	if v := os.Getenv("THEMEDECK_STATE_DIR"); v != "" {
		cfg.General.StateDir = v
	}
	if v := os.Getenv("THEMEDECK_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
}

// xdgDataHome returns XDG_DATA_HOME or ~/.local/share as fallback.
func xdgDataHome(home string) string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".local", "share")
}

// xdgStateHome returns XDG_STATE_HOME or ~/.local/state as fallback.
func xdgStateHome(home string) string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".local", "state")
}
