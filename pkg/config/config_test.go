package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.General.DefaultTheme != "dark-default" {
		t.Errorf("DefaultTheme = %q", cfg.General.DefaultTheme)
	}
	if cfg.Storage.Backend != "dir" {
		t.Errorf("Backend = %q, want dir", cfg.Storage.Backend)
	}
	if cfg.Updates.AutoUpdate || cfg.Updates.Authorized {
		t.Error("updates enabled by default")
	}
	if cfg.Updates.Interval.Duration != 6*time.Hour {
		t.Errorf("Interval = %v", cfg.Updates.Interval.Duration)
	}
}

func TestLoadFromReader(t *testing.T) {
	text := `
[general]
log_level = "debug"

[storage]
backend = "http"
base_url = "http://localhost:8087/api"

[catalog]
source = "http"
base_url = "https://themes.example.com"

[updates]
auto_update = true
authorized = true
interval = "30m"
`
	cfg, err := LoadFromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}

	if cfg.Storage.Backend != "http" || cfg.Storage.BaseURL != "http://localhost:8087/api" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Catalog.BaseURL != "https://themes.example.com" {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if !cfg.Updates.AutoUpdate || cfg.Updates.Interval.Duration != 30*time.Minute {
		t.Errorf("updates = %+v", cfg.Updates)
	}
	// Unset fields keep their defaults.
	if cfg.General.DefaultTheme != "dark-default" {
		t.Errorf("DefaultTheme = %q, want default preserved", cfg.General.DefaultTheme)
	}
}

func TestLoadFromReaderRejectsBadDuration(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("[updates]\ninterval = \"soon\"\n")); err == nil {
		t.Error("accepted unparseable duration")
	}
	if _, err := LoadFromReader(strings.NewReader("[updates]\ninterval = \"-5m\"\n")); err == nil {
		t.Error("accepted negative duration")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("THEMEDECK_BACKEND", "http")
	t.Setenv("THEMEDECK_BASE_URL", "http://override:9000/api")
	t.Setenv("THEMEDECK_CATALOG_URL", "https://catalog.example.com")

	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "http" || cfg.Storage.BaseURL != "http://override:9000/api" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Catalog.Source != "http" || cfg.Catalog.BaseURL != "https://catalog.example.com" {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
}
