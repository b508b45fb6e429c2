package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), false)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.MaxPages != 100 {
		t.Errorf("MaxPages = %d, want 100", cfg.MaxPages)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.Cache.TTLHours != 24 {
		t.Errorf("Cache.TTLHours = %d, want 24", cfg.Cache.TTLHours)
	}
	if cfg.Selectors.Item != "" {
		t.Errorf("Selectors.Item = %q, want empty (defaults applied downstream)", cfg.Selectors.Item)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), true)
	if err == nil {
		t.Fatal("loadConfig() with explicit missing path should error")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
max_pages = 5
timeout_seconds = 7

[cache]
dir = "/tmp/ghtopdep-test"
ttl_hours = 2

[selectors]
repo = "a.custom-bold"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.MaxPages != 5 {
		t.Errorf("MaxPages = %d, want 5", cfg.MaxPages)
	}
	if cfg.TimeoutSeconds != 7 {
		t.Errorf("TimeoutSeconds = %d, want 7", cfg.TimeoutSeconds)
	}
	if cfg.Cache.Dir != "/tmp/ghtopdep-test" {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}
	if cfg.Cache.TTLHours != 2 {
		t.Errorf("Cache.TTLHours = %d, want 2", cfg.Cache.TTLHours)
	}
	if cfg.Selectors.Repo != "a.custom-bold" {
		t.Errorf("Selectors.Repo = %q", cfg.Selectors.Repo)
	}
	if cfg.Selectors.Item != "" {
		t.Errorf("Selectors.Item = %q, want empty", cfg.Selectors.Item)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("max_pages = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := loadConfig(path, true)
	if err == nil || !strings.Contains(err.Error(), "parsing config file") {
		t.Fatalf("loadConfig() error = %v, want parse error", err)
	}
}
