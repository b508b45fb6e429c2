package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ghtopdep/ghtopdep/pkg/scrape"
)

// Config holds optional settings loaded from a TOML file. Every field
// has a working default, so a missing config file is not an error.
type Config struct {
	// MaxPages caps how many listing pages a single run will fetch.
	MaxPages int `toml:"max_pages"`

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Cache controls the on-disk response cache.
	Cache CacheConfig `toml:"cache"`

	// Selectors overrides the CSS selectors used to pull data out of
	// the dependents listing. Empty fields keep their defaults, so a
	// config file only needs to name the selectors that changed.
	Selectors scrape.Selectors `toml:"selectors"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	TTLHours int    `toml:"ttl_hours"`
}

// defaultConfig returns the built-in settings.
func defaultConfig() Config {
	return Config{
		MaxPages:       scrape.DefaultMaxPages,
		TimeoutSeconds: 30,
		Cache: CacheConfig{
			TTLHours: 24,
		},
	}
}

// loadConfig reads a TOML config file and merges it over the defaults.
// When explicit is true the path came from the user and must exist;
// otherwise a missing file silently yields the defaults.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if cfg.MaxPages <= 0 {
		cfg.MaxPages = scrape.DefaultMaxPages
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.Cache.TTLHours <= 0 {
		cfg.Cache.TTLHours = 24
	}
	return cfg, nil
}
