// Package config loads railboard configuration from a TOML file with
// environment-variable fallbacks.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nyctransit/railboard/internal/cache"
)

// Config holds all configuration for the railboard client.
type Config struct {
	// BaseURL is where the backend API lives.
	BaseURL string `toml:"base_url"`

	// DatabasePath is the SQLite file holding favorites and cached
	// station snapshots.
	DatabasePath string `toml:"database_path"`

	// CacheTTL is how long a cached station list stays fresh.
	CacheTTL duration `toml:"cache_ttl"`
}

// TTL returns the configured cache TTL as a time.Duration.
func (c Config) TTL() time.Duration {
	return c.CacheTTL.Duration
}

// duration lets TOML carry values like "168h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:      "https://api.railboard.nyc/v1",
		DatabasePath: defaultDatabasePath(),
		CacheTTL:     duration{cache.DefaultTTL},
	}
}

// Load reads the config file at path, layered over the defaults. A
// missing file is not an error: defaults apply. The RAILBOARD_API_URL
// and RAILBOARD_DB environment variables override either source.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("RAILBOARD_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("RAILBOARD_DB"); v != "" {
		cfg.DatabasePath = v
	}

	if cfg.CacheTTL.Duration <= 0 {
		cfg.CacheTTL = duration{cache.DefaultTTL}
	}
	return cfg, nil
}

// DefaultPath is where Load looks when the user gives no explicit path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "railboard.toml"
	}
	return filepath.Join(dir, "railboard", "config.toml")
}

func defaultDatabasePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "railboard.db"
	}
	return filepath.Join(dir, "railboard", "railboard.db")
}
