// Package daemon wires the PowerWalk services together and runs the local
// HTTP server. Configuration lives in ~/.powerwalk/config.toml; every field
// has a sensible default so a missing file just means defaults.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// Config is the full daemon configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Game    GameConfig    `toml:"game"`
	Storage StorageConfig `toml:"storage"`
	Metrics MetricsConfig `toml:"metrics"`
	Profile ProfileConfig `toml:"profile"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// GameConfig tunes the economy. Changing it only affects future draws,
// never stored state.
type GameConfig struct {
	DrawCost int `toml:"draw_cost"`
}

// StorageConfig locates the data directory.
type StorageConfig struct {
	Path string `toml:"path"`
}

// MetricsConfig gates the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// ProfileConfig holds the initial character identity.
type ProfileConfig struct {
	Name string `toml:"name"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 7731,
		},
		Game: GameConfig{
			DrawCost: domain.DrawCost,
		},
		Storage: StorageConfig{
			Path: "~/.powerwalk",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Profile: ProfileConfig{
			Name: "PowerKing",
		},
	}
}

// LoadConfig reads config.toml from the given path, layering it over the
// defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() string {
	return filepath.Join(DataDir("~/.powerwalk"), "config.toml")
}

// DataDir expands a leading ~ in the configured storage path. The
// POWERWALK_HOME environment variable overrides everything.
func DataDir(configured string) string {
	if env := os.Getenv("POWERWALK_HOME"); env != "" {
		return env
	}
	if strings.HasPrefix(configured, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(configured, "~"))
		}
	}
	return configured
}

// Addr returns the host:port listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
