package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tessro/crate/internal/errors"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.craterc, $XDG_CONFIG_HOME/crate/config.toml, ~/.config/crate/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, errors.ErrConfigNotFound)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath is where new config files are written.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".craterc"
	}
	return filepath.Join(home, ".craterc")
}

// Volume returns the default volume as a level from 0.0 to 1.0.
func (c *Config) Volume() float64 {
	return float64(c.Playback.Volume) / 100
}

// PollInterval returns how often playback is checked for a finished track.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Playback.PollInterval) * time.Millisecond
}

// StorePath returns the playlist file location with ~ expanded. Empty
// means the store's default location.
func (c *Config) StorePath() string {
	return expandHome(c.Library.Store)
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".craterc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "crate", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Library
	if v := os.Getenv("CRATE_LIBRARY_STORE"); v != "" {
		cfg.Library.Store = v
	}
	if v := os.Getenv("CRATE_LIBRARY_DEFAULT_PLAYLIST"); v != "" {
		cfg.Library.DefaultPlaylist = v
	}

	// Playback
	if v := os.Getenv("CRATE_PLAYBACK_VOLUME"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Playback.Volume = i
		}
	}
	if v := os.Getenv("CRATE_PLAYBACK_SHUFFLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Playback.Shuffle = b
		}
	}
	if v := os.Getenv("CRATE_PLAYBACK_POLL_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Playback.PollInterval = i
		}
	}

	// TUI
	if v := os.Getenv("CRATE_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("CRATE_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("CRATE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRATE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
