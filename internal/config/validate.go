package config

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	crateerrors "github.com/tessro/crate/internal/errors"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Library.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("library: %w", err))
	}
	if err := c.Playback.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playback: %w", err))
	}
	if err := c.Play.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("play: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", crateerrors.ErrInvalidConfig, errors.Join(errs...))
}

// Validate checks LibraryConfig for errors.
func (c *LibraryConfig) Validate() error {
	if c.DefaultPlaylist != "" && strings.TrimSpace(c.DefaultPlaylist) == "" {
		return errors.New("default_playlist must not be blank")
	}
	return nil
}

// Validate checks PlaybackConfig for errors.
func (c *PlaybackConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	if c.PollInterval < 0 {
		return errors.New("poll_interval must be non-negative")
	}
	return nil
}

// Validate checks PlayConfig for errors.
func (c *PlayConfig) Validate() error {
	if c.Format != "" {
		if _, err := template.New("format").Parse(c.Format); err != nil {
			return fmt.Errorf("invalid format template: %w", err)
		}
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
