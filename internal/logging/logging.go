// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tessro/crate/internal/config"
)

// Options adjust Setup for the command being run.
type Options struct {
	// Verbose forces debug level.
	Verbose bool
	// Quiet discards console output. Used while the TUI owns the terminal.
	Quiet bool
	// Console is where logs go when no file is configured. Defaults to stderr.
	Console io.Writer
	NoColor bool
}

// Setup points the global logger at the configured destination. The
// returned function closes the log file, if any.
func Setup(cfg config.LogConfig, opts Options) (func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return f.Close, nil
	}

	if opts.Quiet {
		log.Logger = zerolog.Nop()
		return noop, nil
	}

	out := opts.Console
	if out == nil {
		out = os.Stderr
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: opts.NoColor})
	return noop, nil
}

// ParseLevel maps a config level name to a zerolog level. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	switch s {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

func noop() error { return nil }
