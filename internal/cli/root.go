package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/audio"
	"github.com/tessro/crate/internal/config"
	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/logging"
	"github.com/tessro/crate/internal/probe"
	"github.com/tessro/crate/internal/session"
	"github.com/tessro/crate/internal/store"
)

var (
	cfgFile      string
	jsonOut      bool
	verbose      bool
	playlistName string

	cfg      *config.Config
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "crate",
	Short: "Play local music from named playlists",
	Long: `Crate keeps named playlists of local audio files and plays them in order
or shuffled, from the command line or an interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return initLogging(cmd.Name() == "ui")
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.craterc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&playlistName, "playlist", "p", "", "playlist to act on (default: library.default_playlist or the first one)")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	return nil
}

func initLogging(quiet bool) error {
	level := cfg.Log
	if !verbose && level.File == "" && level.Level == "info" {
		// Keep one-shot commands quiet on the terminal unless asked.
		level.Level = "warn"
	}
	closer, err := logging.Setup(level, logging.Options{Verbose: verbose, Quiet: quiet})
	if err != nil {
		return err
	}
	closeLog = closer
	return nil
}

// openSession loads the library from the configured store and selects the
// playlist named by --playlist or the config.
func openSession(player core.Player) (*session.Session, error) {
	st, err := store.New(cfg.StorePath())
	if err != nil {
		return nil, err
	}

	s := session.New(st, player,
		session.WithProber(probe.New()),
		session.WithShuffleDefault(cfg.Playback.Shuffle),
		session.WithVolume(cfg.Volume()),
	)
	if err := s.Load(); err != nil {
		if !errors.Is(err, errors.ErrStoreCorrupt) {
			return nil, err
		}
		fmt.Fprintln(os.Stderr, errors.Format(err))
	}

	name := playlistName
	if name == "" {
		name = cfg.Library.DefaultPlaylist
	}
	if name != "" {
		if err := s.SelectPlaylist(name); err != nil {
			if playlistName != "" {
				return nil, err
			}
			log.Warn().Str("playlist", name).Msg("Default playlist not found")
		}
	}
	return s, nil
}

// openLibrary opens a session for commands that never play audio.
func openLibrary() (*session.Session, error) {
	return openSession(audio.New())
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
