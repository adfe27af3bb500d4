package cli

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/audio"
	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/tui"
	"github.com/tessro/crate/internal/watch"
)

var (
	tuiRefresh int
	tuiTheme   string
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live view with:
  • Now Playing - current track, play order, volume
  • Tracks - the selected playlist in play order
  • Playlists - every playlist in the library
  • History - tracks heard this session

The library is saved after every change and again when you quit.

Keyboard shortcuts:
  q, Ctrl+C    Save and quit
  ?            Help
  Space        Play/Pause
  n / p        Next / previous track
  z            Toggle shuffle
  a            Add files
  N            New playlist
  +/-          Volume up/down
  Tab          Switch panel`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "refresh interval in milliseconds (default: tui.refresh_interval)")
	tuiCmd.Flags().StringVar(&tuiTheme, "theme", "", "color theme: auto, dark, or light (default: tui.theme)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openSession(audio.New())
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close player")
		}
	}()

	refresh := lo.Ternary(tuiRefresh > 0, tuiRefresh, cfg.TUI.RefreshInterval)
	opts := tui.Options{
		Refresh: time.Duration(refresh) * time.Millisecond,
		Theme:   lo.Ternary(tuiTheme != "", tuiTheme, cfg.TUI.Theme),
	}

	if fw, err := watch.NewFileWatcher(); err != nil {
		log.Warn().Err(err).Msg("File watching unavailable")
	} else {
		defer fw.Close()
		for _, p := range s.Library().Playlists() {
			paths := lo.Map(p.Canonical(), func(t *core.Track, _ int) string { return t.Path() })
			if err := fw.Add(paths...); err != nil {
				log.Warn().Err(err).Str("playlist", p.Name()).Msg("Failed to watch tracks")
			}
		}
		opts.Files = fw
	}

	runErr := tui.Run(cmd.Context(), s, opts)
	if err := s.Save(); err != nil {
		if runErr != nil {
			log.Error().Err(err).Msg("Failed to save playlists")
			return runErr
		}
		return err
	}
	return runErr
}
