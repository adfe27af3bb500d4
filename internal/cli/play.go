package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/audio"
	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/session"
	"github.com/tessro/crate/internal/watch"
)

var (
	playShuffle   bool
	playNoEmoji   bool
	playTimestamp bool
	playFormat    string
	playInterval  time.Duration
	playPick      bool
)

var playCmd = &cobra.Command{
	Use:   "play [title]",
	Short: "Play the playlist until interrupted",
	Long: `Play the selected playlist, moving to the next track when each one ends,
and print what happens. Stop with Ctrl+C.

Examples:
  crate play                     # Start at the current track
  crate play "Intro"             # Start at a specific track
  crate play -p "Road Trip" -s   # Shuffle another playlist
  crate play --pick              # Choose the first track interactively
  crate play --format '{{.Time}} {{.Title}}'`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&playShuffle, "shuffle", "s", false, "shuffle for this run; the saved play order is kept")
	playCmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji output")
	playCmd.Flags().BoolVarP(&playTimestamp, "timestamp", "t", false, "show timestamps")
	playCmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom format template")
	playCmd.Flags().DurationVarP(&playInterval, "interval", "i", 0, "end-of-track poll interval (default: playback.poll_interval)")
	playCmd.Flags().BoolVar(&playPick, "pick", false, "choose the starting track with the track finder")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !audio.Available {
		fmt.Fprintln(os.Stderr, "This build has no audio output; tracks will play silently.")
	}

	s, err := openSession(audio.New())
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close player")
		}
	}()

	p, err := selected(s)
	if err != nil {
		return err
	}
	restore := func() error { return nil }
	if playShuffle {
		if restore, err = shuffleForRun(s, p); err != nil {
			return err
		}
	}

	if len(args) > 0 || playPick {
		title, err := titleArg(args, "Play", p)
		if err != nil {
			return err
		}
		if _, err := s.PlayTitle(title); err != nil {
			return err
		}
	} else if err := s.Play(); err != nil {
		return err
	}

	formatter := watch.NewFormatter(
		watch.WithEmoji(!(playNoEmoji || cfg.Play.NoEmoji)),
		watch.WithTimestamp(playTimestamp || cfg.Play.Timestamp),
		watch.WithTemplate(lo.Ternary(playFormat != "", playFormat, cfg.Play.Format)),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	removed := watchFiles(ctx, p.Canonical())

	interval := playInterval
	if interval == 0 {
		interval = cfg.PollInterval()
	}
	autoplay := watch.NewAutoplay(s, interval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- autoplay.Start(ctx)
	}()

	// The session belongs to the autoplay goroutine until it returns.
	events := autoplay.Events()
	for events != nil {
		select {
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			fmt.Println(formatter.Format(event))

		case path, ok := <-removed:
			if !ok {
				removed = nil
				continue
			}
			fmt.Println(formatter.Format(watch.Event{
				Type:      watch.EventFileRemoved,
				Timestamp: time.Now(),
				Path:      path,
			}))
		}
	}

	if err := <-errCh; err != nil && err != context.Canceled {
		return err
	}
	if err := restore(); err != nil {
		return err
	}
	return s.Save()
}

// shuffleForRun puts p in shuffle mode and returns a func that switches it
// back to the mode it had, so a one-off --shuffle is not saved.
func shuffleForRun(s *session.Session, p *playlist.Playlist) (func() error, error) {
	wasShuffled := p.Shuffled()
	if err := s.SetShuffle(true); err != nil {
		return nil, err
	}
	return func() error {
		if wasShuffled {
			return nil
		}
		return s.SetShuffle(false)
	}, nil
}

// watchFiles reports removals of the given tracks' files. A nil channel is
// returned when watching is unavailable.
func watchFiles(ctx context.Context, tracks []*core.Track) <-chan string {
	fw, err := watch.NewFileWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("File watching unavailable")
		return nil
	}
	paths := lo.Map(tracks, func(t *core.Track, _ int) string { return t.Path() })
	if err := fw.Add(paths...); err != nil {
		log.Warn().Err(err).Msg("File watching unavailable")
		_ = fw.Close()
		return nil
	}

	go func() {
		defer fw.Close()
		if err := fw.Start(ctx); err != nil && err != context.Canceled {
			log.Warn().Err(err).Msg("File watcher stopped")
		}
	}()
	return fw.Removed()
}
