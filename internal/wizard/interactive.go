// Package wizard holds the interactive prompts used when a command is run
// from a terminal without all of its arguments.
package wizard

import (
	"os"

	"golang.org/x/term"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/playlist"
)

// Interactive decides whether prompts may be shown.
type Interactive struct {
	enabled  bool
	terminal func() bool
}

// NewInteractive creates a handler that prompts when stdout is a terminal.
func NewInteractive(enabled bool) *Interactive {
	return &Interactive{
		enabled:  enabled,
		terminal: IsTerminal,
	}
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && i.terminal()
}

// PromptTrack lets the user pick a track from p. It returns nil, without
// error, when prompting is unavailable or the user cancels.
func (i *Interactive) PromptTrack(title string, p *playlist.Playlist) (*core.Track, error) {
	if !i.CanInteract() || p == nil || p.IsEmpty() {
		return nil, nil
	}
	return RunFinder(title+" · "+p.Name(), p.Tracks(), p.Current())
}

// NeedsTrack returns true if a track argument is required but missing.
func NeedsTrack(args []string) bool {
	return len(args) == 0
}
