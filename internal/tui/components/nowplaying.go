package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/tui/styles"
	"github.com/tessro/crate/internal/watch"
)

// NowPlaying displays the currently playing track
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(state core.PlaybackState, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if !state.HasTrack() {
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.Muted.Render("Nothing playing"),
			"",
			n.renderFooter(state, width-4),
		)
	} else {
		content = n.renderTrack(state, width-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (n *NowPlaying) renderTrack(state core.PlaybackState, width int) string {
	track := state.Track

	icon := styles.StatusIcon(state.IsPlaying(), state.Status == core.StatusPaused)
	heading := styles.Title.Render(truncate(track.Title(), width-4))

	lines := []string{icon + " " + heading}
	if track.Artist() != "" {
		lines = append(lines, "  "+styles.Subtitle.Render(truncate(track.Artist(), width-2)))
	}
	if track.Album() != "" {
		lines = append(lines, "  "+styles.Dim.Render(truncate(track.Album(), width-2)))
	}
	lines = append(lines,
		"  "+styles.Dim.Render(watch.FormatDuration(track.Duration())),
		"",
		n.renderFooter(state, width),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderFooter shows the playlist, its order, and the volume meter.
func (n *NowPlaying) renderFooter(state core.PlaybackState, width int) string {
	playlist := styles.Muted.Render("no playlist")
	if state.Playlist != "" {
		playlist = styles.Muted.Render(truncate(state.Playlist, width/2)) + "  " + styles.ModeIcon(state.Shuffled)
	}

	meterWidth := max(width-12, 10)
	volume := fmt.Sprintf("🔊 %s %3d%%", styles.Bar(float64(state.VolumePercent()), meterWidth), state.VolumePercent())

	return lipgloss.JoinVertical(lipgloss.Left, playlist, volume)
}
