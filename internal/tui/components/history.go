package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/tui/styles"
)

// HistoryEntry is a track heard during this run.
type HistoryEntry struct {
	Track    *core.Track
	Playlist string
	PlayedAt time.Time
	Skipped  bool
}

// History displays recently played tracks
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Render renders the history panel, newest first.
func (h *History) Render(entries []HistoryEntry, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4, time.Now())
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (h *History) renderHistory(entries []HistoryEntry, width, maxLines int, now time.Time) string {
	lines := make([]string, 0, maxLines)

	for _, entry := range entries {
		if len(lines) >= maxLines {
			break
		}
		if entry.Track == nil {
			continue
		}

		icon := "✓"
		if entry.Skipped {
			icon = "⏭"
		}

		ago := formatTimeAgo(now.Sub(entry.PlayedAt))
		label := truncate(entry.Track.Title(), width-runewidth.StringWidth(ago)-3)
		padding := max(width-2-runewidth.StringWidth(label)-runewidth.StringWidth(ago), 1)

		lines = append(lines, fmt.Sprintf("%s %s%*s%s",
			styles.Dim.Render(icon),
			label,
			padding, "",
			styles.Dim.Render(ago)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatTimeAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
