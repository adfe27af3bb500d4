package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/tui/styles"
	"github.com/tessro/crate/internal/watch"
)

// Tracks lists the selected playlist in play order.
type Tracks struct {
	offset   int
	selected int
}

// NewTracks creates a new Tracks component
func NewTracks() *Tracks {
	return &Tracks{}
}

// SelectNext moves the highlight down.
func (t *Tracks) SelectNext() {
	t.selected++
}

// SelectPrev moves the highlight up.
func (t *Tracks) SelectPrev() {
	if t.selected > 0 {
		t.selected--
	}
}

// SelectIndex moves the highlight to i.
func (t *Tracks) SelectIndex(i int) {
	t.selected = max(i, 0)
}

// Selected returns the highlighted track, or nil.
func (t *Tracks) Selected(p *playlist.Playlist) *core.Track {
	if p == nil || p.IsEmpty() {
		return nil
	}
	tracks := p.Tracks()
	return tracks[min(t.selected, len(tracks)-1)]
}

// Render renders the tracks panel. The playlist cursor is marked with ▶
// and the track being heard is drawn in the playing color.
func (t *Tracks) Render(p *playlist.Playlist, playing *core.Track, width, height int, focused bool) string {
	name := "Tracks"
	if p != nil {
		name = p.Name()
	}
	title := styles.PanelTitle(name, focused)

	var content string
	switch {
	case p == nil:
		content = styles.Muted.Render("No playlist selected")
	case p.IsEmpty():
		content = styles.Muted.Render("Playlist is empty (a: add files)")
	default:
		content = t.renderTracks(p, playing, width-4, height-4, focused)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (t *Tracks) renderTracks(p *playlist.Playlist, playing *core.Track, width, maxLines int, focused bool) string {
	tracks := p.Tracks()
	t.selected = min(t.selected, len(tracks)-1)

	visible := max(maxLines-1, 1)
	if t.selected < t.offset {
		t.offset = t.selected
	}
	if t.selected >= t.offset+visible {
		t.offset = t.selected - visible + 1
	}
	end := min(t.offset+visible, len(tracks))

	lines := make([]string, 0, end-t.offset+1)

	// "▸ " + "XX. " + "▶ " + duration and its gap
	const overhead = 16

	for i := t.offset; i < end; i++ {
		track := tracks[i]

		selector := "  "
		if focused && i == t.selected {
			selector = "▸ "
		}
		marker := "  "
		if i == p.Cursor() {
			marker = "▶ "
		}

		label := track.Title()
		if track.Artist() != "" {
			label += " — " + track.Artist()
		}
		label = truncate(label, width-overhead)

		num := fmt.Sprintf("%2d.", i+1)
		length := watch.FormatDuration(track.Duration())

		var line string
		switch {
		case track == playing:
			line = styles.Playing.Render(fmt.Sprintf("%s %s%s", num, marker, label))
		case focused && i == t.selected:
			line = styles.Dim.Render(num) + " " + marker + styles.Highlight.Render(label)
		default:
			line = styles.Dim.Render(num) + " " + marker + label
		}
		lines = append(lines, selector+line+"  "+styles.Dim.Render(length))
	}

	if end < len(tracks) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// truncate shortens s to max terminal cells.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	return runewidth.Truncate(s, max, "…")
}
