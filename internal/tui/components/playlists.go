package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/tui/styles"
)

// Playlists lists every playlist in the library.
type Playlists struct {
	selected int
}

// NewPlaylists creates a new Playlists component
func NewPlaylists() *Playlists {
	return &Playlists{}
}

// SelectNext selects the next playlist
func (l *Playlists) SelectNext() {
	l.selected++
}

// SelectPrev selects the previous playlist
func (l *Playlists) SelectPrev() {
	if l.selected > 0 {
		l.selected--
	}
}

// Selected returns the highlighted playlist name, or "".
func (l *Playlists) Selected(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[min(l.selected, len(names)-1)]
}

// Render renders the playlists panel. The active playlist is starred.
func (l *Playlists) Render(lists []*playlist.Playlist, active string, width, height int, focused bool) string {
	title := styles.PanelTitle("Playlists", focused)

	var content string
	if len(lists) == 0 {
		content = styles.Muted.Render("No playlists (N: new)")
	} else {
		content = l.renderPlaylists(lists, active, width-4, height-4, focused)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (l *Playlists) renderPlaylists(lists []*playlist.Playlist, active string, width, maxLines int, focused bool) string {
	l.selected = max(min(l.selected, len(lists)-1), 0)

	lines := make([]string, 0, len(lists))
	for i, p := range lists {
		if len(lines) >= maxLines {
			break
		}

		selector := "  "
		if focused && i == l.selected {
			selector = "▸ "
		}

		star := ""
		if p.Name() == active {
			star = styles.Playing.Render(" ★")
		}

		count := styles.Dim.Render(fmt.Sprintf(" (%d)", p.Len()))
		name := truncate(p.Name(), width-12)
		if focused && i == l.selected {
			name = styles.Highlight.Render(name)
		}

		lines = append(lines, selector+name+count+star)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
