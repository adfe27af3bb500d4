package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/tessro/crate/internal/core"
)

// Field is the track attribute the filter matches against.
type Field int

const (
	FieldAll Field = iota
	FieldTitle
	FieldArtist
	FieldAlbum

	fieldCount
)

var fieldNames = [...]string{"All", "Title", "Artist", "Album"}

// Matches reports whether t matches query in field f. Matching is a
// case-insensitive substring test; an empty query matches everything.
func (f Field) Matches(t *core.Track, query string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	has := func(s string) bool { return strings.Contains(strings.ToLower(s), query) }

	switch f {
	case FieldTitle:
		return has(t.Title())
	case FieldArtist:
		return has(t.Artist())
	case FieldAlbum:
		return has(t.Album())
	default:
		return has(t.Title()) || has(t.Artist()) || has(t.Album())
	}
}

// FinderModel is the bubbletea model for picking a track by typing part of
// its name.
type FinderModel struct {
	title    string
	tracks   []*core.Track
	current  *core.Track
	input    textinput.Model
	field    Field
	matches  []*core.Track
	cursor   int
	selected *core.Track
	height   int
}

// Styles
var (
	finderTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	finderTabStyle = lipgloss.NewStyle().
			Padding(0, 2)

	finderActiveTabStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Background(lipgloss.Color("205")).
				Foreground(lipgloss.Color("0"))

	finderItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	finderSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	finderDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	finderCurrentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))
)

// NewFinderModel creates a finder over tracks. current, if present in
// tracks, starts highlighted.
func NewFinderModel(title string, tracks []*core.Track, current *core.Track) FinderModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	m := FinderModel{
		title:   title,
		tracks:  tracks,
		current: current,
		input:   ti,
		height:  20,
	}
	m.filter()
	if i := lo.IndexOf(m.matches, current); i >= 0 {
		m.cursor = i
	}
	return m
}

// Init initializes the model.
func (m FinderModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m FinderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.cursor < len(m.matches) {
				m.selected = m.matches[m.cursor]
				return m, tea.Quit
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil

		case "tab":
			m.field = (m.field + 1) % fieldCount
			m.filter()
			return m, nil

		case "shift+tab":
			m.field = (m.field + fieldCount - 1) % fieldCount
			m.filter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = msg.Width - 4
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filter()
	}
	return m, cmd
}

// filter recomputes matches and keeps the cursor in range.
func (m *FinderModel) filter() {
	query := strings.TrimSpace(m.input.Value())
	m.matches = lo.Filter(m.tracks, func(t *core.Track, _ int) bool {
		return m.field.Matches(t, query)
	})
	m.cursor = max(min(m.cursor, len(m.matches)-1), 0)
}

// View renders the model.
func (m FinderModel) View() string {
	var b strings.Builder

	b.WriteString(finderTitleStyle.Render("🔍 " + m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, name := range fieldNames {
		if Field(i) == m.field {
			b.WriteString(finderActiveTabStyle.Render(name))
		} else {
			b.WriteString(finderTabStyle.Render(name))
		}
	}
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(finderDimStyle.Render("No matching tracks"))
		b.WriteString("\n")
	}

	limit := max(m.height-10, 5)
	start := max(m.cursor-limit+1, 0)
	for i := start; i < len(m.matches) && i < start+limit; i++ {
		t := m.matches[i]
		line := t.Title() + " " + finderDimStyle.Render(fmt.Sprintf("%s · %s", t.Artist(), t.Album()))
		if t == m.current {
			line = finderCurrentStyle.Render("▶ ") + line
		}

		if i == m.cursor {
			b.WriteString(finderSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(finderItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if rest := len(m.matches) - start - limit; rest > 0 {
		b.WriteString(finderDimStyle.Render(fmt.Sprintf("  ...and %d more", rest)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(finderDimStyle.Render("↑/↓ navigate • tab match field • enter select • esc quit"))
	return b.String()
}

// Matches returns the tracks passing the current filter.
func (m FinderModel) Matches() []*core.Track {
	return m.matches
}

// Selected returns the chosen track, or nil if the finder was cancelled.
func (m FinderModel) Selected() *core.Track {
	return m.selected
}

// RunFinder runs the finder and returns the chosen track.
func RunFinder(title string, tracks []*core.Track, current *core.Track) (*core.Track, error) {
	p := tea.NewProgram(NewFinderModel(title, tracks, current), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(FinderModel).Selected(), nil
}
