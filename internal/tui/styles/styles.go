package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme supplies.
type Palette struct {
	Primary   lipgloss.TerminalColor
	Playing   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor
	TextDim   lipgloss.TerminalColor
}

var (
	dark = Palette{
		Primary:   lipgloss.Color("#7C3AED"),
		Playing:   lipgloss.Color("#10B981"),
		Warning:   lipgloss.Color("#F59E0B"),
		Error:     lipgloss.Color("#EF4444"),
		Border:    lipgloss.Color("#4B5563"),
		Text:      lipgloss.Color("#F9FAFB"),
		TextMuted: lipgloss.Color("#9CA3AF"),
		TextDim:   lipgloss.Color("#6B7280"),
	}

	light = Palette{
		Primary:   lipgloss.Color("#6D28D9"),
		Playing:   lipgloss.Color("#047857"),
		Warning:   lipgloss.Color("#B45309"),
		Error:     lipgloss.Color("#B91C1C"),
		Border:    lipgloss.Color("#D1D5DB"),
		Text:      lipgloss.Color("#111827"),
		TextMuted: lipgloss.Color("#4B5563"),
		TextDim:   lipgloss.Color("#9CA3AF"),
	}
)

// auto picks the light or dark shade from the terminal background.
func auto() Palette {
	pick := func(l, d lipgloss.TerminalColor) lipgloss.TerminalColor {
		return lipgloss.AdaptiveColor{Light: string(l.(lipgloss.Color)), Dark: string(d.(lipgloss.Color))}
	}
	return Palette{
		Primary:   pick(light.Primary, dark.Primary),
		Playing:   pick(light.Playing, dark.Playing),
		Warning:   pick(light.Warning, dark.Warning),
		Error:     pick(light.Error, dark.Error),
		Border:    pick(light.Border, dark.Border),
		Text:      pick(light.Text, dark.Text),
		TextMuted: pick(light.TextMuted, dark.TextMuted),
		TextDim:   pick(light.TextDim, dark.TextDim),
	}
}

// Text styles. Reassigned by Use.
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	Failure   lipgloss.Style

	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style

	current Palette
)

func init() {
	Use("auto")
}

// Use switches every style to the named theme: "dark", "light", or "auto".
func Use(theme string) {
	switch theme {
	case "dark":
		current = dark
	case "light":
		current = light
	default:
		current = auto()
	}

	Title = lipgloss.NewStyle().Bold(true).Foreground(current.Text)
	Subtitle = lipgloss.NewStyle().Foreground(current.TextMuted)
	Label = lipgloss.NewStyle().Foreground(current.TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(current.Primary)
	Muted = lipgloss.NewStyle().Foreground(current.TextMuted)
	Dim = lipgloss.NewStyle().Foreground(current.TextDim)
	Playing = lipgloss.NewStyle().Foreground(current.Playing)
	Paused = lipgloss.NewStyle().Foreground(current.Warning)
	Failure = lipgloss.NewStyle().Foreground(current.Error)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(current.Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(current.Primary)
}

// Panel returns the frame for a panel, highlighted when focused.
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// Bar draws a meter filled to percent (0-100).
func Bar(percent float64, width int) string {
	filled := min(max(int(percent/100*float64(width)), 0), width)

	filledStyle := lipgloss.NewStyle().Foreground(current.Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(current.Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing, paused bool) string {
	switch {
	case playing:
		return Playing.Render("▶")
	case paused:
		return Paused.Render("⏸")
	default:
		return Dim.Render("■")
	}
}

// ModeIcon marks shuffle or queue order.
func ModeIcon(shuffled bool) string {
	if shuffled {
		return Highlight.Render("🔀 shuffle")
	}
	return Muted.Render("➡ queue")
}
