package watch

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/crate/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is
// ignored.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl == "" {
			return
		}
		if t, err := template.New("format").Parse(tmpl); err == nil {
			f.template = t
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{showEmoji: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string
	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, describe(e))
	return strings.Join(parts, " ")
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Artist    string
	Album     string
	Path      string
	Duration  string
	Playlist  string
	Volume    int
	Error     string
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Path:      e.Path,
	}
	if t := eventTrack(e); t != nil {
		data.Title = t.Title()
		data.Artist = t.Artist()
		data.Album = t.Album()
		data.Path = t.Path()
		data.Duration = FormatDuration(t.Duration())
	}
	if e.Current != nil {
		data.Playlist = e.Current.Playlist
		data.Volume = e.Current.VolumePercent()
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

// eventTrack picks the track an event is about.
func eventTrack(e Event) *core.Track {
	if e.Type == EventTrackComplete && e.Previous != nil {
		return e.Previous.Track
	}
	if e.Current != nil {
		return e.Current.Track
	}
	return nil
}

func describe(e Event) string {
	t := eventTrack(e)

	switch e.Type {
	case EventTrackChange:
		if t != nil {
			return fmt.Sprintf("Now playing: %s (%s)", t.Title(), FormatDuration(t.Duration()))
		}
		return "Track changed"

	case EventTrackComplete:
		if t != nil {
			return "Finished: " + t.Title()
		}
		return "Track completed"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", e.Current.VolumePercent())
		}
		return "Volume changed"

	case EventShuffleChange:
		if e.Current != nil && e.Current.Shuffled {
			return "Shuffle on"
		}
		return "Shuffle off"

	case EventStopped:
		return "Stopped"

	case EventFileRemoved:
		return "Removed from disk: " + e.Path

	case EventError:
		if e.Err != nil {
			return "Error: " + e.Err.Error()
		}
		return "Error"

	default:
		return "Unknown event"
	}
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventVolumeChange:
		return "🔊"
	case EventShuffleChange:
		return "🔀"
	case EventStopped:
		return "⏹️"
	case EventFileRemoved:
		return "🗑️"
	case EventError:
		return "⚠️"
	default:
		return "❓"
	}
}

func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventVolumeChange:
		return "volume_change"
	case EventShuffleChange:
		return "shuffle_change"
	case EventStopped:
		return "stopped"
	case EventFileRemoved:
		return "file_removed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
