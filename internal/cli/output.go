package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/watch"
)

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(active bool) string {
	if active {
		return "●"
	}
	return "○"
}

// TruncateString truncates s to maxWidth terminal cells, adding "…" if
// truncated.
func TruncateString(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "…")
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type trackJSON struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Path     string `json:"path"`
	Duration string `json:"duration"`
	Current  bool   `json:"current,omitempty"`
}

func toTrackJSON(t *core.Track) trackJSON {
	return trackJSON{
		Title:    t.Title(),
		Artist:   t.Artist(),
		Album:    t.Album(),
		Path:     t.Path(),
		Duration: watch.FormatDuration(t.Duration()),
	}
}

// printTracks lists a playlist in its active order with the cursor marked.
func printTracks(p *playlist.Playlist) error {
	tracks := p.Tracks()
	if JSONOutput() {
		out := make([]trackJSON, len(tracks))
		for i, t := range tracks {
			out[i] = toTrackJSON(t)
			out[i].Current = i == p.Cursor()
		}
		return printJSON(out)
	}

	if len(tracks) == 0 {
		fmt.Printf("%s is empty. Add tracks with 'crate track add <files>'\n", p.Name())
		return nil
	}

	table := NewTable("", "#", "TITLE", "LENGTH", "PATH")
	for i, t := range tracks {
		marker := " "
		if i == p.Cursor() {
			marker = "▶"
		}
		table.Row(marker, fmt.Sprint(i+1), TruncateString(t.Title(), 40), watch.FormatDuration(t.Duration()), t.Path())
	}
	table.Flush()
	return nil
}

// reportSkipped prints per-file failures from a batch add.
func reportSkipped(result *errors.PartialResult[[]*core.Track]) {
	if !result.HasErrors() {
		return
	}
	fmt.Fprintln(os.Stderr, result.ErrorSummary())
}
