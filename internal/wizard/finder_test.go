package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/playlist"
)

func tracks(titles ...string) []*core.Track {
	out := make([]*core.Track, len(titles))
	for i, title := range titles {
		out[i] = core.NewTrack("/music/"+title+".mp3", nil)
	}
	return out
}

func typeText(m FinderModel, s string) FinderModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(FinderModel)
}

func send(m FinderModel, k tea.KeyType) (FinderModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(FinderModel), cmd
}

func TestFieldMatches(t *testing.T) {
	track := core.NewTrack("/music/Morning Song.mp3", nil)

	tests := []struct {
		field Field
		query string
		want  bool
	}{
		{FieldAll, "", true},
		{FieldAll, "morning", true},
		{FieldTitle, "SONG", true},
		{FieldTitle, "evening", false},
		{FieldArtist, "morning", false},
		{FieldArtist, "unknown", true},
		{FieldAlbum, "unknown", true},
	}

	for _, tt := range tests {
		if got := tt.field.Matches(track, tt.query); got != tt.want {
			t.Errorf("%s.Matches(%q) = %v, want %v", fieldNames[tt.field], tt.query, got, tt.want)
		}
	}
}

func TestFinderFilters(t *testing.T) {
	all := tracks("Alpha", "Beta", "Alphabet")
	m := NewFinderModel("Play", all, nil)
	if got := len(m.Matches()); got != 3 {
		t.Fatalf("len(Matches()) = %d, want 3", got)
	}

	m = typeText(m, "alpha")
	if got := len(m.Matches()); got != 2 {
		t.Errorf("len(Matches()) = %d, want 2", got)
	}

	m = typeText(m, "z")
	if got := len(m.Matches()); got != 0 {
		t.Errorf("len(Matches()) = %d, want 0", got)
	}
	m, _ = send(m, tea.KeyEnter)
	if m.Selected() != nil {
		t.Error("enter with no matches selected a track")
	}
}

func TestFinderSelects(t *testing.T) {
	all := tracks("One", "Two", "Three")
	m := NewFinderModel("Play", all, all[1])
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want current track", m.cursor)
	}

	m, _ = send(m, tea.KeyDown)
	m, _ = send(m, tea.KeyDown)
	m, cmd := send(m, tea.KeyEnter)

	if m.Selected() != all[2] {
		t.Errorf("Selected() = %v, want Three", m.Selected())
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestFinderTabCyclesField(t *testing.T) {
	m := NewFinderModel("Play", tracks("Song"), nil)
	m = typeText(m, "unknown")
	if len(m.Matches()) != 1 {
		t.Fatal("All should match the placeholder artist")
	}

	m, _ = send(m, tea.KeyTab)
	if m.field != FieldTitle || len(m.Matches()) != 0 {
		t.Errorf("field = %d matches = %d, want title with none", m.field, len(m.Matches()))
	}

	m, _ = send(m, tea.KeyShiftTab)
	if m.field != FieldAll {
		t.Errorf("field = %d, want all", m.field)
	}
}

func TestFinderEscapeCancels(t *testing.T) {
	m := NewFinderModel("Play", tracks("One"), nil)
	m, cmd := send(m, tea.KeyEsc)
	if m.Selected() != nil || cmd == nil {
		t.Error("escape should quit without a selection")
	}
}

func TestPromptTrackWithoutTerminal(t *testing.T) {
	p := playlist.New("mix")
	for _, tr := range tracks("One") {
		p.AddTrack(tr)
	}

	i := NewInteractive(true)
	i.terminal = func() bool { return false }

	got, err := i.PromptTrack("Play", p)
	if err != nil || got != nil {
		t.Errorf("PromptTrack() = %v, %v, want nil, nil", got, err)
	}

	if NewInteractive(false).CanInteract() {
		t.Error("disabled handler reports it can interact")
	}
}
