package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/session"
	"github.com/tessro/crate/internal/store"
)

// stubPlayer plays instantly and reports busy until finish is called.
type stubPlayer struct {
	loaded string
	busy   bool
	volume float64
}

func (p *stubPlayer) Load(path string) error    { p.loaded = path; return nil }
func (p *stubPlayer) Play() error               { p.busy = true; return nil }
func (p *stubPlayer) Pause() error              { return nil }
func (p *stubPlayer) Unpause() error            { return nil }
func (p *stubPlayer) Stop() error               { p.busy = false; return nil }
func (p *stubPlayer) SetVolume(v float64) error { p.volume = v; return nil }
func (p *stubPlayer) IsBusy() bool              { return p.busy }
func (p *stubPlayer) Close() error              { return nil }

var _ core.Player = (*stubPlayer)(nil)

func writeTracks(t *testing.T, titles ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(titles))
	for i, title := range titles {
		paths[i] = filepath.Join(dir, title+".mp3")
		if err := os.WriteFile(paths[i], nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func newTestModel(t *testing.T, titles ...string) (Model, *stubPlayer) {
	t.Helper()
	player := &stubPlayer{}
	s := session.New(nil, player)
	if _, err := s.CreatePlaylist("mix"); err != nil {
		t.Fatal(err)
	}
	if len(titles) > 0 {
		if _, err := s.AddFiles(writeTracks(t, titles...)); err != nil {
			t.Fatal(err)
		}
	}
	return NewModel(s, Options{Refresh: time.Millisecond, Theme: "dark"}), player
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestSpaceTogglesPlayback(t *testing.T) {
	m, player := newTestModel(t, "A", "B")

	m = press(t, m, " ")
	if m.state.Status != core.StatusPlaying {
		t.Fatalf("Status = %s, want playing", m.state.Status)
	}
	if filepath.Base(player.loaded) != "A.mp3" {
		t.Errorf("loaded %q, want A.mp3", player.loaded)
	}

	m = press(t, m, " ")
	if m.state.Status != core.StatusPaused {
		t.Errorf("Status = %s, want paused", m.state.Status)
	}
}

func TestNextRecordsSkip(t *testing.T) {
	m, _ := newTestModel(t, "A", "B")
	m = press(t, m, " ", "n")

	if got := m.state.Track.Title(); got != "B" {
		t.Errorf("playing %q, want B", got)
	}
	if len(m.history) != 1 || !m.history[0].Skipped || m.history[0].Track.Title() != "A" {
		t.Errorf("history = %+v, want A skipped", m.history)
	}
}

func TestTickAdvancesFinishedTrack(t *testing.T) {
	m, player := newTestModel(t, "A", "B")
	m = press(t, m, " ")

	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if got := m.state.Track.Title(); got != "A" {
		t.Fatalf("playing %q while busy, want A", got)
	}

	player.busy = false
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if got := m.state.Track.Title(); got != "B" {
		t.Errorf("playing %q after finish, want B", got)
	}
	if len(m.history) != 1 || m.history[0].Skipped {
		t.Errorf("history = %+v, want A completed", m.history)
	}
	if got := m.session.Selected().Cursor(); got != 1 {
		t.Errorf("Cursor() = %d, want 1", got)
	}
}

func TestAddFilesPrompt(t *testing.T) {
	m, _ := newTestModel(t)
	path := writeTracks(t, "New")[0]

	m = press(t, m, "a")
	if m.mode != inputAddFiles {
		t.Fatalf("mode = %v, want add files", m.mode)
	}
	m = press(t, m, path, "enter")

	if m.mode != inputNone {
		t.Errorf("prompt still open")
	}
	if got := m.session.Selected().Titles(); len(got) != 1 || got[0] != "New" {
		t.Errorf("Titles() = %v, want [New]", got)
	}
	if m.notice != "Added 1" {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestEditsAreSavedImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	st, err := store.New(path)
	if err != nil {
		t.Fatal(err)
	}
	s := session.New(st, &stubPlayer{})
	if _, err := s.CreatePlaylist("mix"); err != nil {
		t.Fatal(err)
	}
	m := NewModel(s, Options{Refresh: time.Millisecond, Theme: "dark"})

	saved := func() string {
		t.Helper()
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("library not written: %v", err)
		}
		return string(data)
	}

	track := writeTracks(t, "Kept")[0]
	m = press(t, m, "a", track, "enter")
	if !strings.Contains(saved(), track) {
		t.Errorf("added track missing from %s:\n%s", path, saved())
	}

	m = press(t, m, "N", "Road Trip", "enter")
	if !strings.Contains(saved(), "Road Trip") {
		t.Errorf("new playlist missing from %s:\n%s", path, saved())
	}

	m = press(t, m, "tab", "enter")
	m.focusedPanel = PanelTracks
	m = press(t, m, "d")
	if got := m.session.Library().SelectedName(); got != "mix" {
		t.Fatalf("selected %q, want mix", got)
	}
	if strings.Contains(saved(), track) {
		t.Errorf("removed track still in %s:\n%s", path, saved())
	}
	if m.lastError != nil {
		t.Errorf("unexpected error: %v", m.lastError)
	}
}

func TestAddFilesPromptReportsSkipped(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "a", "/nowhere/gone.mp3", "enter")

	if m.lastError == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(m.lastError.Error(), "skipped 1") {
		t.Errorf("error = %v", m.lastError)
	}
}

func TestNewPlaylistPrompt(t *testing.T) {
	m, _ := newTestModel(t, "A")
	m = press(t, m, "N", "Road Trip", "enter")

	if got := m.session.Library().SelectedName(); got != "Road Trip" {
		t.Errorf("selected %q, want Road Trip", got)
	}

	m = press(t, m, "N", "Road Trip", "enter")
	if m.lastError == nil {
		t.Error("expected an error for a duplicate name")
	}
}

func TestEscapeCancelsPrompt(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "N", "x", "esc")

	if m.mode != inputNone {
		t.Error("prompt still open")
	}
	if m.session.Library().Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.session.Library().Len())
	}
}

func TestToggleShuffleAndMove(t *testing.T) {
	m, _ := newTestModel(t, "A", "B", "C")

	m = press(t, m, "J")
	if got := strings.Join(m.session.Selected().Titles(), ""); got != "BAC" {
		t.Errorf("order = %s, want BAC", got)
	}

	m = press(t, m, "z")
	if !m.session.Selected().Shuffled() {
		t.Fatal("expected shuffle mode")
	}
	m = press(t, m, "J")
	if m.lastError == nil {
		t.Error("expected moving to fail while shuffled")
	}
}

func TestRemoveTrack(t *testing.T) {
	m, _ := newTestModel(t, "A", "B")
	m = press(t, m, "j", "d")

	if got := m.session.Selected().Titles(); len(got) != 1 || got[0] != "A" {
		t.Errorf("Titles() = %v, want [A]", got)
	}
}

func TestPlaylistPanelSelects(t *testing.T) {
	m, _ := newTestModel(t, "A")
	if _, err := m.session.CreatePlaylist("other"); err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "tab")
	if m.focusedPanel != PanelPlaylists {
		t.Fatalf("focused %v, want playlists", m.focusedPanel)
	}
	m = press(t, m, "enter")
	if got := m.session.Library().SelectedName(); got != "mix" {
		t.Errorf("selected %q, want mix", got)
	}
}

func TestVolumeKeys(t *testing.T) {
	m, _ := newTestModel(t, "A")
	m = press(t, m, "-", "-")

	if got := m.state.VolumePercent(); got != 90 {
		t.Errorf("VolumePercent() = %d, want 90", got)
	}
	m = press(t, m, "+", "+", "+")
	if got := m.state.VolumePercent(); got != 100 {
		t.Errorf("VolumePercent() = %d, want 100", got)
	}
}

func TestMessagesExpire(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "n")
	if m.lastError == nil {
		t.Fatal("expected an error for an empty playlist")
	}

	next, _ := m.Update(tickMsg(time.Now().Add(time.Minute)))
	m = next.(Model)
	if m.lastError != nil {
		t.Errorf("error not cleared: %v", m.lastError)
	}
}

func TestRemovedFileNotice(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(removedMsg("/music/Gone.mp3"))
	m = next.(Model)

	if m.notice != "Missing: Gone.mp3" {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t, "Opening", "Closing")
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before size = %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = press(t, next.(Model), " ")

	view := m.View()
	for _, want := range []string{"Now Playing", "Opening", "Closing", "Playlists", "History"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m = press(t, m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not shown")
	}
}
