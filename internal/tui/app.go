package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/session"
	"github.com/tessro/crate/internal/tui/components"
	"github.com/tessro/crate/internal/tui/styles"
	"github.com/tessro/crate/internal/watch"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelTracks
	PanelPlaylists
	PanelHistory

	panelCount
)

// inputMode is what the prompt overlay is collecting.
type inputMode int

const (
	inputNone inputMode = iota
	inputAddFiles
	inputNewPlaylist
)

const (
	messageLifetime = 5 * time.Second
	volumeStep      = 0.05
	maxHistory      = 50
)

// Options configures the dashboard.
type Options struct {
	// Refresh is how often the player is polled for the end of a track.
	Refresh time.Duration
	// Theme is "auto", "dark", or "light".
	Theme string
	// Files reports removed track files. It may be nil.
	Files *watch.FileWatcher
}

// Model is the main TUI model. It owns the session: every session call
// happens inside Update.
type Model struct {
	session *session.Session
	opts    Options

	width        int
	height       int
	focusedPanel Panel

	state   core.PlaybackState
	history []components.HistoryEntry

	// Components
	nowPlaying    *components.NowPlaying
	tracksView    *components.Tracks
	playlistsView *components.Playlists
	historyView   *components.History

	// Overlays
	showHelp bool
	mode     inputMode
	input    textinput.Model

	// Status line
	notice      string
	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(s *session.Session, opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = watch.DefaultInterval
	}
	styles.Use(opts.Theme)

	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 50

	m := Model{
		session:       s,
		opts:          opts,
		focusedPanel:  PanelTracks,
		nowPlaying:    components.NewNowPlaying(),
		tracksView:    components.NewTracks(),
		playlistsView: components.NewPlaylists(),
		historyView:   components.NewHistory(),
		input:         ti,
	}
	m.state = s.State()
	if p := s.Selected(); p != nil {
		m.tracksView.SelectIndex(p.Cursor())
	}
	return m
}

// Messages
type tickMsg time.Time
type removedMsg string

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitRemoved blocks on the file watcher for the next removed path.
func (m Model) waitRemoved() tea.Cmd {
	if m.opts.Files == nil {
		return nil
	}
	ch := m.opts.Files.Removed()
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return removedMsg(path)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitRemoved())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if time.Time(msg).After(m.errorExpiry) {
			m.lastError = nil
			m.notice = ""
		}
		if _, err := m.session.Poll(); err != nil {
			m.setError(err)
		}
		m.refresh(true)
		return m, m.tick()

	case removedMsg:
		m.setNotice("Missing: " + filepath.Base(string(msg)))
		return m, m.waitRemoved()
	}

	if m.mode != inputNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	if m.mode != inputNone {
		return m.handleInputKeyPress(msg)
	}

	// Normal mode
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil
	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	case "a":
		return m, m.prompt(inputAddFiles, "Files to add, separated by spaces")
	case "N":
		return m, m.prompt(inputNewPlaylist, "New playlist name")
	}

	// Playback controls
	switch msg.String() {
	case " ":
		m.apply(m.session.PlayPause())
	case "n":
		m.skip(m.session.Next)
	case "p":
		m.skip(m.session.Prev)
	case "s":
		m.session.Stop()
		m.refresh(false)
	case "z":
		on, err := m.session.ToggleShuffle()
		if err == nil {
			m.setNotice("Play order: " + lo.Ternary(on, "shuffle", "queue"))
			m.persist()
		}
		m.apply(err)
		m.followCursor()
	case "+", "=":
		m.apply(m.session.AdjustVolume(volumeStep))
	case "-":
		m.apply(m.session.AdjustVolume(-volumeStep))
	default:
		return m.handlePanelKeyPress(msg)
	}
	return m, nil
}

func (m Model) handlePanelKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focusedPanel {
	case PanelTracks:
		p := m.session.Selected()
		selected := m.tracksView.Selected(p)
		switch msg.String() {
		case "j", "down":
			m.tracksView.SelectNext()
		case "k", "up":
			m.tracksView.SelectPrev()
		case "enter":
			if selected != nil {
				_, err := m.session.PlayTitle(selected.Title())
				m.apply(err)
			}
		case "J", "shift+down":
			m.moveTrack(selected, playlist.Down)
		case "K", "shift+up":
			m.moveTrack(selected, playlist.Up)
		case "d", "delete":
			if selected != nil {
				err := m.session.RemoveTrack(selected.Title())
				if err == nil {
					m.persist()
				}
				m.apply(err)
			}
		case "y":
			if selected != nil {
				if err := clipboard.WriteAll(selected.Path()); err != nil {
					m.setError(err)
				} else {
					m.setNotice("Copied " + selected.Path())
				}
			}
		}

	case PanelPlaylists:
		names := m.session.Library().Names()
		switch msg.String() {
		case "j", "down":
			m.playlistsView.SelectNext()
		case "k", "up":
			m.playlistsView.SelectPrev()
		case "enter":
			if name := m.playlistsView.Selected(names); name != "" {
				err := m.session.SelectPlaylist(name)
				if err == nil {
					m.persist()
				}
				m.apply(err)
				m.followCursor()
			}
		case "D":
			if name := m.playlistsView.Selected(names); name != "" {
				if err := m.session.DeletePlaylist(name); err != nil {
					m.setError(err)
				} else {
					m.setNotice("Deleted " + name)
					m.persist()
				}
			}
		}
	}

	m.refresh(false)
	return m, nil
}

func (m Model) handleInputKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.closePrompt()
		if value == "" {
			return m, nil
		}
		switch mode {
		case inputAddFiles:
			m.addFiles(strings.Fields(value))
		case inputNewPlaylist:
			if _, err := m.session.CreatePlaylist(value); err != nil {
				m.setError(err)
			} else {
				m.setNotice("Created " + value)
				m.tracksView.SelectIndex(0)
				m.persist()
			}
		}
		m.refresh(false)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) prompt(mode inputMode, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) closePrompt() {
	m.mode = inputNone
	m.input.Blur()
}

func (m *Model) addFiles(paths []string) {
	result, err := m.session.AddFiles(paths)
	if err != nil {
		m.setError(err)
		return
	}

	added := make([]string, 0, len(result.Data))
	for _, t := range result.Data {
		added = append(added, t.Path())
	}
	if m.opts.Files != nil && len(added) > 0 {
		if err := m.opts.Files.Add(added...); err != nil {
			log.Warn().Err(err).Msg("Failed to watch added files")
		}
	}

	if result.HasErrors() {
		m.setError(fmt.Errorf("added %d, skipped %d: %w", len(added), len(result.Errors), result.Errors[0]))
	} else {
		m.setNotice(fmt.Sprintf("Added %d", len(added)))
	}
	if len(added) > 0 {
		m.persist()
	}
}

func (m *Model) moveTrack(t *core.Track, dir playlist.Direction) {
	if t == nil {
		return
	}
	if err := m.session.MoveTrack(t.Title(), dir); err != nil {
		m.setError(err)
		return
	}
	m.persist()
	p := m.session.Selected()
	for i, track := range p.Tracks() {
		if track == t {
			m.tracksView.SelectIndex(i)
		}
	}
}

// skip runs Next or Prev and records the abandoned track in history.
func (m *Model) skip(step func() (*core.Track, error)) {
	if m.state.HasTrack() && m.state.IsPlaying() {
		m.pushHistory(m.state.Track, true)
	}
	_, err := step()
	m.apply(err)
	m.followCursor()
}

// persist writes the library after an edit, so a killed terminal loses
// nothing. Unchanged libraries are skipped by the store.
func (m *Model) persist() {
	if err := m.session.Save(); err != nil {
		m.setError(err)
	}
}

// apply shows err, if any, and refreshes the snapshot.
func (m *Model) apply(err error) {
	if err != nil {
		m.setError(err)
	}
	m.refresh(false)
}

// refresh takes a new snapshot. After a poll, a track that is no longer
// playing ended on its own and goes into history.
func (m *Model) refresh(polled bool) {
	prev := m.state
	m.state = m.session.State()

	if polled && prev.Track != nil && prev.Track != m.state.Track {
		m.pushHistory(prev.Track, false)
		m.followCursor()
	}
}

// followCursor moves the highlight to the playlist cursor.
func (m *Model) followCursor() {
	if p := m.session.Selected(); p != nil {
		m.tracksView.SelectIndex(p.Cursor())
	}
}

func (m *Model) pushHistory(t *core.Track, skipped bool) {
	if n := len(m.history); n > 0 && m.history[0].Track == t && m.history[0].Skipped == skipped {
		return
	}
	entry := components.HistoryEntry{
		Track:    t,
		Playlist: m.state.Playlist,
		PlayedAt: time.Now(),
		Skipped:  skipped,
	}
	m.history = append([]components.HistoryEntry{entry}, m.history...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
	}
}

func (m *Model) setError(err error) {
	log.Debug().Err(err).Msg("Dashboard action failed")
	m.lastError = err
	m.notice = ""
	m.errorExpiry = time.Now().Add(messageLifetime)
}

func (m *Model) setNotice(s string) {
	m.notice = s
	m.lastError = nil
	m.errorExpiry = time.Now().Add(messageLifetime)
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.mode != inputNone {
		return m.renderPrompt()
	}

	// Left: Now Playing (top), Tracks (bottom)
	// Right: Playlists (top), History (bottom)
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 35 / 100
	bottomHeight := m.height - topHeight - 2

	lib := m.session.Library()

	nowPlaying := m.nowPlaying.Render(m.state, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	tracksView := m.tracksView.Render(m.session.Selected(), m.state.Track, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelTracks)
	playlistsView := m.playlistsView.Render(lib.Playlists(), lib.SelectedName(), rightWidth-2, topHeight-2, m.focusedPanel == PanelPlaylists)
	historyView := m.historyView.Render(m.history, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, tracksView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, playlistsView, historyView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  space:play/pause  n/p:next/prev  z:shuffle  a:add  N:new playlist  tab:panel")

	switch {
	case m.lastError != nil:
		status = styles.Failure.Render("Error: " + m.lastError.Error())
	case m.notice != "":
		status = styles.Muted.Render(m.notice)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Crate - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Save and quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel
  a            Add files to playlist
  N            New playlist

  Playback
  ────────
  Space        Play/Pause
  n            Next track
  p            Previous track
  s            Stop
  z            Toggle shuffle
  +/=          Volume up
  -            Volume down

  Tracks Panel
  ────────────
  j/↓  k/↑     Move highlight
  Enter        Play highlighted track
  J/K          Move track down/up
  d            Remove track
  y            Copy file path

  Playlists Panel
  ───────────────
  j/↓  k/↑     Move highlight
  Enter        Select playlist (★)
  D            Delete playlist

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderPrompt() string {
	heading := "Add files"
	if m.mode == inputNewPlaylist {
		heading = "New playlist"
	}

	var b strings.Builder
	b.WriteString(styles.Highlight.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.Dim.Render("Enter:confirm  Esc:cancel"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the dashboard and blocks until the user quits. Removed-file
// notices are shown while opts.Files is being watched.
func Run(ctx context.Context, s *session.Session, opts Options) error {
	if opts.Files != nil {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := opts.Files.Start(ctx); err != nil && err != context.Canceled {
				log.Warn().Err(err).Msg("File watcher stopped")
			}
		}()
	}

	p := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
