// Package session ties the playlist library to its store and the audio
// player. A Session is owned by a single goroutine: the TUI event loop or
// the headless autoplay loop.
package session

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/store"
)

// Option configures a Session.
type Option func(*Session)

// WithProber sets the prober used to measure added tracks.
func WithProber(p core.DurationProber) Option {
	return func(s *Session) {
		s.prober = p
	}
}

// WithPlaylistOptions applies opts to every playlist the session creates
// or loads.
func WithPlaylistOptions(opts ...playlist.Option) Option {
	return func(s *Session) {
		s.playlistOpts = append(s.playlistOpts, opts...)
	}
}

// WithShuffleDefault makes new playlists start in shuffle mode.
func WithShuffleDefault(on bool) Option {
	return func(s *Session) {
		s.shuffleNew = on
	}
}

// WithVolume sets the initial output level (0.0 to 1.0).
func WithVolume(v float64) Option {
	return func(s *Session) {
		s.volume = clamp(v)
	}
}

// Session is the playlist library plus playback state.
type Session struct {
	library      *playlist.Collection
	store        *store.Store
	player       core.Player
	prober       core.DurationProber
	exists       func(string) bool
	playlistOpts []playlist.Option
	shuffleNew   bool

	status     core.PlaybackStatus
	volume     float64
	nowPlaying *core.Track
}

// New creates a Session. st may be nil for a library that is never saved.
func New(st *store.Store, player core.Player, opts ...Option) *Session {
	s := &Session{
		store:  st,
		player: player,
		exists: core.FileExists,
		status: core.StatusStopped,
		volume: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.library = playlist.NewCollection(s.playlistOpts...)
	return s
}

// Load replaces the library with the store's contents. A corrupt file
// leaves an empty library and its error is returned so it can be shown.
func (s *Session) Load() error {
	s.library = playlist.NewCollection(s.playlistOpts...)
	if s.store == nil {
		return nil
	}
	if err := s.store.Load(s.library, s.newTrack); err != nil {
		log.Warn().Err(err).Str("path", s.store.Path()).Msg("Starting with an empty library")
		return err
	}
	return nil
}

// Save writes the library to the store.
func (s *Session) Save() error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(s.library)
}

// Store returns the backing store, which may be nil.
func (s *Session) Store() *store.Store {
	return s.store
}

// Library returns the playlist collection.
func (s *Session) Library() *playlist.Collection {
	return s.library
}

// Selected returns the selected playlist, or nil.
func (s *Session) Selected() *playlist.Playlist {
	return s.library.Selected()
}

// CreatePlaylist adds an empty playlist and selects it.
func (s *Session) CreatePlaylist(name string) (*playlist.Playlist, error) {
	p, err := s.library.Create(name)
	if err != nil {
		return nil, err
	}
	if s.shuffleNew {
		p.EnterShuffle()
	}
	log.Info().Str("playlist", p.Name()).Msg("Created playlist")
	return p, nil
}

// DeletePlaylist removes a playlist, stopping playback if it owned the
// current track.
func (s *Session) DeletePlaylist(name string) error {
	p, ok := s.library.Get(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, errors.ErrPlaylistNotFound)
	}
	if s.nowPlaying != nil && lo.Contains(p.Canonical(), s.nowPlaying) {
		s.Stop()
	}
	if err := s.library.Delete(name); err != nil {
		return err
	}
	log.Info().Str("playlist", name).Msg("Deleted playlist")
	return nil
}

// SelectPlaylist makes the named playlist current.
func (s *Session) SelectPlaylist(name string) error {
	return s.library.Select(name)
}

// AddFiles appends files to the selected playlist. Files that are missing
// or not audio are reported in the result and do not stop the batch.
func (s *Session) AddFiles(paths []string) (*errors.PartialResult[[]*core.Track], error) {
	p := s.library.Selected()
	if p == nil {
		return nil, errors.ErrNoPlaylist
	}

	result := &errors.PartialResult[[]*core.Track]{}
	for _, path := range paths {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		switch {
		case !core.IsSupported(path):
			result.AddError(&errors.FileError{Path: path, Err: errors.ErrUnsupportedFormat})
		case !s.exists(path):
			result.AddError(&errors.FileError{Path: path, Err: errors.ErrMissingFile})
		default:
			t := s.newTrack(path)
			p.AddTrack(t)
			result.Data = append(result.Data, t)
		}
	}

	log.Info().
		Str("playlist", p.Name()).
		Int("count", len(result.Data)).
		Int("skipped", len(result.Errors)).
		Msg("Added tracks")
	return result, nil
}

// RemoveTrack removes the first track titled title from the selected
// playlist. Removing the track that is playing stops playback.
func (s *Session) RemoveTrack(title string) error {
	p := s.library.Selected()
	if p == nil {
		return errors.ErrNoPlaylist
	}
	t, ok := findTitle(p, title)
	if !ok {
		return fmt.Errorf("%q: %w", title, errors.ErrTrackNotFound)
	}
	if t == s.nowPlaying {
		s.Stop()
	}
	p.RemoveTrack(title)
	log.Info().Str("playlist", p.Name()).Str("title", title).Msg("Removed track")
	return nil
}

// MoveTrack swaps a track with its neighbour in the selected playlist's
// canonical order. Moving past either end is a no-op.
func (s *Session) MoveTrack(title string, dir playlist.Direction) error {
	p := s.library.Selected()
	if p == nil {
		return errors.ErrNoPlaylist
	}
	if p.Shuffled() {
		return errors.ErrShuffleActive
	}
	if _, ok := findTitle(p, title); !ok {
		return fmt.Errorf("%q: %w", title, errors.ErrTrackNotFound)
	}
	if p.MoveTrack(title, dir) {
		log.Debug().Str("playlist", p.Name()).Str("title", title).Stringer("direction", dir).Msg("Moved track")
	}
	return nil
}

// SetShuffle switches the selected playlist between shuffle and queue
// order. The current track keeps playing.
func (s *Session) SetShuffle(on bool) error {
	p := s.library.Selected()
	if p == nil {
		return errors.ErrNoPlaylist
	}
	if on {
		p.EnterShuffle()
	} else {
		p.EnterQueue()
	}
	log.Info().Str("playlist", p.Name()).Stringer("mode", p.Mode()).Msg("Changed play order")
	return nil
}

// ToggleShuffle flips the selected playlist's mode and reports the new one.
func (s *Session) ToggleShuffle() (bool, error) {
	p := s.library.Selected()
	if p == nil {
		return false, errors.ErrNoPlaylist
	}
	on := !p.Shuffled()
	return on, s.SetShuffle(on)
}

func (s *Session) newTrack(path string) *core.Track {
	return core.NewTrack(path, s.prober)
}

func findTitle(p *playlist.Playlist, title string) (*core.Track, bool) {
	return lo.Find(p.Canonical(), func(t *core.Track) bool {
		return t.Title() == title
	})
}

func clamp(v float64) float64 {
	return lo.Clamp(v, 0, 1)
}
