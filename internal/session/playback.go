package session

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
)

// Next advances the selected playlist and plays the new current track.
// Tracks whose files have disappeared are skipped.
func (s *Session) Next() (*core.Track, error) {
	return s.step((*playlist.Playlist).Advance)
}

// Prev steps the selected playlist back and plays the new current track.
func (s *Session) Prev() (*core.Track, error) {
	return s.step((*playlist.Playlist).Retreat)
}

func (s *Session) step(move func(*playlist.Playlist) *core.Track) (*core.Track, error) {
	p, err := s.playable()
	if err != nil {
		return nil, err
	}

	for range p.Len() {
		t := move(p)
		if s.exists(t.Path()) {
			return t, s.start(t)
		}
		log.Warn().Str("playlist", p.Name()).Str("path", t.Path()).Msg("Skipping missing file")
	}

	s.reset()
	return nil, fmt.Errorf("%s: every track: %w", p.Name(), errors.ErrMissingFile)
}

// Play starts the selected playlist's current track, or resumes it if
// paused.
func (s *Session) Play() error {
	switch s.status {
	case core.StatusPlaying:
		return nil
	case core.StatusPaused:
		return s.resume()
	}

	p, err := s.playable()
	if err != nil {
		return err
	}
	return s.startChecked(p.Current())
}

// PlayPause toggles between playing and paused, starting the current track
// when stopped.
func (s *Session) PlayPause() error {
	if s.status == core.StatusPlaying {
		if err := s.player.Pause(); err != nil {
			return s.fail(err)
		}
		s.status = core.StatusPaused
		log.Debug().Msg("Paused")
		return nil
	}
	return s.Play()
}

// PlayTitle moves the cursor to the first track titled title and plays it.
func (s *Session) PlayTitle(title string) (*core.Track, error) {
	p := s.library.Selected()
	if p == nil {
		return nil, errors.ErrNoPlaylist
	}
	if !p.Select(title) {
		return nil, fmt.Errorf("%q: %w", title, errors.ErrTrackNotFound)
	}
	t := p.Current()
	return t, s.startChecked(t)
}

// Stop halts playback. The playlist cursor is left where it is.
func (s *Session) Stop() {
	if s.status != core.StatusStopped {
		if err := s.player.Stop(); err != nil {
			log.Warn().Err(err).Msg("Player failed to stop")
		}
	}
	s.status = core.StatusStopped
	s.nowPlaying = nil
}

// SetVolume sets the output level, clamped to 0.0 to 1.0.
func (s *Session) SetVolume(v float64) error {
	v = clamp(v)
	if err := s.player.SetVolume(v); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrPlayback, err)
	}
	s.volume = v
	return nil
}

// AdjustVolume changes the volume by delta.
func (s *Session) AdjustVolume(delta float64) error {
	return s.SetVolume(s.volume + delta)
}

// Poll advances to the next track once the player has finished the
// current one. It returns the newly started track, or nil when nothing
// changed.
func (s *Session) Poll() (*core.Track, error) {
	if s.status != core.StatusPlaying || s.player.IsBusy() {
		return nil, nil
	}
	log.Debug().Str("title", s.nowPlaying.Title()).Msg("Track finished")
	return s.Next()
}

// State returns a snapshot of playback.
func (s *Session) State() core.PlaybackState {
	state := core.PlaybackState{
		Track:  s.nowPlaying,
		Status: s.status,
		Volume: s.volume,
	}
	if p := s.library.Selected(); p != nil {
		state.Playlist = p.Name()
		state.Shuffled = p.Shuffled()
	}
	return state
}

// Close stops playback and releases the player.
func (s *Session) Close() error {
	s.Stop()
	return s.player.Close()
}

func (s *Session) playable() (*playlist.Playlist, error) {
	p := s.library.Selected()
	if p == nil {
		return nil, errors.ErrNoPlaylist
	}
	if p.IsEmpty() {
		return nil, fmt.Errorf("%q: %w", p.Name(), errors.ErrEmptyPlaylist)
	}
	return p, nil
}

func (s *Session) startChecked(t *core.Track) error {
	if !s.exists(t.Path()) {
		s.reset()
		return &errors.FileError{Path: t.Path(), Err: errors.ErrMissingFile}
	}
	return s.start(t)
}

func (s *Session) start(t *core.Track) error {
	if err := s.player.Load(t.Path()); err != nil {
		return s.fail(err)
	}
	if err := s.player.SetVolume(s.volume); err != nil {
		log.Warn().Err(err).Msg("Player rejected volume")
	}
	if err := s.player.Play(); err != nil {
		return s.fail(err)
	}

	s.status = core.StatusPlaying
	s.nowPlaying = t
	log.Info().Str("title", t.Title()).Str("path", t.Path()).Msg("Playing")
	return nil
}

func (s *Session) resume() error {
	if err := s.player.Unpause(); err != nil {
		return s.fail(err)
	}
	s.status = core.StatusPlaying
	log.Debug().Msg("Resumed")
	return nil
}

// fail resets playback after a backend error and wraps it.
func (s *Session) fail(err error) error {
	log.Error().Err(err).Msg("Playback failed")
	s.reset()
	return fmt.Errorf("%w: %w", errors.ErrPlayback, err)
}

func (s *Session) reset() {
	if err := s.player.Stop(); err != nil {
		log.Debug().Err(err).Msg("Player failed to stop")
	}
	s.status = core.StatusStopped
	s.nowPlaying = nil
}
