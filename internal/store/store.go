// Package store persists a playlist collection to a single JSON file.
//
// The file maps playlist names to their saved state:
//
//	{
//	  "Road Trip": {"songs": ["/music/a.mp3"], "is_shuffled": true},
//	  "Old Format": ["/music/b.mp3"]
//	}
//
// The bare list form is what early versions wrote; it loads as a playlist
// in queue order.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
)

const (
	// DefaultFileName is the default name for the playlist file.
	DefaultFileName = "playlists.json"
)

// TrackFactory builds a Track for a path that is known to exist.
type TrackFactory func(path string) *core.Track

// Record is the saved form of one playlist.
type Record struct {
	Name     string
	Paths    []string
	Shuffled bool
}

// Store handles persisting playlists to disk.
type Store struct {
	path     string
	exists   func(path string) bool
	lastHash uint64
	hashed   bool

	// backup is where an unreadable file was moved; locked is set when it
	// could not be moved, and Save then refuses to overwrite it.
	backup string
	locked bool
	now    func() time.Time
}

// New creates a store at the specified path.
// If path is empty, uses the default location (~/.config/crate/playlists.json).
func New(path string) (*Store, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(configDir, "crate", DefaultFileName)
	}

	return &Store{path: path, exists: core.FileExists, now: time.Now}, nil
}

// Path returns the path to the playlist file.
func (s *Store) Path() string {
	return s.path
}

// Exists returns true if the playlist file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// ModTime returns when the playlist file was last written.
func (s *Store) ModTime() (time.Time, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Backup returns where a corrupt playlist file was moved by Load, or "".
func (s *Store) Backup() string {
	return s.backup
}

// Load reads the playlist file into c, which should be empty. A missing
// file is not an error. An unreadable or malformed file leaves c untouched,
// is renamed aside so a later Save cannot destroy it, and an error
// wrapping errors.ErrStoreCorrupt is returned.
func (s *Store) Load(c *playlist.Collection, newTrack TrackFactory) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", s.path).Msg("No playlist file yet")
			return nil
		}
		return s.setAside(err)
	}

	records, err := Decode(data)
	if err != nil {
		return s.setAside(err)
	}

	Restore(c, records, newTrack, s.exists)
	s.remember(Snapshot(c, s.exists))

	log.Info().
		Str("path", s.path).
		Int("playlists", c.Len()).
		Msg("Loaded playlists")
	return nil
}

// Save writes the collection to disk. Tracks whose files have disappeared
// are left out. The write is skipped when nothing changed since the last
// Load or Save.
func (s *Store) Save(c *playlist.Collection) error {
	if s.locked {
		return errors.WithSuggestion(
			fmt.Errorf("%w: %s: refusing to overwrite", errors.ErrStoreCorrupt, s.path),
			"Fix or move the file by hand, then run the command again")
	}
	records := Snapshot(c, s.exists)

	hash, err := hashstructure.Hash(records, hashstructure.FormatV2, nil)
	if err == nil && s.hashed && hash == s.lastHash && s.Exists() {
		log.Debug().Str("path", s.path).Msg("Playlists unchanged, skipping save")
		return nil
	}

	data, err := Encode(records)
	if err != nil {
		return fmt.Errorf("failed to encode playlists: %w", err)
	}

	if err := s.writeAtomic(data); err != nil {
		return err
	}
	s.remember(records)

	log.Debug().
		Str("path", s.path).
		Int("playlists", len(records)).
		Msg("Saved playlists")
	return nil
}

// setAside moves the unloadable file to <path>.corrupt-<time>. If that
// fails the store is locked against writes.
func (s *Store) setAside(cause error) error {
	backup := fmt.Sprintf("%s.corrupt-%s", s.path, s.now().Format("20060102-150405"))
	if err := os.Rename(s.path, backup); err != nil {
		s.locked = true
		log.Error().Err(err).Str("path", s.path).Msg("Could not move corrupt playlist file aside")
		return fmt.Errorf("%w: %s: %w", errors.ErrStoreCorrupt, s.path, cause)
	}

	s.backup = backup
	log.Warn().Str("path", s.path).Str("backup", backup).Msg("Moved corrupt playlist file aside")
	return errors.WithSuggestion(
		fmt.Errorf("%w: %s: %w", errors.ErrStoreCorrupt, s.path, cause),
		"The unreadable file was kept as "+backup)
}

func (s *Store) writeAtomic(data []byte) error {
	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".playlists-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write playlist file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write playlist file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace playlist file: %w", err)
	}
	return nil
}

func (s *Store) remember(records []Record) {
	hash, err := hashstructure.Hash(records, hashstructure.FormatV2, nil)
	if err != nil {
		s.hashed = false
		return
	}
	s.lastHash = hash
	s.hashed = true
}

// Snapshot captures the saved form of every playlist in c: canonical order
// restricted to files that still exist, and the shuffle flag.
func Snapshot(c *playlist.Collection, exists func(string) bool) []Record {
	records := make([]Record, 0, c.Len())
	for _, p := range c.Playlists() {
		present := lo.Filter(p.Canonical(), func(t *core.Track, _ int) bool {
			return exists(t.Path())
		})
		if dropped := p.Len() - len(present); dropped > 0 {
			log.Info().
				Str("playlist", p.Name()).
				Int("count", dropped).
				Msg("Leaving missing files out of saved playlist")
		}
		records = append(records, Record{
			Name: p.Name(),
			Paths: lo.Map(present, func(t *core.Track, _ int) string {
				return t.Path()
			}),
			Shuffled: p.Shuffled(),
		})
	}
	return records
}

// Restore rebuilds playlists from records and adds them to c. Paths that no
// longer exist are skipped. A shuffled playlist with more than one track
// gets a new random order.
func Restore(c *playlist.Collection, records []Record, newTrack TrackFactory, exists func(string) bool) {
	for _, r := range records {
		p := c.NewPlaylist(r.Name)
		for _, path := range r.Paths {
			if !exists(path) {
				log.Info().
					Str("playlist", r.Name).
					Str("path", path).
					Msg("Skipping missing file")
				continue
			}
			p.AddTrack(newTrack(path))
		}
		if r.Shuffled && p.Len() > 1 {
			p.EnterShuffle()
		}
		if err := c.Add(p); err != nil {
			log.Warn().Err(err).Msg("Skipping duplicate playlist")
		}
	}
}
