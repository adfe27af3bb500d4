package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Placeholder metadata until tag extraction exists.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// DefaultDuration is used whenever a file's length cannot be probed.
const DefaultDuration = 180 * time.Second

// SupportedExtensions lists the audio formats that can be added to a playlist.
var SupportedExtensions = []string{".mp3", ".wav", ".ogg", ".flac"}

// DurationProber reports the playing time of an audio file.
type DurationProber interface {
	Probe(path string) (time.Duration, error)
}

// Track represents a playable audio file. It is never modified after
// NewTrack returns; playlists share *Track values and compare them by
// pointer.
type Track struct {
	path     string
	title    string
	artist   string
	album    string
	duration time.Duration
}

// NewTrack builds a Track for the file at path. The title is the file name
// without its extension. prober may be nil; probe failures fall back to
// DefaultDuration.
func NewTrack(path string, prober DurationProber) *Track {
	return &Track{
		path:     path,
		title:    TitleFromPath(path),
		artist:   UnknownArtist,
		album:    UnknownAlbum,
		duration: probeDuration(path, prober),
	}
}

// TitleFromPath derives a display title from a file path.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsSupported reports whether path has one of the SupportedExtensions.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func probeDuration(path string, prober DurationProber) (d time.Duration) {
	if prober == nil {
		return DefaultDuration
	}

	// Decoders can panic on malformed input; a bad file must not fail the add.
	defer func() {
		if recover() != nil {
			d = DefaultDuration
		}
	}()

	d, err := prober.Probe(path)
	if err != nil || d <= 0 {
		return DefaultDuration
	}
	return d
}

// Path returns the file system path of the track.
func (t *Track) Path() string { return t.path }

// Title returns the display title.
func (t *Track) Title() string { return t.title }

// Artist returns the artist name.
func (t *Track) Artist() string { return t.artist }

// Album returns the album name.
func (t *Track) Album() string { return t.album }

// Duration returns the probed playing time.
func (t *Track) Duration() time.Duration { return t.duration }

// String implements fmt.Stringer.
func (t *Track) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.title
}
