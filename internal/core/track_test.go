package core

import (
	"errors"
	"testing"
	"time"
)

type stubProber struct {
	d     time.Duration
	err   error
	panic bool
}

func (p stubProber) Probe(path string) (time.Duration, error) {
	if p.panic {
		panic("corrupt frame")
	}
	return p.d, p.err
}

func TestNewTrack(t *testing.T) {
	track := NewTrack("/music/Road Trip/Bohemian Rhapsody.mp3", stubProber{d: 354 * time.Second})

	if track.Path() != "/music/Road Trip/Bohemian Rhapsody.mp3" {
		t.Errorf("Path = %q", track.Path())
	}
	if track.Title() != "Bohemian Rhapsody" {
		t.Errorf("Title = %q, want %q", track.Title(), "Bohemian Rhapsody")
	}
	if track.Artist() != UnknownArtist {
		t.Errorf("Artist = %q, want %q", track.Artist(), UnknownArtist)
	}
	if track.Album() != UnknownAlbum {
		t.Errorf("Album = %q, want %q", track.Album(), UnknownAlbum)
	}
	if track.Duration() != 354*time.Second {
		t.Errorf("Duration = %v, want %v", track.Duration(), 354*time.Second)
	}
}

func TestNewTrackDurationFallback(t *testing.T) {
	tests := []struct {
		name   string
		prober DurationProber
	}{
		{"nil prober", nil},
		{"probe error", stubProber{err: errors.New("bad header")}},
		{"zero duration", stubProber{d: 0}},
		{"negative duration", stubProber{d: -time.Second}},
		{"probe panics", stubProber{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := NewTrack("/music/a.ogg", tt.prober)
			if track.Duration() != DefaultDuration {
				t.Errorf("Duration = %v, want %v", track.Duration(), DefaultDuration)
			}
		})
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := map[string]string{
		"/a/b/song.mp3":        "song",
		"song.flac":            "song",
		"/a/b/my.song.v2.wav":  "my.song.v2",
		"/a/b/no_extension":    "no_extension",
	}
	for path, want := range tests {
		if got := TitleFromPath(path); got != want {
			t.Errorf("TitleFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	tests := map[string]bool{
		"a.mp3":  true,
		"a.MP3":  true,
		"a.wav":  true,
		"a.ogg":  true,
		"a.flac": true,
		"a.m4a":  false,
		"a":      false,
	}
	for path, want := range tests {
		if got := IsSupported(path); got != want {
			t.Errorf("IsSupported(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestPlaybackStateVolumePercent(t *testing.T) {
	var nilState *PlaybackState
	if nilState.VolumePercent() != 0 {
		t.Error("VolumePercent on nil state should be 0")
	}
	s := &PlaybackState{Volume: 0.5}
	if s.VolumePercent() != 50 {
		t.Errorf("VolumePercent = %d, want 50", s.VolumePercent())
	}
}
