package core

// PlaybackStatus is the coarse state of the audio output.
type PlaybackStatus string

const (
	StatusStopped PlaybackStatus = "stopped"
	StatusPlaying PlaybackStatus = "playing"
	StatusPaused  PlaybackStatus = "paused"
)

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Track    *Track         `json:"-"`
	Playlist string         `json:"playlist"`
	Status   PlaybackStatus `json:"status"`
	Shuffled bool           `json:"shuffled"`
	Volume   float64        `json:"volume"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// IsPlaying returns true while audio is being produced.
func (s *PlaybackState) IsPlaying() bool {
	return s != nil && s.Status == StatusPlaying
}

// VolumePercent returns the volume as an integer percentage (0-100).
func (s *PlaybackState) VolumePercent() int {
	if s == nil {
		return 0
	}
	return int(s.Volume*100 + 0.5)
}
