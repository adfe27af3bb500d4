package core

// Player is the audio playback backend. Implementations decode and output
// sound; callers only command them.
type Player interface {
	// Playback control
	Load(path string) error
	Play() error
	Pause() error
	Unpause() error
	Stop() error

	// Volume control, 0.0 to 1.0
	SetVolume(volume float64) error

	// IsBusy reports whether a loaded track is still producing sound.
	// A paused track counts as busy.
	IsBusy() bool

	Close() error
}
