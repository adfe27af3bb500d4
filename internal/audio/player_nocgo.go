//go:build !((linux && cgo) || windows || darwin)

package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tessro/crate/internal/probe"
)

// Available indicates whether audio output is supported in this build.
// Audio requires CGO for native sound libraries.
const Available = false

var errNothingLoaded = errors.New("no track loaded")

// Player is a silent stand-in for builds without cgo. It keeps time as if
// the loaded track were playing so autoplay still advances.
type Player struct {
	mu sync.Mutex

	now      func() time.Time
	length   time.Duration
	loaded   bool
	started  time.Time
	paused   bool
	pausedAt time.Time
	playing  bool
}

// New creates a new silent player.
func New() *Player {
	return &Player{now: time.Now}
}

// Load probes the file's length.
func (p *Player) Load(path string) error {
	d, err := probe.New().Probe(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.length = d
	p.loaded = true
	p.playing = false
	p.paused = false
	return nil
}

// Play starts the silent clock.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return errNothingLoaded
	}
	p.started = p.now()
	p.playing = true
	p.paused = false
	return nil
}

// Pause stops the clock.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return errNothingLoaded
	}
	if !p.paused {
		p.paused = true
		p.pausedAt = p.now()
	}
	return nil
}

// Unpause restarts the clock.
func (p *Player) Unpause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return errNothingLoaded
	}
	if p.paused {
		p.started = p.started.Add(p.now().Sub(p.pausedAt))
		p.paused = false
	}
	return nil
}

// Stop unloads the track.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	p.playing = false
	p.paused = false
	return nil
}

// SetVolume validates the level; there is nothing to attenuate.
func (p *Player) SetVolume(level float64) error {
	if level < 0 || level > 1 {
		return fmt.Errorf("volume %.2f out of range [0,1]", level)
	}
	return nil
}

// IsBusy reports whether the loaded track's length has not yet elapsed.
func (p *Player) IsBusy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return false
	}
	if p.paused {
		return true
	}
	return p.now().Sub(p.started) < p.length
}

// Close is a no-op when cgo is disabled.
func (p *Player) Close() error {
	return nil
}
