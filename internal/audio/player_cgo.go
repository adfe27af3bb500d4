//go:build (linux && cgo) || windows || darwin

package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/tessro/crate/internal/probe"
)

// Available indicates whether audio output is supported in this build.
const Available = true

var errNothingLoaded = errors.New("no track loaded")

// Player plays local audio files through the system speaker using beep.
type Player struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
	level       float64

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	// busy is cleared from the speaker goroutine when a track ends; gen
	// lets that callback ignore tracks that were replaced or stopped.
	busy atomic.Bool
	gen  atomic.Uint64
}

// New creates a new audio player.
func New() *Player {
	return &Player{
		sampleRate: beep.SampleRate(44100),
		level:      1,
	}
}

// Load opens and decodes the file at path, replacing any loaded track.
func (p *Player) Load(path string) error {
	decode, err := probe.Decoder(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	streamer, format, err := decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	p.file = f
	p.streamer = streamer
	p.format = format
	return nil
}

// Play starts the loaded track from the beginning.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return errNothingLoaded
	}

	if !p.initialized {
		if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("failed to open audio device: %w", err)
		}
		p.initialized = true
	}

	speaker.Clear()
	if err := p.streamer.Seek(0); err != nil {
		return err
	}

	resampled := beep.Resample(4, p.format.SampleRate, p.sampleRate, p.streamer)
	p.ctrl = &beep.Ctrl{Streamer: resampled}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	applyLevel(p.volume, p.level)

	gen := p.gen.Add(1)
	p.busy.Store(true)
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		if p.gen.Load() == gen {
			p.busy.Store(false)
		}
	})))
	return nil
}

// Pause halts output without losing the position.
func (p *Player) Pause() error {
	return p.setPaused(true)
}

// Unpause resumes paused output.
func (p *Player) Unpause() error {
	return p.setPaused(false)
}

func (p *Player) setPaused(paused bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return errNothingLoaded
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

// Stop ends playback and unloads the track.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

// stopLocked stops playback (must be called with lock held).
func (p *Player) stopLocked() {
	p.gen.Add(1)
	p.busy.Store(false)
	if p.initialized {
		speaker.Clear()
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.volume = nil
}

// SetVolume sets the output level, 0.0 (silent) to 1.0 (unchanged).
func (p *Player) SetVolume(level float64) error {
	if level < 0 || level > 1 {
		return fmt.Errorf("volume %.2f out of range [0,1]", level)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.level = level
	if p.volume != nil {
		speaker.Lock()
		applyLevel(p.volume, level)
		speaker.Unlock()
	}
	return nil
}

// IsBusy reports whether a track is playing or paused.
func (p *Player) IsBusy() bool {
	return p.busy.Load()
}

// Close stops playback and releases the audio device.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	return nil
}

// applyLevel maps a linear level onto beep's exponential volume.
func applyLevel(v *effects.Volume, level float64) {
	v.Silent = level <= 0
	if level > 0 {
		v.Volume = math.Log2(level)
	}
}
