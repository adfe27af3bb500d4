// Package watch drives headless playback and reports what happens to it.
package watch

import (
	"context"
	"time"

	"github.com/tessro/crate/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventPause
	EventResume
	EventVolumeChange
	EventShuffleChange
	EventStopped
	EventFileRemoved
	EventError
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
	Path      string
	Err       error
}

// Source is what Autoplay drives. *session.Session implements it.
type Source interface {
	Poll() (*core.Track, error)
	State() core.PlaybackState
}

// DefaultInterval is how often Autoplay checks for a finished track.
const DefaultInterval = 200 * time.Millisecond

// Autoplay polls a Source so the next track starts when the current one
// ends, and emits an event for every observed change. While running it is
// the only goroutine that may touch the Source.
type Autoplay struct {
	source   Source
	interval time.Duration
	events   chan Event
	done     chan struct{}
	now      func() time.Time
}

// NewAutoplay creates a new autoplay loop.
func NewAutoplay(source Source, interval time.Duration) *Autoplay {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Autoplay{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Events returns the channel of playback events. It is closed when Start
// returns.
func (a *Autoplay) Events() <-chan Event {
	return a.events
}

// Start polls until ctx is cancelled, Stop is called or playback stops.
func (a *Autoplay) Start(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	defer close(a.events)

	prev := a.source.State()
	if prev.HasTrack() {
		initial := prev
		a.emit(Event{Type: EventTrackChange, Timestamp: a.now(), Current: &initial})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.done:
			return nil
		case <-ticker.C:
			_, err := a.source.Poll()
			if err != nil {
				a.emit(Event{Type: EventError, Timestamp: a.now(), Err: err})
			}

			curr := a.source.State()
			for _, e := range diffStates(prev, curr, a.now()) {
				a.emit(e)
			}
			prev = curr

			if curr.Status == core.StatusStopped {
				return nil
			}
		}
	}
}

// Stop stops the loop.
func (a *Autoplay) Stop() {
	close(a.done)
}

func (a *Autoplay) emit(e Event) {
	select {
	case a.events <- e:
	default:
		// Drop event if channel is full
	}
}

// diffStates compares two states and returns detected events.
func diffStates(prev, curr core.PlaybackState, now time.Time) []Event {
	var events []Event
	event := func(t EventType) {
		events = append(events, Event{
			Type:      t,
			Timestamp: now,
			Previous:  &prev,
			Current:   &curr,
		})
	}

	if prev.Track != curr.Track && curr.HasTrack() {
		if prev.HasTrack() {
			event(EventTrackComplete)
		}
		event(EventTrackChange)
	}

	switch {
	case prev.Status == core.StatusPlaying && curr.Status == core.StatusPaused:
		event(EventPause)
	case prev.Status == core.StatusPaused && curr.Status == core.StatusPlaying:
		event(EventResume)
	case prev.Status != core.StatusStopped && curr.Status == core.StatusStopped:
		event(EventStopped)
	}

	if prev.VolumePercent() != curr.VolumePercent() {
		event(EventVolumeChange)
	}

	if prev.Shuffled != curr.Shuffled {
		event(EventShuffleChange)
	}

	return events
}
