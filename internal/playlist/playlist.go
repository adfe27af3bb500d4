// Package playlist implements the ordered track collection behind every
// playlist: manual reordering, queue and shuffle traversal, and the cursor
// that tracks the current song.
//
// A Playlist is not safe for concurrent use. All calls must come from the
// goroutine that owns it.
package playlist

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/tessro/crate/internal/core"
)

// NoCursor is the cursor value of an empty playlist.
const NoCursor = -1

// Direction is the way MoveTrack shifts a track in canonical order.
type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection converts "up" or "down" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return Up, fmt.Errorf("invalid direction %q (must be up or down)", s)
	}
}

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Option configures a Playlist.
type Option func(*Playlist)

// WithRand sets the random source used for shuffling and shuffle picks.
func WithRand(r *rand.Rand) Option {
	return func(p *Playlist) {
		if r != nil {
			p.rng = r
		}
	}
}

// Playlist holds tracks in two orders. canonical is the user-curated
// sequence; active is the sequence traversal steps through. In queue mode
// active is a copy of canonical, in shuffle mode a permutation of it.
type Playlist struct {
	name      string
	canonical []*core.Track
	active    []*core.Track
	cursor    int
	mode      Mode
	history   map[*core.Track]struct{}
	rng       *rand.Rand
}

// New creates an empty playlist in queue mode.
func New(name string, opts ...Option) *Playlist {
	p := &Playlist{
		name:    name,
		cursor:  NoCursor,
		mode:    ModeQueue,
		history: make(map[*core.Track]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p
}

// Name returns the playlist name.
func (p *Playlist) Name() string {
	return p.name
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.canonical)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return len(p.canonical) == 0
}

// Cursor returns the index of the current track in active order, or
// NoCursor when the playlist is empty.
func (p *Playlist) Cursor() int {
	return p.cursor
}

// Current returns the track under the cursor, or nil if the playlist is empty.
func (p *Playlist) Current() *core.Track {
	if p.cursor < 0 || p.cursor >= len(p.active) {
		return nil
	}
	return p.active[p.cursor]
}

// Tracks returns a copy of the active order.
func (p *Playlist) Tracks() []*core.Track {
	out := make([]*core.Track, len(p.active))
	copy(out, p.active)
	return out
}

// Canonical returns a copy of the canonical order.
func (p *Playlist) Canonical() []*core.Track {
	out := make([]*core.Track, len(p.canonical))
	copy(out, p.canonical)
	return out
}

// Titles returns the titles of the active order, for display.
func (p *Playlist) Titles() []string {
	titles := make([]string, len(p.active))
	for i, t := range p.active {
		titles[i] = t.Title()
	}
	return titles
}

// AddTrack appends a track. The mode and shuffle session are unaffected.
func (p *Playlist) AddTrack(track *core.Track) {
	if track == nil {
		return
	}
	p.canonical = append(p.canonical, track)
	p.active = append(p.active, track)
	if p.cursor == NoCursor {
		p.cursor = 0
	}
}

// RemoveTrack removes the first track in canonical order whose title
// matches. It returns false if there is none.
func (p *Playlist) RemoveTrack(title string) bool {
	ci := p.findCanonical(title)
	if ci < 0 {
		return false
	}
	track := p.canonical[ci]
	p.canonical = removeAt(p.canonical, ci)
	delete(p.history, track)

	ai := indexOf(p.active, track)
	if ai >= 0 {
		p.active = removeAt(p.active, ai)
	}

	switch {
	case len(p.active) == 0:
		p.cursor = NoCursor
	case ai >= 0 && ai < p.cursor:
		p.cursor--
	case p.cursor >= len(p.active):
		p.cursor = 0
	}
	return true
}

// MoveTrack swaps the first track matching title with its neighbour in
// canonical order. It fails while shuffled, when there is nothing to move
// past, when the title is unknown, or when the track is already at the
// boundary.
func (p *Playlist) MoveTrack(title string, dir Direction) bool {
	if p.mode == ModeShuffle || len(p.canonical) <= 1 {
		return false
	}
	i := p.findCanonical(title)
	if i < 0 {
		return false
	}

	j := i - 1
	if dir == Down {
		j = i + 1
	}
	if j < 0 || j >= len(p.canonical) {
		return false
	}

	p.canonical[i], p.canonical[j] = p.canonical[j], p.canonical[i]
	p.rebuildActiveFromCanonical()
	return true
}

// Select moves the cursor to the first track in canonical order whose
// title matches.
func (p *Playlist) Select(title string) bool {
	i := p.findCanonical(title)
	if i < 0 {
		return false
	}
	if ai := indexOf(p.active, p.canonical[i]); ai >= 0 {
		p.cursor = ai
		return true
	}
	return false
}

// CheckInvariants verifies the structural relationships between the two
// orders, the cursor and the shuffle history.
func (p *Playlist) CheckInvariants() error {
	if len(p.active) != len(p.canonical) {
		return fmt.Errorf("active has %d tracks, canonical has %d", len(p.active), len(p.canonical))
	}

	counts := make(map[*core.Track]int, len(p.canonical))
	for _, t := range p.canonical {
		counts[t]++
	}
	for _, t := range p.active {
		counts[t]--
	}
	for t, n := range counts {
		if n != 0 {
			return fmt.Errorf("track %s differs between active and canonical order", t)
		}
	}

	if len(p.active) == 0 {
		if p.cursor != NoCursor {
			return fmt.Errorf("empty playlist has cursor %d", p.cursor)
		}
	} else if p.cursor < 0 || p.cursor >= len(p.active) {
		return fmt.Errorf("cursor %d out of range [0,%d)", p.cursor, len(p.active))
	}

	if p.mode == ModeQueue {
		for i := range p.canonical {
			if p.active[i] != p.canonical[i] {
				return errors.New("queue mode active order differs from canonical order")
			}
		}
	}

	if len(p.history) > len(p.canonical) {
		return fmt.Errorf("shuffle history has %d tracks, playlist has %d", len(p.history), len(p.canonical))
	}
	for t := range p.history {
		if _, ok := counts[t]; !ok {
			return fmt.Errorf("shuffle history holds removed track %s", t)
		}
	}
	return nil
}

// rebuildActiveFromCanonical resets active to canonical order and keeps the
// cursor on the track that was current, located by title.
func (p *Playlist) rebuildActiveFromCanonical() {
	current := p.Current()
	p.active = append(p.active[:0:0], p.canonical...)
	p.relocateCursor(current, func(t *core.Track) bool {
		return current != nil && t.Title() == current.Title()
	})
}

// shuffleActiveFromCanonical replaces active with a uniform random
// permutation of canonical and keeps the cursor on the current track.
func (p *Playlist) shuffleActiveFromCanonical() {
	current := p.Current()
	p.active = append(p.active[:0:0], p.canonical...)
	p.rng.Shuffle(len(p.active), func(i, j int) {
		p.active[i], p.active[j] = p.active[j], p.active[i]
	})
	p.relocateCursor(current, func(t *core.Track) bool {
		return t == current
	})
}

func (p *Playlist) relocateCursor(current *core.Track, match func(*core.Track) bool) {
	if len(p.active) == 0 {
		p.cursor = NoCursor
		return
	}
	p.cursor = 0
	if current == nil {
		return
	}
	for i, t := range p.active {
		if match(t) {
			p.cursor = i
			return
		}
	}
}

// findCanonical returns the index of the first canonical track with the
// given title. Titles are not unique; later duplicates are unreachable by
// title.
func (p *Playlist) findCanonical(title string) int {
	for i, t := range p.canonical {
		if t.Title() == title {
			return i
		}
	}
	return -1
}

func indexOf(tracks []*core.Track, track *core.Track) int {
	for i, t := range tracks {
		if t == track {
			return i
		}
	}
	return -1
}

func removeAt(tracks []*core.Track, i int) []*core.Track {
	copy(tracks[i:], tracks[i+1:])
	tracks[len(tracks)-1] = nil
	return tracks[:len(tracks)-1]
}
