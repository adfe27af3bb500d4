package playlist

import "github.com/tessro/crate/internal/core"

// Mode selects how Advance and Retreat pick the next track.
type Mode int

const (
	// ModeQueue steps through active order, wrapping at both ends.
	ModeQueue Mode = iota
	// ModeShuffle picks uniformly among tracks not yet played in the
	// current shuffle session.
	ModeShuffle
)

func (m Mode) String() string {
	if m == ModeShuffle {
		return "shuffle"
	}
	return "queue"
}

// Mode returns the traversal mode.
func (p *Playlist) Mode() Mode {
	return p.mode
}

// Shuffled returns true in shuffle mode.
func (p *Playlist) Shuffled() bool {
	return p.mode == ModeShuffle
}

// SessionPlayed returns how many tracks the current shuffle session has
// dispensed.
func (p *Playlist) SessionPlayed() int {
	return len(p.history)
}

// EnterShuffle switches to shuffle mode with a fresh random active order
// and an empty shuffle session. Calling it while already shuffled
// reshuffles.
func (p *Playlist) EnterShuffle() {
	p.mode = ModeShuffle
	p.shuffleActiveFromCanonical()
	p.resetHistory()
}

// EnterQueue switches to queue mode and restores canonical order.
func (p *Playlist) EnterQueue() {
	p.mode = ModeQueue
	current := p.Current()
	p.active = append(p.active[:0:0], p.canonical...)
	p.relocateCursor(current, func(t *core.Track) bool {
		return t == current
	})
	p.resetHistory()
}

// Advance moves to the next track and returns it, or returns nil if the
// playlist is empty.
func (p *Playlist) Advance() *core.Track {
	if len(p.active) == 0 {
		return nil
	}

	if p.mode == ModeShuffle {
		return p.advanceShuffle()
	}

	p.cursor = (p.cursor + 1) % len(p.active)
	return p.active[p.cursor]
}

// Retreat moves to the previous track in queue mode. Shuffle mode has no
// notion of a previous track, so Retreat behaves like Advance there.
func (p *Playlist) Retreat() *core.Track {
	if len(p.active) == 0 {
		return nil
	}

	if p.mode == ModeShuffle {
		return p.Advance()
	}

	p.cursor = (p.cursor - 1 + len(p.active)) % len(p.active)
	return p.active[p.cursor]
}

func (p *Playlist) advanceShuffle() *core.Track {
	if len(p.history) >= len(p.canonical) {
		p.resetHistory()
	}

	unplayed := make([]*core.Track, 0, len(p.canonical)-len(p.history))
	for _, t := range p.canonical {
		if _, played := p.history[t]; !played {
			unplayed = append(unplayed, t)
		}
	}
	if len(unplayed) == 0 {
		p.resetHistory()
		unplayed = append(unplayed, p.canonical...)
	}

	next := unplayed[p.rng.IntN(len(unplayed))]
	p.history[next] = struct{}{}
	if i := indexOf(p.active, next); i >= 0 {
		p.cursor = i
	}
	return next
}

func (p *Playlist) resetHistory() {
	clear(p.history)
}
