package playlist_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/playlist"
)

func seeded(seed uint64) playlist.Option {
	return playlist.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func newPlaylist(t *testing.T, titles ...string) *playlist.Playlist {
	t.Helper()
	p := playlist.New("test", seeded(42))
	for _, title := range titles {
		p.AddTrack(core.NewTrack("/music/"+title+".mp3", nil))
	}
	require.NoError(t, p.CheckInvariants())
	return p
}

func titlesOf(tracks []*core.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Title()
	}
	return out
}

func TestNewPlaylistIsEmpty(t *testing.T) {
	p := playlist.New("empty")

	assert.Equal(t, "empty", p.Name())
	assert.True(t, p.IsEmpty())
	assert.Equal(t, playlist.NoCursor, p.Cursor())
	assert.Nil(t, p.Current())
	assert.Equal(t, playlist.ModeQueue, p.Mode())
	assert.Empty(t, p.Titles())
	assert.NoError(t, p.CheckInvariants())
}

func TestAddTrack(t *testing.T) {
	p := playlist.New("p")
	p.AddTrack(core.NewTrack("/m/A.mp3", nil))

	assert.Equal(t, 0, p.Cursor(), "first add sets the cursor")
	assert.Equal(t, "A", p.Current().Title())

	p.AddTrack(core.NewTrack("/m/B.mp3", nil))
	assert.Equal(t, 0, p.Cursor(), "later adds keep the cursor")
	assert.Equal(t, []string{"A", "B"}, p.Titles())

	p.AddTrack(nil)
	assert.Equal(t, 2, p.Len())
	assert.NoError(t, p.CheckInvariants())
}

func TestAddTrackWhileShuffled(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C")
	p.EnterShuffle()
	p.Advance()
	played := p.SessionPlayed()

	p.AddTrack(core.NewTrack("/m/D.mp3", nil))

	assert.True(t, p.Shuffled())
	assert.Equal(t, played, p.SessionPlayed(), "adding must not disturb the shuffle session")
	assert.Equal(t, []string{"A", "B", "C", "D"}, titlesOf(p.Canonical()))
	assert.NoError(t, p.CheckInvariants())
}

func TestQueueAdvanceScenario(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C")
	require.Equal(t, "A", p.Current().Title())

	assert.Equal(t, "B", p.Advance().Title())
	assert.Equal(t, "C", p.Advance().Title())
	assert.Equal(t, "A", p.Advance().Title(), "advance wraps to the start")

	require.True(t, p.MoveTrack("C", playlist.Up))
	assert.Equal(t, []string{"A", "C", "B"}, p.Titles())
	assert.Equal(t, "A", p.Current().Title())
	assert.NoError(t, p.CheckInvariants())
}

func TestQueueAdvanceIsCyclic(t *testing.T) {
	for n := 1; n <= 6; n++ {
		titles := make([]string, n)
		for i := range titles {
			titles[i] = string(rune('A' + i))
		}
		p := newPlaylist(t, titles...)

		var first []string
		for i := 0; i < n; i++ {
			first = append(first, p.Advance().Title())
		}
		assert.ElementsMatch(t, titles, first, "n=%d: every track exactly once", n)

		for i := 0; i < n; i++ {
			assert.Equal(t, first[i], p.Advance().Title(), "n=%d: period equals length", n)
		}
	}
}

func TestRetreatQueue(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C")

	assert.Equal(t, "C", p.Retreat().Title(), "retreat wraps to the end")
	assert.Equal(t, "B", p.Retreat().Title())
	assert.Equal(t, "A", p.Retreat().Title())
	assert.Equal(t, 0, p.Cursor())
}

func TestEmptyTraversal(t *testing.T) {
	p := playlist.New("empty")

	assert.Nil(t, p.Advance())
	assert.Nil(t, p.Retreat())
	assert.Equal(t, playlist.NoCursor, p.Cursor())

	p.EnterShuffle()
	assert.Nil(t, p.Advance())
	assert.Nil(t, p.Retreat())
	assert.Equal(t, playlist.NoCursor, p.Cursor())
	assert.NoError(t, p.CheckInvariants())
}

func TestRemoveTrack(t *testing.T) {
	tests := []struct {
		name       string
		cursorOn   string
		remove     string
		wantOK     bool
		wantTitles []string
		wantCursor string
	}{
		{"unknown title", "B", "Z", false, []string{"A", "B", "C"}, "B"},
		{"before cursor", "B", "A", true, []string{"B", "C"}, "B"},
		{"after cursor", "B", "C", true, []string{"A", "B"}, "B"},
		{"at cursor moves to next", "B", "B", true, []string{"A", "C"}, "C"},
		{"at cursor on tail wraps to head", "C", "C", true, []string{"A", "B"}, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlaylist(t, "A", "B", "C")
			require.True(t, p.Select(tt.cursorOn))

			assert.Equal(t, tt.wantOK, p.RemoveTrack(tt.remove))
			assert.Equal(t, tt.wantTitles, p.Titles())
			assert.Equal(t, tt.wantTitles, titlesOf(p.Canonical()))
			assert.Equal(t, tt.wantCursor, p.Current().Title())
			assert.NoError(t, p.CheckInvariants())
		})
	}
}

func TestRemoveLastTrack(t *testing.T) {
	p := newPlaylist(t, "A")

	require.True(t, p.RemoveTrack("A"))
	assert.True(t, p.IsEmpty())
	assert.Equal(t, playlist.NoCursor, p.Cursor())
	assert.Nil(t, p.Current())
	assert.NoError(t, p.CheckInvariants())
}

func TestRemoveFirstMatchOnly(t *testing.T) {
	p := playlist.New("dupes")
	first := core.NewTrack("/rock/Intro.mp3", nil)
	second := core.NewTrack("/jazz/Intro.mp3", nil)
	p.AddTrack(first)
	p.AddTrack(second)

	require.True(t, p.RemoveTrack("Intro"))
	require.Equal(t, 1, p.Len())
	assert.Same(t, second, p.Current())
}

func TestRemoveThenAddAppends(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C")
	b := p.Canonical()[1]

	require.True(t, p.RemoveTrack("B"))
	p.AddTrack(core.NewTrack(b.Path(), nil))

	assert.Equal(t, []string{"A", "C", "B"}, titlesOf(p.Canonical()))
}

func TestRemoveWhileShuffled(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C", "D")
	p.EnterShuffle()
	for i := 0; i < 3; i++ {
		p.Advance()
	}
	current := p.Current()

	var victim string
	for _, title := range p.Titles() {
		if title != current.Title() {
			victim = title
			break
		}
	}
	require.True(t, p.RemoveTrack(victim))

	assert.Same(t, current, p.Current(), "removing another track keeps the current one")
	assert.NotContains(t, p.Titles(), victim)
	assert.LessOrEqual(t, p.SessionPlayed(), p.Len())
	assert.NoError(t, p.CheckInvariants())
}

func TestMoveTrack(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		dir    playlist.Direction
		wantOK bool
		want   []string
	}{
		{"up", "B", playlist.Up, true, []string{"B", "A", "C"}},
		{"down", "B", playlist.Down, true, []string{"A", "C", "B"}},
		{"top boundary", "A", playlist.Up, false, []string{"A", "B", "C"}},
		{"bottom boundary", "C", playlist.Down, false, []string{"A", "B", "C"}},
		{"unknown", "Z", playlist.Up, false, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlaylist(t, "A", "B", "C")
			require.True(t, p.Select("B"))

			assert.Equal(t, tt.wantOK, p.MoveTrack(tt.title, tt.dir))
			assert.Equal(t, tt.want, p.Titles())
			assert.Equal(t, tt.want, titlesOf(p.Canonical()))
			assert.Equal(t, "B", p.Current().Title(), "cursor follows the current track")
			assert.NoError(t, p.CheckInvariants())
		})
	}
}

func TestMoveTrackSingleTrack(t *testing.T) {
	p := newPlaylist(t, "A")
	assert.False(t, p.MoveTrack("A", playlist.Down))
}

func TestMoveTrackRejectedWhileShuffled(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		p := playlist.New("p", seeded(seed))
		for _, title := range []string{"A", "B", "C", "D"} {
			p.AddTrack(core.NewTrack("/m/"+title+".mp3", nil))
		}
		p.EnterShuffle()
		before := p.Titles()
		canonical := titlesOf(p.Canonical())

		for _, title := range canonical {
			assert.False(t, p.MoveTrack(title, playlist.Up))
			assert.False(t, p.MoveTrack(title, playlist.Down))
		}
		assert.Equal(t, before, p.Titles())
		assert.Equal(t, canonical, titlesOf(p.Canonical()))
	}
}

func TestShuffleNoRepeatsWithinSession(t *testing.T) {
	titles := []string{"A", "B", "C", "D", "E", "F", "G"}
	for seed := uint64(0); seed < 25; seed++ {
		p := playlist.New("p", seeded(seed))
		for _, title := range titles {
			p.AddTrack(core.NewTrack("/m/"+title+".mp3", nil))
		}
		p.EnterShuffle()

		for session := 0; session < 3; session++ {
			seen := make(map[*core.Track]bool)
			for i := 0; i < len(titles); i++ {
				track := p.Advance()
				require.NotNil(t, track)
				assert.False(t, seen[track], "seed %d: %s repeated within a session", seed, track)
				seen[track] = true
				assert.Same(t, track, p.Current())
				require.NoError(t, p.CheckInvariants())
			}
			assert.Len(t, seen, len(titles))
			assert.Equal(t, len(titles), p.SessionPlayed())
		}
	}
}

func TestShuffleSessionResets(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C")
	p.EnterShuffle()

	for i := 0; i < 3; i++ {
		p.Advance()
	}
	require.Equal(t, 3, p.SessionPlayed())

	p.Advance()
	assert.Equal(t, 1, p.SessionPlayed(), "an exhausted session starts over")
}

func TestShuffleRetreatAdvances(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C")
	p.EnterShuffle()

	seen := make(map[*core.Track]bool)
	for i := 0; i < 3; i++ {
		track := p.Retreat()
		require.NotNil(t, track)
		assert.False(t, seen[track])
		seen[track] = true
	}
	assert.Equal(t, 3, p.SessionPlayed())
}

func TestEnterShuffleKeepsCurrentTrack(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C", "D", "E")
	require.True(t, p.Select("C"))
	current := p.Current()

	p.EnterShuffle()
	assert.True(t, p.Shuffled())
	assert.Same(t, current, p.Current())
	assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E"}, p.Titles())
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, titlesOf(p.Canonical()))
	assert.Zero(t, p.SessionPlayed())
	assert.NoError(t, p.CheckInvariants())
}

func TestEnterQueueRestoresOrder(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C", "D", "E")
	p.EnterShuffle()
	p.Advance()
	p.Advance()
	current := p.Current()

	p.EnterQueue()
	assert.False(t, p.Shuffled())
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, p.Titles())
	assert.Same(t, current, p.Current())
	assert.Zero(t, p.SessionPlayed())
	assert.NoError(t, p.CheckInvariants())
}

func TestEnterShuffleClearsHistory(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C")
	p.EnterShuffle()
	p.Advance()
	p.Advance()

	p.EnterShuffle()
	assert.Zero(t, p.SessionPlayed())
}

func TestSelect(t *testing.T) {
	p := newPlaylist(t, "A", "B", "C")
	p.EnterShuffle()

	require.True(t, p.Select("B"))
	assert.Equal(t, "B", p.Current().Title())
	assert.False(t, p.Select("nope"))
	assert.Equal(t, "B", p.Current().Title())
}

func TestParseDirection(t *testing.T) {
	d, err := playlist.ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, playlist.Down, d)
	assert.Equal(t, "down", d.String())

	_, err = playlist.ParseDirection("sideways")
	assert.Error(t, err)
}
