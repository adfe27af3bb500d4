package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/crate/internal/session"
	"github.com/tessro/crate/internal/store"
)

type quietPlayer struct{}

func (quietPlayer) Load(string) error       { return nil }
func (quietPlayer) Play() error             { return nil }
func (quietPlayer) Pause() error            { return nil }
func (quietPlayer) Unpause() error          { return nil }
func (quietPlayer) Stop() error             { return nil }
func (quietPlayer) SetVolume(float64) error { return nil }
func (quietPlayer) IsBusy() bool            { return false }
func (quietPlayer) Close() error            { return nil }

func openTestSession(t *testing.T, path string) *session.Session {
	t.Helper()
	st, err := store.New(path)
	require.NoError(t, err)
	s := session.New(st, quietPlayer{})
	require.NoError(t, s.Load())
	return s
}

func TestShuffleForRunKeepsSavedMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlists.json")
	var tracks []string
	for _, title := range []string{"A", "B", "C"} {
		p := filepath.Join(dir, title+".mp3")
		require.NoError(t, os.WriteFile(p, nil, 0644))
		tracks = append(tracks, p)
	}

	s := openTestSession(t, path)
	p, err := s.CreatePlaylist("mix")
	require.NoError(t, err)
	_, err = s.AddFiles(tracks)
	require.NoError(t, err)

	restore, err := shuffleForRun(s, p)
	require.NoError(t, err)
	assert.True(t, p.Shuffled())

	require.NoError(t, restore())
	require.NoError(t, s.Save())
	assert.False(t, p.Shuffled())

	reloaded := openTestSession(t, path)
	require.NotNil(t, reloaded.Selected())
	assert.False(t, reloaded.Selected().Shuffled(), "--shuffle must not change the saved play order")
	assert.Equal(t, []string{"A", "B", "C"}, reloaded.Selected().Titles())
}

func TestShuffleForRunLeavesShuffledPlaylist(t *testing.T) {
	s := session.New(nil, quietPlayer{})
	p, err := s.CreatePlaylist("mix")
	require.NoError(t, err)
	require.NoError(t, s.SetShuffle(true))

	restore, err := shuffleForRun(s, p)
	require.NoError(t, err)
	require.NoError(t, restore())
	assert.True(t, p.Shuffled())
}
