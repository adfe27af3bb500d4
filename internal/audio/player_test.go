package audio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/crate/internal/core"
)

var _ core.Player = (*Player)(nil)

func TestPlayerWithoutTrack(t *testing.T) {
	p := New()
	defer p.Close()

	assert.False(t, p.IsBusy())
	assert.Error(t, p.Play())
	assert.Error(t, p.Pause())
	assert.Error(t, p.Unpause())
	assert.NoError(t, p.Stop())
}

func TestPlayerLoadRejectsUnknownFiles(t *testing.T) {
	p := New()
	defer p.Close()

	dir := t.TempDir()
	assert.Error(t, p.Load(filepath.Join(dir, "notes.txt")))
	assert.Error(t, p.Load(filepath.Join(dir, "missing.mp3")))
	assert.False(t, p.IsBusy())
}

func TestPlayerSetVolume(t *testing.T) {
	p := New()
	defer p.Close()

	tests := []struct {
		level   float64
		wantErr bool
	}{
		{0, false},
		{0.5, false},
		{1, false},
		{-0.1, true},
		{1.5, true},
	}

	for _, tt := range tests {
		err := p.SetVolume(tt.level)
		if tt.wantErr {
			require.Error(t, err, "level %v", tt.level)
		} else {
			require.NoError(t, err, "level %v", tt.level)
		}
	}
}
