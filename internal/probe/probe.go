// Package probe measures the playing time of audio files by reading their
// headers with the beep decoders.
package probe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// DecodeFunc opens an encoded stream.
type DecodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

// Decoders maps lower-case file extensions to their decoder.
var Decoders = map[string]DecodeFunc{
	".mp3": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
		return mp3.Decode(f)
	},
	".wav": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
		return wav.Decode(f)
	},
	".ogg": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
		return vorbis.Decode(f)
	},
	".flac": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
		return flac.Decode(f)
	},
}

// Decoder returns the decoder for path's extension.
func Decoder(path string) (DecodeFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := Decoders[ext]
	if !ok {
		return nil, fmt.Errorf("no decoder for %q", ext)
	}
	return decode, nil
}

// Prober implements core.DurationProber.
type Prober struct{}

// New creates a Prober.
func New() *Prober {
	return &Prober{}
}

// Probe returns the length of the audio file at path.
func (p *Prober) Probe(path string) (time.Duration, error) {
	decode, err := Decoder(path)
	if err != nil {
		return 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	streamer, format, err := decode(f)
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	return Length(streamer, format)
}

// Length converts a stream's sample count to a duration.
func Length(s beep.StreamSeeker, format beep.Format) (time.Duration, error) {
	if format.SampleRate <= 0 {
		return 0, fmt.Errorf("invalid sample rate %d", format.SampleRate)
	}
	n := s.Len()
	if n <= 0 {
		return 0, io.ErrUnexpectedEOF
	}
	return format.SampleRate.D(n), nil
}
