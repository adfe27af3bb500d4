package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrTrackNotFound     = errors.New("track not found")
	ErrShuffleActive     = errors.New("cannot reorder tracks while shuffle is active")
	ErrMissingFile       = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrStoreCorrupt      = errors.New("playlist file is corrupt")
	ErrPlayback          = errors.New("playback error")
	ErrPlaylistExists    = errors.New("playlist already exists")
	ErrPlaylistNotFound  = errors.New("playlist not found")
	ErrNoPlaylist        = errors.New("no playlist selected")
	ErrInvalidName       = errors.New("invalid playlist name")
	ErrEmptyPlaylist     = errors.New("playlist is empty")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// CrateError wraps an error with a user-friendly suggestion.
type CrateError struct {
	Err        error
	Suggestion string
}

func (e *CrateError) Error() string {
	return e.Err.Error()
}

func (e *CrateError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &CrateError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var crateErr *CrateError
	if errors.As(err, &crateErr) && crateErr.Suggestion != "" {
		return crateErr.Suggestion
	}

	switch {
	case errors.Is(err, ErrNoPlaylist):
		return "Run 'crate playlist new <name>' or 'crate playlist select' first"
	case errors.Is(err, ErrPlaylistNotFound):
		return "Run 'crate playlist list' to see available playlists"
	case errors.Is(err, ErrPlaylistExists):
		return "Pick a different name or delete the existing playlist"
	case errors.Is(err, ErrTrackNotFound):
		return "Run 'crate playlist show' to see track titles"
	case errors.Is(err, ErrShuffleActive):
		return "Run 'crate order' to switch back to queue order, then move tracks"
	case errors.Is(err, ErrMissingFile):
		return "Check that the file still exists and the path is correct"
	case errors.Is(err, ErrUnsupportedFormat):
		return "Supported formats are .mp3, .wav, .ogg and .flac"
	case errors.Is(err, ErrStoreCorrupt):
		return "Starting with an empty library; the next save overwrites the broken file"
	case errors.Is(err, ErrEmptyPlaylist):
		return "Add tracks with 'crate track add <files...>'"
	case errors.Is(err, ErrPlayback):
		return "The audio device may be busy or the file unreadable. Try another track"
	case errors.Is(err, ErrConfigNotFound), errors.Is(err, ErrInvalidConfig):
		return "Run 'crate config init' to create a fresh configuration"
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "permission denied") {
		return "Check file permissions on the library and config directories"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// FileError records a per-file failure while keeping the sentinel kind
// reachable through errors.Is.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
