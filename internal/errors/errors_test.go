package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"wrapped shuffle", fmt.Errorf("move %q: %w", "A", ErrShuffleActive), "crate order"},
		{"missing file", &FileError{Path: "/x.mp3", Err: ErrMissingFile}, "still exists"},
		{"explicit suggestion", WithSuggestion(errors.New("boom"), "do the thing"), "do the thing"},
		{"permission", errors.New("open /x: permission denied"), "permissions"},
		{"unknown", errors.New("something else"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("GetSuggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if Format(nil) != "" {
		t.Error("Format(nil) should be empty")
	}

	got := Format(ErrEmptyPlaylist)
	if !strings.HasPrefix(got, "Error: playlist is empty") {
		t.Errorf("Format() = %q", got)
	}
	if !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q, want a suggestion", got)
	}

	if got := Format(errors.New("plain")); got != "Error: plain" {
		t.Errorf("Format() = %q, want %q", got, "Error: plain")
	}
}

func TestFileErrorUnwrap(t *testing.T) {
	err := error(&FileError{Path: "/music/a.mp3", Err: ErrMissingFile})
	if !Is(err, ErrMissingFile) {
		t.Error("FileError should unwrap to its kind")
	}
	if err.Error() != "/music/a.mp3: file not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestPartialResult(t *testing.T) {
	var p PartialResult[[]string]
	if p.HasErrors() {
		t.Error("HasErrors() = true for empty result")
	}

	p.AddError(nil)
	if p.HasErrors() {
		t.Error("AddError(nil) should be ignored")
	}

	p.AddError(errors.New("first"))
	if p.ErrorSummary() != "first" {
		t.Errorf("ErrorSummary() = %q, want %q", p.ErrorSummary(), "first")
	}

	p.AddError(errors.New("second"))
	summary := p.ErrorSummary()
	if !strings.HasPrefix(summary, "2 errors occurred:") {
		t.Errorf("ErrorSummary() = %q", summary)
	}
	if !strings.Contains(summary, "  2. second") {
		t.Errorf("ErrorSummary() = %q, want numbered entries", summary)
	}
}
