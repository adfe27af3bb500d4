package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tessro/crate/internal/config"
)

func restore(t *testing.T) {
	t.Helper()
	logger, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	})
}

func TestSetupConsole(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	closeLog, err := Setup(config.LogConfig{Level: "warn"}, Options{Console: &buf, NoColor: true})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer closeLog()

	log.Info().Msg("hidden")
	log.Warn().Str("playlist", "mix").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "playlist=mix") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestSetupVerbose(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	if _, err := Setup(config.LogConfig{Level: "error"}, Options{Verbose: true, Console: &buf}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", zerolog.GlobalLevel())
	}
}

func TestSetupFile(t *testing.T) {
	restore(t)

	path := filepath.Join(t.TempDir(), "logs", "crate.log")
	closeLog, err := Setup(config.LogConfig{Level: "info", File: path}, Options{Quiet: true})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	log.Info().Str("title", "Intro").Msg("Playing")
	if err := closeLog(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"title":"Intro"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestSetupQuiet(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	if _, err := Setup(config.LogConfig{}, Options{Quiet: true, Console: &buf}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	log.Error().Msg("nobody hears this")
	if buf.Len() != 0 {
		t.Errorf("quiet setup wrote %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
	if l, _ := ParseLevel(""); l != zerolog.InfoLevel {
		t.Errorf("ParseLevel(\"\") = %v, want info", l)
	}
}
