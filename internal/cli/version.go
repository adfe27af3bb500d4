package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/audio"
	"github.com/tessro/crate/internal/core"
)

// Set via ldflags at build time
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type buildInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	BuildDate string   `json:"build_date"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	Audio     bool     `json:"audio"`
	Formats   []string `json:"formats"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show the version. With --verbose, also show the build details, whether
this build can produce sound, and the audio formats it accepts.`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := buildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Audio:     audio.Available,
		Formats:   core.SupportedExtensions,
	}
	if JSONOutput() {
		return printJSON(info)
	}

	fmt.Printf("crate %s\n", info.Version)
	if !Verbose() {
		return nil
	}

	output := "silent (built without cgo)"
	if info.Audio {
		output = "speaker"
	}
	t := NewTable()
	t.Row("  commit:", info.Commit)
	t.Row("  built:", info.BuildDate)
	t.Row("  go:", info.GoVersion)
	t.Row("  platform:", info.Platform)
	t.Row("  output:", output)
	t.Row("  formats:", strings.Join(info.Formats, " "))
	t.Flush()
	return nil
}
