package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/audio"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show library status",
	Long:  `Shows where playlists are stored, how many there are and which one is selected.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusResult struct {
	Store     string     `json:"store"`
	Size      int64      `json:"size"`
	Modified  *time.Time `json:"modified,omitempty"`
	Playlists int        `json:"playlists"`
	Tracks    int        `json:"tracks"`
	Selected  string     `json:"selected,omitempty"`
	Shuffled  bool       `json:"shuffled"`
	Current   string     `json:"current,omitempty"`
	Audio     bool       `json:"audio"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openLibrary()
	if err != nil {
		return err
	}

	st := s.Store()
	result := statusResult{
		Store:     st.Path(),
		Playlists: s.Library().Len(),
		Audio:     audio.Available,
	}
	if info, err := os.Stat(st.Path()); err == nil {
		result.Size = info.Size()
	}
	if mod, ok := st.ModTime(); ok {
		result.Modified = &mod
	}
	for _, p := range s.Library().Playlists() {
		result.Tracks += p.Len()
	}
	if p := s.Selected(); p != nil {
		result.Selected = p.Name()
		result.Shuffled = p.Shuffled()
		if t := p.Current(); t != nil {
			result.Current = t.Title()
		}
	}

	if JSONOutput() {
		return printJSON(result)
	}
	return outputStatusTable(result)
}

func outputStatusTable(r statusResult) error {
	fmt.Printf("Store:     %s\n", r.Store)
	if r.Modified != nil {
		fmt.Printf("           %s, saved %s\n", humanize.Bytes(uint64(r.Size)), humanize.Time(*r.Modified))
	} else {
		fmt.Println("           not saved yet")
	}
	fmt.Printf("Playlists: %s\n", humanize.Comma(int64(r.Playlists)))
	fmt.Printf("Tracks:    %s\n", humanize.Comma(int64(r.Tracks)))

	if r.Selected != "" {
		mode := "in order"
		if r.Shuffled {
			mode = "shuffled"
		}
		fmt.Printf("Selected:  %s %s (%s)\n", StatusIcon(true), r.Selected, mode)
		if r.Current != "" {
			fmt.Printf("Next up:   %s\n", r.Current)
		}
	}

	if !r.Audio {
		fmt.Println("\nAudio output is not available in this build.")
	}
	return nil
}
