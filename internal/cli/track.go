package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/wizard"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Add, remove and reorder tracks",
	Long:  `Commands that change the tracks of the selected playlist.`,
}

var trackAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Add audio files to the playlist",
	Long: `Append audio files to the end of the playlist.
Supported formats are mp3, wav, ogg and flac. Missing or unsupported files
are reported and skipped.

Examples:
  crate track add ~/Music/*.mp3
  crate track add -p "Road Trip" song.flac`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrackAdd,
}

var trackRemoveCmd = &cobra.Command{
	Use:     "remove [title]",
	Aliases: []string{"rm"},
	Short:   "Remove a track by title",
	Long: `Remove the first track with the given title. Without a title, a
track finder opens when running in a terminal.`,
	RunE:    runTrackRemove,
}

var trackMoveCmd = &cobra.Command{
	Use:   "move <title> <up|down>",
	Short: "Move a track one place up or down",
	Long: `Swap a track with its neighbour in the playlist order.
Not available while the playlist is shuffled.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTrackMove,
}

func init() {
	trackCmd.AddCommand(trackAddCmd)
	trackCmd.AddCommand(trackRemoveCmd)
	trackCmd.AddCommand(trackMoveCmd)
	rootCmd.AddCommand(trackCmd)
}

func runTrackAdd(cmd *cobra.Command, args []string) error {
	s, err := openLibrary()
	if err != nil {
		return err
	}
	p, err := selected(s)
	if err != nil {
		return err
	}

	result, err := s.AddFiles(args)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	if JSONOutput() {
		added := make([]trackJSON, len(result.Data))
		for i, t := range result.Data {
			added[i] = toTrackJSON(t)
		}
		skipped := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			skipped[i] = e.Error()
		}
		return printJSON(map[string]any{"playlist": p.Name(), "added": added, "skipped": skipped})
	}

	fmt.Printf("Added %s to %s\n", pluralTracks(len(result.Data)), p.Name())
	reportSkipped(result)
	return nil
}

func runTrackRemove(cmd *cobra.Command, args []string) error {
	s, err := openLibrary()
	if err != nil {
		return err
	}
	p, err := selected(s)
	if err != nil {
		return err
	}
	title, err := titleArg(args, "Remove", p)
	if err != nil {
		return err
	}
	if err := s.RemoveTrack(title); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "removed", "playlist": p.Name(), "title": title})
	}
	fmt.Printf("Removed %q from %s\n", title, p.Name())
	return nil
}

func runTrackMove(cmd *cobra.Command, args []string) error {
	dir, err := playlist.ParseDirection(args[len(args)-1])
	if err != nil {
		return err
	}
	title := strings.Join(args[:len(args)-1], " ")

	s, err := openLibrary()
	if err != nil {
		return err
	}
	p, err := selected(s)
	if err != nil {
		return err
	}
	if err := s.MoveTrack(title, dir); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	return printTracks(p)
}

// titleArg joins args into a track title, or asks for one with the track
// finder when none was given.
func titleArg(args []string, verb string, p *playlist.Playlist) (string, error) {
	if !wizard.NeedsTrack(args) {
		return strings.Join(args, " "), nil
	}
	t, err := wizard.NewInteractive(!JSONOutput()).PromptTrack(verb, p)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", errors.WithSuggestion(errors.ErrTrackNotFound, "Pass the track title as an argument")
	}
	return t.Title(), nil
}
