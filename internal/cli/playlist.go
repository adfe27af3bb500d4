package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/session"
)

var playlistCmd = &cobra.Command{
	Use:     "playlist",
	Aliases: []string{"pl"},
	Short:   "Manage playlists",
	Long:    `Create, delete, inspect and select playlists.`,
	RunE:    runPlaylistList,
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List playlists",
	RunE:  runPlaylistList,
}

var playlistNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create an empty playlist",
	Long: `Create an empty playlist and make it the default.

Examples:
  crate playlist new "Road Trip"
  crate playlist new focus --select=false`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlaylistNew,
}

var playlistDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a playlist",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runPlaylistDelete,
}

var playlistShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a playlist's tracks in play order",
	RunE:  runPlaylistShow,
}

var playlistSelectCmd = &cobra.Command{
	Use:   "select [name]",
	Short: "Choose the default playlist",
	Long: `Choose the playlist other commands act on when --playlist is not given.
Without a name, shows a picker.`,
	RunE: runPlaylistSelect,
}

var playlistNewSelect bool

func init() {
	playlistNewCmd.Flags().BoolVar(&playlistNewSelect, "select", true, "make the new playlist the default")

	playlistCmd.AddCommand(playlistListCmd)
	playlistCmd.AddCommand(playlistNewCmd)
	playlistCmd.AddCommand(playlistDeleteCmd)
	playlistCmd.AddCommand(playlistShowCmd)
	playlistCmd.AddCommand(playlistSelectCmd)
	rootCmd.AddCommand(playlistCmd)
}

type playlistJSON struct {
	Name     string `json:"name"`
	Tracks   int    `json:"tracks"`
	Length   string `json:"length"`
	Shuffled bool   `json:"shuffled"`
	Selected bool   `json:"selected"`
}

func runPlaylistList(cmd *cobra.Command, args []string) error {
	s, err := openLibrary()
	if err != nil {
		return err
	}
	library := s.Library()

	if library.Len() == 0 {
		if JSONOutput() {
			return printJSON([]playlistJSON{})
		}
		fmt.Println("No playlists yet. Create one with 'crate playlist new <name>'")
		return nil
	}

	var out []playlistJSON
	for _, p := range library.Playlists() {
		out = append(out, playlistJSON{
			Name:     p.Name(),
			Tracks:   p.Len(),
			Length:   totalLength(p),
			Shuffled: p.Shuffled(),
			Selected: p.Name() == library.SelectedName(),
		})
	}

	if JSONOutput() {
		return printJSON(out)
	}

	table := NewTable("", "NAME", "TRACKS", "LENGTH", "MODE")
	for _, p := range out {
		mode := "queue"
		if p.Shuffled {
			mode = "shuffle"
		}
		table.Row(StatusIcon(p.Selected), TruncateString(p.Name, 32), humanize.Comma(int64(p.Tracks)), p.Length, mode)
	}
	table.Flush()
	return nil
}

func runPlaylistNew(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	s, err := openLibrary()
	if err != nil {
		return err
	}
	p, err := s.CreatePlaylist(name)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	if playlistNewSelect {
		if err := setConfigValue("library.default_playlist", p.Name()); err != nil {
			return err
		}
	}

	if JSONOutput() {
		return printJSON(map[string]any{"status": "created", "name": p.Name(), "shuffled": p.Shuffled()})
	}
	fmt.Printf("Created playlist %q\n", p.Name())
	return nil
}

func runPlaylistDelete(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	s, err := openLibrary()
	if err != nil {
		return err
	}
	if err := s.DeletePlaylist(name); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	if cfg.Library.DefaultPlaylist == name {
		if err := setConfigValue("library.default_playlist", s.Library().SelectedName()); err != nil {
			return err
		}
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "deleted", "name": name})
	}
	fmt.Printf("Deleted playlist %q\n", name)
	return nil
}

func runPlaylistShow(cmd *cobra.Command, args []string) error {
	s, err := openLibrary()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		if err := s.SelectPlaylist(strings.Join(args, " ")); err != nil {
			return err
		}
	}

	p, err := selected(s)
	if err != nil {
		return err
	}

	if !JSONOutput() {
		mode := "in order"
		if p.Shuffled() {
			mode = "shuffled"
		}
		fmt.Printf("%s (%s, %s, %s)\n\n", p.Name(), pluralTracks(p.Len()), totalLength(p), mode)
	}
	return printTracks(p)
}

func runPlaylistSelect(cmd *cobra.Command, args []string) error {
	s, err := openLibrary()
	if err != nil {
		return err
	}

	name := strings.Join(args, " ")
	if name == "" {
		name, err = pickPlaylist(s)
		if err != nil {
			return err
		}
	}
	if err := s.SelectPlaylist(name); err != nil {
		return err
	}
	if err := setConfigValue("library.default_playlist", name); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "selected", "name": name})
	}
	fmt.Printf("Selected playlist %q\n", name)
	return nil
}

// pickPlaylist shows an interactive picker of the library's playlists.
func pickPlaylist(s *session.Session) (string, error) {
	library := s.Library()
	if library.Len() == 0 {
		return "", errors.WithSuggestion(errors.ErrNoPlaylist, "Create one with 'crate playlist new <name>'")
	}

	var options []huh.Option[string]
	for _, p := range library.Playlists() {
		label := fmt.Sprintf("%s (%s)", p.Name(), pluralTracks(p.Len()))
		if p.Shuffled() {
			label += " [shuffle]"
		}
		options = append(options, huh.NewOption(label, p.Name()))
	}

	selectedName := library.SelectedName()
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select default playlist").
				Description("Commands use this playlist when --playlist is not given").
				Options(options...).
				Value(&selectedName),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return selectedName, nil
}

// selected returns the session's current playlist or a helpful error.
func selected(s *session.Session) (*playlist.Playlist, error) {
	p := s.Selected()
	if p == nil {
		return nil, errors.WithSuggestion(errors.ErrNoPlaylist, "Create one with 'crate playlist new <name>'")
	}
	return p, nil
}

func totalLength(p *playlist.Playlist) string {
	var total int64
	for _, t := range p.Canonical() {
		total += int64(t.Duration().Seconds())
	}
	h, m := total/3600, (total%3600)/60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm %02ds", m, total%60)
}

func pluralTracks(n int) string {
	return english.Plural(n, "track", "")
}
