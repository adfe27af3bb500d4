package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Play the playlist in random order",
	Long: `Switch the playlist to shuffle mode. Every track plays once before any
repeats. Tracks cannot be moved while shuffled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setShuffle(true)
	},
}

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Play the playlist in its saved order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setShuffle(false)
	},
}

func init() {
	rootCmd.AddCommand(shuffleCmd)
	rootCmd.AddCommand(orderCmd)
}

func setShuffle(on bool) error {
	s, err := openLibrary()
	if err != nil {
		return err
	}
	p, err := selected(s)
	if err != nil {
		return err
	}
	if err := s.SetShuffle(on); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]any{"playlist": p.Name(), "shuffled": p.Shuffled()})
	}
	if on {
		fmt.Printf("%s will play shuffled\n", p.Name())
	} else {
		fmt.Printf("%s will play in order\n", p.Name())
	}
	return nil
}
