package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"machete.dev/machete/internal/output"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		debug bool
		color string
	)

	rootCmd := &cobra.Command{
		Use:   "machete",
		Short: "Machete keeps a tree of git branches in sync with their parents",
		Long: `Machete keeps a tree of git branches in sync with their parents.

The tree lives in a layout file inside the git directory, one branch per line,
children indented below their parent. Machete reports how each branch relates
to its parent and rebases or fast-forwards branches to bring them back in sync.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch color {
			case output.ColorAuto, output.ColorAlways, output.ColorNever, "":
				return nil
			default:
				return fmt.Errorf("invalid --color %q: must be auto, always or never", color)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug output, including how fork points were chosen")
	rootCmd.PersistentFlags().StringVar(&color, "color", "", "Color output: auto, always or never (defaults to the configured mode)")

	// Add subcommands
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newForkPointCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newSlideOutCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newRebaseCmd())
	rootCmd.AddCommand(newFastForwardCmd())
	rootCmd.AddCommand(newFormatCmd())
	rootCmd.AddCommand(newFetchCmd())

	return rootCmd
}
