package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"machete.dev/machete/internal/cli/common"
	"machete.dev/machete/internal/output"
	"machete.dev/machete/internal/runtime"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	var (
		forkPoints  bool
		listCommits bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the branch tree and how each branch relates to its parent",
		Long: `Show the branch tree and how each branch relates to its parent.

Edge markers:
  o  in sync with the parent
  x  out of sync: the parent moved on since the branch forked from it
  ?  in sync, but the fork point is older than the parent
  m  merged into the parent
  !  diverged from the parent or sharing no history with it

When the repository has remotes, each branch also notes whether it is untracked,
ahead of, behind or diverged from its remote-tracking branch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				snapshot, err := ctx.LoadSnapshot()
				if err != nil {
					return err
				}
				if snapshot.Layout().IsEmpty() {
					ctx.Splog.Info("No branches in the layout.")
					ctx.Splog.Tip("add one with `machete add <branch>`")
					return nil
				}

				current, err := ctx.CurrentBranch()
				if err != nil {
					return err
				}

				renderer := output.NewStatusRenderer(ctx.Palette, output.StatusOptions{
					CurrentBranch:  current,
					ShowForkPoints: forkPoints,
					ListCommits:    listCommits,
				})
				ctx.Splog.Page(strings.Join(renderer.Render(snapshot), "\n") + "\n")

				for _, name := range snapshot.UnmanagedBranchNames() {
					ctx.Splog.Warn("%s is in the layout but not a local branch", name)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&forkPoints, "fork-points", false, "Show the fork point of every branch")
	cmd.Flags().BoolVarP(&listCommits, "list-commits", "l", false, "List the commits of every branch since its fork point")

	return cmd
}
