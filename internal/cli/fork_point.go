package cli

import (
	"github.com/spf13/cobra"

	"machete.dev/machete/internal/cli/common"
	"machete.dev/machete/internal/runtime"
)

// newForkPointCmd creates the fork-point command
func newForkPointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fork-point [branch]",
		Short: "Print the commit a branch forked from its parent at",
		Long: `Print the commit a branch forked from its parent at.

Defaults to the current branch. The fork point is taken from the branch's reflog
when possible and falls back to the merge-base with the parent.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteLayoutBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				name, err := common.BranchArg(ctx, args)
				if err != nil {
					return err
				}
				snapshot, err := ctx.LoadSnapshot()
				if err != nil {
					return err
				}
				if err := common.RequireInLayout(snapshot.Layout(), name); err != nil {
					return err
				}

				b, _ := snapshot.Branch(name)
				if b.ForkPoint == nil {
					// the rebase parameters explain why: unmanaged, root or diverged
					_, err := snapshot.ParametersForRebaseOntoParent(name)
					return err
				}

				ctx.Splog.Page(b.ForkPoint.Hash + "\n")
				return nil
			})
		},
	}

	return cmd
}
