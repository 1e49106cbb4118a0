package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"machete.dev/machete/internal/cli/common"
	"machete.dev/machete/internal/layout"
	"machete.dev/machete/internal/runtime"
)

// newRemoveCmd creates the remove command
func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <branch>",
		Short: "Remove a branch and everything below it from the layout",
		Long: `Remove a branch and everything below it from the layout.

The git branches themselves are left alone. Use slide-out to keep the children.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteLayoutBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				l, err := ctx.LoadLayout()
				if err != nil {
					return err
				}
				if err := common.RequireInLayout(l, args[0]); err != nil {
					return err
				}
				updated, removed, err := l.Remove(args[0])
				if err != nil {
					return err
				}
				if err := ctx.SaveLayout(updated); err != nil {
					return err
				}
				for _, name := range subtreeNames(removed) {
					ctx.Splog.Info("Removed %s from the layout.", name)
				}
				return nil
			})
		},
	}

	return cmd
}

func subtreeNames(n layout.Node) []string {
	names := []string{n.Name}
	for _, child := range n.Children {
		names = append(names, subtreeNames(child)...)
	}
	return names
}

// newMoveCmd creates the move command
func newMoveCmd() *cobra.Command {
	var (
		onto   string
		asRoot bool
	)

	cmd := &cobra.Command{
		Use:   "move <branch>",
		Short: "Move a branch and its children under another parent in the layout",
		Long: `Move a branch and its children under another parent in the layout.

Only the layout changes. Run status to see which branches now need a rebase.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteLayoutBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (onto == "") == !asRoot {
				return fmt.Errorf("pass exactly one of --onto <parent> or --as-root")
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				l, err := ctx.LoadLayout()
				if err != nil {
					return err
				}
				for _, name := range []string{args[0], onto} {
					if name == "" {
						continue
					}
					if err := common.RequireInLayout(l, name); err != nil {
						return err
					}
				}

				updated, err := l.Move(args[0], onto, -1)
				if err != nil {
					return err
				}
				if err := ctx.SaveLayout(updated); err != nil {
					return err
				}
				if asRoot {
					ctx.Splog.Info("Moved %s to a new root.", args[0])
				} else {
					ctx.Splog.Info("Moved %s onto %s.", args[0], onto)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&onto, "onto", "", "New parent branch")
	cmd.Flags().BoolVar(&asRoot, "as-root", false, "Make the branch a new root")
	_ = cmd.RegisterFlagCompletionFunc("onto", common.CompleteLayoutBranches)

	return cmd
}

// newRenameCmd creates the rename command
func newRenameCmd() *cobra.Command {
	var layoutOnly bool

	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a branch in git and in the layout",
		Long: `Rename a branch in git and in the layout.

With --layout-only the git branch is left alone, e.g. after renaming it by hand.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: common.CompleteLayoutBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			oldName, newName := args[0], args[1]
			return common.Run(cmd, func(ctx *runtime.Context) error {
				l, err := ctx.LoadLayout()
				if err != nil {
					return err
				}
				if err := common.RequireInLayout(l, oldName); err != nil {
					return err
				}
				// validate before touching git
				updated, err := l.Rename(oldName, newName)
				if err != nil {
					return err
				}

				if !layoutOnly {
					exists, err := ctx.Repo.BranchExists(oldName)
					if err != nil {
						return err
					}
					if exists {
						if err := ctx.Repo.RenameBranch(ctx, oldName, newName); err != nil {
							return err
						}
					}
				}

				if err := ctx.SaveLayout(updated); err != nil {
					return err
				}
				ctx.Splog.Info("Renamed %s to %s.", oldName, newName)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&layoutOnly, "layout-only", false, "Only rename the layout entry")

	return cmd
}

// newFormatCmd creates the format command
func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Rewrite the layout file with the configured indent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				l, err := ctx.LoadLayout()
				if err != nil {
					return err
				}
				if err := ctx.SaveLayout(l); err != nil {
					return err
				}
				ctx.Splog.Debug("wrote %d branches to %s", l.Len(), ctx.Settings.LayoutPath)
				return nil
			})
		},
	}

	return cmd
}
