package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"machete.dev/machete/internal/cli/common"
	"machete.dev/machete/internal/engine"
	macheteerrors "machete.dev/machete/internal/errors"
	"machete.dev/machete/internal/runtime"
)

// newRebaseCmd creates the rebase command
func newRebaseCmd() *cobra.Command {
	var forkPoint string

	cmd := &cobra.Command{
		Use:   "rebase [branch]",
		Short: "Rebase a branch onto the current commit of its parent",
		Long: `Rebase a branch onto the current commit of its parent.

Defaults to the current branch. Runs git rebase --onto <parent> <fork point> <branch>
after the machete-pre-rebase hook, if installed, accepts the rebase. The hook gets the
new base, the fork point and the branch name as arguments.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteLayoutBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				if err := common.CheckRebaseInProgress(ctx); err != nil {
					return err
				}
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

				var params engine.RebaseParameters
				if forkPoint != "" {
					commit, err := ctx.Repo.CurrentCommitOf(ctx, forkPoint)
					if err != nil {
						return err
					}
					params, err = snapshot.ParametersForRebaseFrom(name, commit)
					if err != nil {
						return err
					}
				} else {
					params, err = snapshot.ParametersForRebaseOntoParent(name)
					if errors.Is(err, macheteerrors.ErrUnresolvedForkPoint) {
						ctx.Splog.Tip("choose the fork point yourself with --fork-point <commit>")
					}
					if err != nil {
						return err
					}
					if b, _ := snapshot.Branch(name); b.Status == engine.InSync {
						ctx.Splog.Info("%s is already in sync with %s.", name, params.Upstream)
						return nil
					}
				}

				return rebaseOntoParent(ctx, params)
			})
		},
	}

	cmd.Flags().StringVar(&forkPoint, "fork-point", "", "Commit to rebase from instead of the detected fork point")

	return cmd
}

// rebaseOntoParent runs the pre-rebase hook and then the rebase itself
func rebaseOntoParent(ctx *runtime.Context, params engine.RebaseParameters) error {
	ctx.Splog.Debug("rebasing %s onto %s (%s) from fork point %s",
		params.CurrentBranch, params.Upstream, params.NewBase.Short(), params.ForkPoint.Short())

	if err := ctx.Hooks.RunPreRebase(ctx, params); err != nil {
		return err
	}

	err := ctx.Repo.RebaseOntoParent(ctx, params)
	if errors.Is(err, macheteerrors.ErrRebaseConflict) {
		ctx.Splog.Tip("resolve the conflicts, then run `git rebase --continue`")
	}
	if err != nil {
		return err
	}

	ctx.Splog.Info("Rebased %s onto %s.", params.CurrentBranch, params.Upstream)
	return nil
}

// newFastForwardCmd creates the fast-forward command
func newFastForwardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fast-forward [branch]",
		Short: "Fast-forward the parent of a branch to the branch",
		Long: `Fast-forward the parent of a branch to the branch.

Defaults to the current branch. Fails unless the parent's commit is an ancestor of
the branch.`,
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

				params, err := snapshot.ParametersForFastForwardParent(name)
				if err != nil {
					return err
				}
				if err := ctx.Repo.FastForward(ctx, params); err != nil {
					return err
				}
				ctx.Splog.Info("Fast-forwarded %s to %s.", params.Moving, params.Staying)
				return nil
			})
		},
	}

	return cmd
}

// newSlideOutCmd creates the slide-out command
func newSlideOutCmd() *cobra.Command {
	var noRebase bool

	cmd := &cobra.Command{
		Use:   "slide-out <branch>",
		Short: "Remove a branch from the layout, handing its children to its parent",
		Long: `Remove a branch from the layout, handing its children to its parent.

The children are then rebased onto the parent, dropping the commits of the
removed branch from them. Pass --no-rebase to only change the layout.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteLayoutBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return common.Run(cmd, func(ctx *runtime.Context) error {
				if !noRebase {
					if err := common.CheckRebaseInProgress(ctx); err != nil {
						return err
					}
				}
				l, err := ctx.LoadLayout()
				if err != nil {
					return err
				}
				if err := common.RequireInLayout(l, name); err != nil {
					return err
				}
				// fork points of the children are taken against the removed branch
				before, err := ctx.Snapshot(l)
				if err != nil {
					return err
				}

				updated, err := l.SlideOut(name)
				if err != nil {
					return err
				}
				if err := ctx.SaveLayout(updated); err != nil {
					return err
				}
				ctx.Splog.Info("Slid %s out of the layout.", name)
				if noRebase {
					return nil
				}

				// children of a missing branch already track the parent above it
				removed, _ := before.Branch(name)
				if !removed.Managed || removed.IsRoot() {
					return nil
				}
				parent, _ := before.Branch(removed.Upstream)

				for _, child := range before.DownstreamBranches(name) {
					params, err := before.ParametersForRebaseOntoParent(child.Name)
					if err != nil {
						ctx.Splog.Warn("not rebasing %s: %v", child.Name, err)
						continue
					}
					params.NewBase = parent.Commit
					params.Upstream = parent.Name
					if err := rebaseOntoParent(ctx, params); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noRebase, "no-rebase", false, "Do not rebase the children onto the new parent")

	return cmd
}
