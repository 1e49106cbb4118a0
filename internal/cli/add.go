package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"machete.dev/machete/internal/cli/common"
	macheteerrors "machete.dev/machete/internal/errors"
	"machete.dev/machete/internal/layout"
	"machete.dev/machete/internal/runtime"
)

// newAddCmd creates the add command
func newAddCmd() *cobra.Command {
	var (
		onto       string
		asRoot     bool
		yes        bool
		annotation string
	)

	cmd := &cobra.Command{
		Use:   "add [branch]",
		Short: "Add a local branch to the layout",
		Long: `Add a local branch to the layout.

Defaults to the current branch. Without --onto the branch is added below the
current branch, or as the first root when the layout is empty.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if onto != "" && asRoot {
				return fmt.Errorf("--onto and --as-root cannot be used together")
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				name, err := common.BranchArg(ctx, args)
				if err != nil {
					return err
				}
				if err := layout.ValidateAnnotation(name, annotation); err != nil {
					return err
				}
				exists, err := ctx.Repo.BranchExists(name)
				if err != nil {
					return err
				}
				if !exists {
					branches, err := ctx.Repo.BranchNames()
					if err != nil {
						return err
					}
					return common.UnknownBranchError(name, branches)
				}

				l, err := ctx.LoadLayout()
				if err != nil {
					return err
				}
				if l.Contains(name) {
					return macheteerrors.NewDuplicateNameError(name)
				}

				parent, err := addParent(ctx, l, name, onto, asRoot)
				if err != nil {
					return err
				}

				question := fmt.Sprintf("Add %s as a new root?", name)
				if parent != "" {
					question = fmt.Sprintf("Add %s onto %s?", name, parent)
				}
				if !yes && common.IsInteractive() {
					confirmed := true
					if err := survey.AskOne(&survey.Confirm{Message: question, Default: true}, &confirmed); err != nil {
						return fmt.Errorf("canceled")
					}
					if !confirmed {
						return nil
					}
				}

				node := layout.NewNode(name).WithAnnotation(annotation)
				updated, err := l.Insert(parent, -1, node)
				if err != nil {
					return err
				}
				if err := ctx.SaveLayout(updated); err != nil {
					return err
				}

				if parent == "" {
					ctx.Splog.Info("Added %s as a new root.", name)
				} else {
					ctx.Splog.Info("Added %s onto %s.", name, parent)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&onto, "onto", "", "Parent branch in the layout")
	cmd.Flags().BoolVar(&asRoot, "as-root", false, "Add the branch as a new root")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().StringVar(&annotation, "annotation", "", "Annotation shown next to the branch")
	_ = cmd.RegisterFlagCompletionFunc("onto", common.CompleteLayoutBranches)

	return cmd
}

func addParent(ctx *runtime.Context, l *layout.BranchLayout, name, onto string, asRoot bool) (string, error) {
	switch {
	case asRoot:
		return "", nil
	case onto != "":
		return onto, common.RequireInLayout(l, onto)
	case l.IsEmpty():
		return "", nil
	}

	current, err := ctx.CurrentBranch()
	if err != nil {
		return "", err
	}
	if current != "" && current != name && l.Contains(current) {
		return current, nil
	}
	return "", fmt.Errorf("cannot infer the parent of %s: pass --onto <parent> or --as-root", name)
}
