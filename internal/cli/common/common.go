// Package common provides shared helper functions for CLI commands.
package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	macheteerrors "machete.dev/machete/internal/errors"
	"machete.dev/machete/internal/layout"
	"machete.dev/machete/internal/output"
	"machete.dev/machete/internal/runtime"
)

// maxSuggestions caps the "did you mean" list
const maxSuggestions = 3

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	debug, _ := cmd.Flags().GetBool("debug")
	color, _ := cmd.Flags().GetString("color")

	ctx, err := runtime.GetContext(cmd.Context(), runtime.Options{
		Out:   cmd.OutOrStdout(),
		Debug: debug,
		Color: color,
	})
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()
	return fn(ctx)
}

// BranchArg returns the branch named by the first argument, or the current branch
func BranchArg(ctx *runtime.Context, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	branch, err := ctx.CurrentBranch()
	if err != nil {
		return "", err
	}
	if branch == "" {
		return "", macheteerrors.ErrNotOnBranch
	}
	return branch, nil
}

// IsInteractive checks if prompts may be shown
func IsInteractive() bool {
	// Allow forcing non-interactive mode via environment variable
	if os.Getenv("MACHETE_NON_INTERACTIVE") != "" {
		return false
	}
	return output.IsTTY(os.Stdin)
}

// CheckRebaseInProgress ensures no rebase is currently active
func CheckRebaseInProgress(ctx *runtime.Context) error {
	if ctx.Repo.IsRebaseInProgress() {
		return fmt.Errorf("a rebase is already in progress. Please finish or abort it first")
	}
	return nil
}

// RequireInLayout fails with a BranchNotFoundError, plus suggestions, unless the
// branch is declared in the layout
func RequireInLayout(l *layout.BranchLayout, name string) error {
	if l.Contains(name) {
		return nil
	}
	return UnknownBranchError(name, l.Names())
}

// UnknownBranchError reports a missing branch, suggesting close matches among candidates
func UnknownBranchError(name string, candidates []string) error {
	notFound := macheteerrors.NewBranchNotFoundError(name)
	suggestions := Suggest(name, candidates)
	if len(suggestions) == 0 {
		return notFound
	}
	return fmt.Errorf("%w (did you mean %s?)", notFound, strings.Join(suggestions, ", "))
}

// Suggest returns the candidates that fuzzily match name, best first
func Suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	var suggestions []string
	for _, m := range matches {
		if m.Str == name {
			continue
		}
		suggestions = append(suggestions, m.Str)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}

// CompleteLayoutBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all branch names declared in the layout.
func CompleteLayoutBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	var names []string
	err := Run(cmd, func(ctx *runtime.Context) error {
		l, err := ctx.LoadLayout()
		if err != nil {
			return err
		}
		names = l.Names()
		return nil
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// CompleteBranches returns all local branch names in the repository
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	var names []string
	err := Run(cmd, func(ctx *runtime.Context) error {
		var err error
		names, err = ctx.Repo.BranchNames()
		return err
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
