package engine

import (
	macheteerrors "machete.dev/machete/internal/errors"
)

// PreRebaseHookName is the hook consulted before every rebase onto a parent
const PreRebaseHookName = "machete-pre-rebase"

// HookResult is the outcome of a hook run, as captured by the caller
type HookResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// PreRebaseHookArgs returns the arguments the pre-rebase hook is invoked with:
// the new base, the fork point and the branch being rebased
func PreRebaseHookArgs(params RebaseParameters) []string {
	return []string{params.NewBase.Hash, params.ForkPoint.Hash, params.CurrentBranch}
}

// CheckPreRebaseHook decides whether a rebase may proceed. A nil result means the
// hook is not installed. A non-zero exit code yields a HookRejectedError carrying
// the captured output.
func CheckPreRebaseHook(result *HookResult) error {
	if result == nil || result.ExitCode == 0 {
		return nil
	}
	return macheteerrors.NewHookRejectedError(PreRebaseHookName, result.ExitCode, result.Stdout, result.Stderr)
}
