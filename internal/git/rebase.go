package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"machete.dev/machete/internal/engine"
	macheteerrors "machete.dev/machete/internal/errors"
)

// RebaseOntoParent runs `git rebase --onto <new base> <fork point> <branch>`.
// The branch ends up checked out. A conflict leaves the rebase in progress for the
// user to resolve and is reported as a RebaseConflictError.
func (r *Repository) RebaseOntoParent(ctx context.Context, params engine.RebaseParameters) error {
	_, err := r.runner.Run(ctx, "rebase", "--onto", params.NewBase.Hash, params.ForkPoint.Hash, params.CurrentBranch)
	if err == nil {
		return nil
	}
	if r.IsRebaseInProgress() {
		var cmdErr *macheteerrors.GitCommandError
		msg := ""
		if errors.As(err, &cmdErr) {
			msg = strings.TrimSpace(cmdErr.Stderr)
		}
		return macheteerrors.NewRebaseConflictError(params.CurrentBranch, msg)
	}
	return fmt.Errorf("failed to rebase %s onto %s: %w", params.CurrentBranch, params.Upstream, err)
}

// IsRebaseInProgress checks for the rebase-merge or rebase-apply directories.
// These are more reliable than REBASE_HEAD, which can persist after a rebase.
func (r *Repository) IsRebaseInProgress() bool {
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(r.gitDir, dir)); err == nil {
			return true
		}
	}
	return false
}

// FastForward moves params.Moving to params.Staying's commit. When Moving is
// checked out the working tree is updated with `git merge --ff-only`; otherwise
// only the ref moves.
func (r *Repository) FastForward(ctx context.Context, params engine.MergeParameters) error {
	ok, err := r.IsAncestor(ctx, params.MovingCommit.Hash, params.StayingCommit.Hash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cannot fast-forward %s to %s: %s is not an ancestor of %s",
			params.Moving, params.Staying, params.Moving, params.Staying)
	}

	current, err := r.CurrentBranch()
	if err == nil && current == params.Moving {
		_, err = r.runner.Run(ctx, "merge", "--ff-only", params.Staying)
		return err
	}

	_, err = r.runner.Run(ctx, "update-ref",
		"-m", fmt.Sprintf("merge %s: Fast-forward", params.Staying),
		engine.BranchRef(params.Moving), params.StayingCommit.Hash, params.MovingCommit.Hash)
	return err
}

// RenameBranch renames a local branch, keeping its reflog
func (r *Repository) RenameBranch(ctx context.Context, oldName, newName string) error {
	_, err := r.runner.Run(ctx, "branch", "-m", oldName, newName)
	return err
}
