package git

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/go-git/go-git/v5/plumbing"

	"machete.dev/machete/internal/engine"
)

// DefaultRemote is preferred when several remotes carry a branch of the same name
const DefaultRemote = "origin"

// Remotes returns the configured remote names, sorted
func (r *Repository) Remotes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	slices.Sort(names)
	return names, nil
}

// RemoteTrackingBranch returns the branch's configured upstream when it is a
// remote-tracking branch. Otherwise it looks for a branch of the same name on
// origin, then on the other remotes in name order.
func (r *Repository) RemoteTrackingBranch(ctx context.Context, name string) (engine.RemoteBranch, bool, error) {
	if err := ctx.Err(); err != nil {
		return engine.RemoteBranch{}, false, err
	}
	cfg, err := r.repo.Config()
	if err != nil {
		return engine.RemoteBranch{}, false, fmt.Errorf("failed to read repository config: %w", err)
	}
	if b, ok := cfg.Branches[name]; ok && b.Remote != "" && b.Remote != "." && b.Merge.IsBranch() {
		remote, found, err := r.remoteBranch(b.Remote, b.Merge.Short())
		if err != nil || found {
			return remote, found, err
		}
	}

	remotes, err := r.Remotes(ctx)
	if err != nil {
		return engine.RemoteBranch{}, false, err
	}
	if i := slices.Index(remotes, DefaultRemote); i > 0 {
		remotes = append([]string{DefaultRemote}, slices.Delete(remotes, i, i+1)...)
	}
	for _, remoteName := range remotes {
		remote, found, err := r.remoteBranch(remoteName, name)
		if err != nil || found {
			return remote, found, err
		}
	}
	return engine.RemoteBranch{}, false, nil
}

func (r *Repository) remoteBranch(remote, branch string) (engine.RemoteBranch, bool, error) {
	ref, err := r.repo.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return engine.RemoteBranch{}, false, nil
	}
	if err != nil {
		return engine.RemoteBranch{}, false, fmt.Errorf("failed to resolve %s/%s: %w", remote, branch, err)
	}
	commit, err := r.commitOf(ref.Hash())
	if err != nil {
		return engine.RemoteBranch{}, false, err
	}
	return engine.RemoteBranch{Remote: remote, Name: remote + "/" + branch, Commit: commit}, true, nil
}

// FetchAll updates the remote-tracking branches of every remote, pruning those
// deleted upstream. go-git cannot reuse the user's credential helpers, so this
// shells out to git.
func (r *Repository) FetchAll(ctx context.Context) error {
	_, err := r.runner.Run(ctx, "fetch", "--all", "--prune")
	return err
}
