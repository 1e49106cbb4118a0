package engine

import (
	"context"
	"time"
)

// Commit identifies a commit and the tree it records
type Commit struct {
	Hash     string
	TreeHash string
	Time     time.Time
	// Subject is the first line of the commit message
	Subject string
}

// Short returns the abbreviated hash
func (c Commit) Short() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// IsZero returns true if the commit is unset
func (c Commit) IsZero() bool {
	return c.Hash == ""
}

// ReflogEntry is one line of a ref's reflog
type ReflogEntry struct {
	Commit string    // hash the ref pointed to after the action
	Time   time.Time // when the ref was updated
	Action string    // reflog subject, e.g. "commit: fix typo" or "branch: Created from main"
}

// RemoteBranch is a remote-tracking branch, e.g. origin/feature
type RemoteBranch struct {
	Remote string
	// Name is the short name including the remote
	Name   string
	Commit Commit
}

// RepositoryPort is the read-only view of a git repository used by the engine.
// Implementations live outside the core (see the git package).
type RepositoryPort interface {
	// ResolveBranch returns the commit a local branch points to.
	// It returns an error matching errors.ErrBranchNotFound if the branch does not exist.
	ResolveBranch(ctx context.Context, name string) (Commit, error)
	// CurrentCommitOf resolves any revision (ref name or hash) to a commit.
	// It returns an error matching errors.ErrUnknownRevision if no commit matches.
	CurrentCommitOf(ctx context.Context, ref string) (Commit, error)
	// Reflog returns the reflog of a full ref name, most recent entry first.
	// A ref without reflog yields an empty slice.
	Reflog(ctx context.Context, ref string) ([]ReflogEntry, error)
	// MergeBase returns the best common ancestor of two commits, if any
	MergeBase(ctx context.Context, a, b string) (string, bool, error)
	// IsAncestor reports whether ancestor is reachable from descendant.
	// A commit is its own ancestor.
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
	// CommitsBetween returns commits reachable from `from` but not from `stop`, newest first
	CommitsBetween(ctx context.Context, from, stop string) ([]Commit, error)
	// Remotes returns the names of the configured remotes
	Remotes(ctx context.Context) ([]string, error)
	// RemoteTrackingBranch returns the remote-tracking branch a local branch is
	// compared against. The second result is false when there is none.
	RemoteTrackingBranch(ctx context.Context, name string) (RemoteBranch, bool, error)
}

// BranchRef returns the full ref name of a local branch
func BranchRef(name string) string {
	return "refs/heads/" + name
}
