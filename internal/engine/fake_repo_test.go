package engine_test

import (
	"context"
	"fmt"
	"slices"
	"time"

	"machete.dev/machete/internal/engine"
	macheteerrors "machete.dev/machete/internal/errors"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeCommit struct {
	parents []string
	tree    string
}

// fakeRepo is an in-memory commit graph implementing engine.RepositoryPort
type fakeRepo struct {
	commits  map[string]fakeCommit
	branches map[string]string
	reflogs  map[string][]engine.ReflogEntry
	// failures makes the named port operation fail
	failures map[string]error
	// revisionFailures makes CurrentCommitOf fail for one revision only
	revisionFailures map[string]error
	remotes          []string
	tracking         map[string]engine.RemoteBranch
	times            map[string]time.Time
	calls            map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		commits:  make(map[string]fakeCommit),
		branches: make(map[string]string),
		reflogs:  make(map[string][]engine.ReflogEntry),
		failures: make(map[string]error),
		calls:    make(map[string]int),

		revisionFailures: make(map[string]error),
		tracking:         make(map[string]engine.RemoteBranch),
		times:            make(map[string]time.Time),
	}
}

// commit adds a commit whose tree is derived from its hash
func (r *fakeRepo) commit(hash string, parents ...string) *fakeRepo {
	return r.commitWithTree(hash, "tree-"+hash, parents...)
}

func (r *fakeRepo) commitWithTree(hash, tree string, parents ...string) *fakeRepo {
	for _, p := range parents {
		if _, ok := r.commits[p]; !ok {
			panic(fmt.Sprintf("unknown parent %s of %s", p, hash))
		}
	}
	r.commits[hash] = fakeCommit{parents: parents, tree: tree}
	return r
}

// branch points a branch at a commit and sets its reflog, most recent first
func (r *fakeRepo) branch(name, hash string, reflog ...engine.ReflogEntry) *fakeRepo {
	r.branches[name] = hash
	r.reflogs[engine.BranchRef(name)] = reflog
	return r
}

// at sets the commit time of a commit; others are committed at epoch
func (r *fakeRepo) at(hash string, when time.Time) *fakeRepo {
	r.times[hash] = when
	return r
}

// remoteBranch makes remote/name the remote-tracking branch of the local branch name
func (r *fakeRepo) remoteBranch(remote, name, hash string) *fakeRepo {
	if !slices.Contains(r.remotes, remote) {
		r.remotes = append(r.remotes, remote)
	}
	r.tracking[name] = engine.RemoteBranch{Remote: remote, Name: remote + "/" + name, Commit: r.toCommit(hash)}
	return r
}

func entry(hash, action string) engine.ReflogEntry {
	return engine.ReflogEntry{Commit: hash, Action: action, Time: epoch}
}

func (r *fakeRepo) toCommit(hash string) engine.Commit {
	when, ok := r.times[hash]
	if !ok {
		when = epoch
	}
	return engine.Commit{Hash: hash, TreeHash: r.commits[hash].tree, Time: when, Subject: "commit " + hash}
}

func (r *fakeRepo) call(op string) error {
	r.calls[op]++
	return r.failures[op]
}

func (r *fakeRepo) ResolveBranch(_ context.Context, name string) (engine.Commit, error) {
	if err := r.call("ResolveBranch"); err != nil {
		return engine.Commit{}, err
	}
	hash, ok := r.branches[name]
	if !ok {
		return engine.Commit{}, macheteerrors.NewBranchNotFoundError(name)
	}
	return r.toCommit(hash), nil
}

func (r *fakeRepo) CurrentCommitOf(_ context.Context, ref string) (engine.Commit, error) {
	if err := r.call("CurrentCommitOf"); err != nil {
		return engine.Commit{}, err
	}
	if err := r.revisionFailures[ref]; err != nil {
		return engine.Commit{}, err
	}
	if hash, ok := r.branches[ref]; ok {
		return r.toCommit(hash), nil
	}
	if _, ok := r.commits[ref]; ok {
		return r.toCommit(ref), nil
	}
	return engine.Commit{}, fmt.Errorf("%w: %s", macheteerrors.ErrUnknownRevision, ref)
}

func (r *fakeRepo) Reflog(_ context.Context, ref string) ([]engine.ReflogEntry, error) {
	if err := r.call("Reflog"); err != nil {
		return nil, err
	}
	r.calls["Reflog "+ref]++
	return r.reflogs[ref], nil
}

func (r *fakeRepo) MergeBase(_ context.Context, a, b string) (string, bool, error) {
	if err := r.call("MergeBase"); err != nil {
		return "", false, err
	}
	ancestorsOfA := r.ancestors(a)
	var common []string
	for hash := range r.ancestors(b) {
		if ancestorsOfA[hash] {
			common = append(common, hash)
		}
	}
	for _, candidate := range common {
		best := true
		for _, other := range common {
			if other != candidate && r.ancestors(other)[candidate] {
				best = false
				break
			}
		}
		if best {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

func (r *fakeRepo) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	if err := r.call("IsAncestor"); err != nil {
		return false, err
	}
	return r.ancestors(descendant)[ancestor], nil
}

func (r *fakeRepo) CommitsBetween(_ context.Context, from, stop string) ([]engine.Commit, error) {
	if err := r.call("CommitsBetween"); err != nil {
		return nil, err
	}
	excluded := r.ancestors(stop)
	var commits []engine.Commit
	seen := make(map[string]bool)
	queue := []string{from}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]
		if seen[hash] || excluded[hash] {
			continue
		}
		seen[hash] = true
		commits = append(commits, r.toCommit(hash))
		queue = append(queue, r.commits[hash].parents...)
	}
	return commits, nil
}

func (r *fakeRepo) Remotes(_ context.Context) ([]string, error) {
	if err := r.call("Remotes"); err != nil {
		return nil, err
	}
	return slices.Clone(r.remotes), nil
}

func (r *fakeRepo) RemoteTrackingBranch(_ context.Context, name string) (engine.RemoteBranch, bool, error) {
	if err := r.call("RemoteTrackingBranch"); err != nil {
		return engine.RemoteBranch{}, false, err
	}
	remote, ok := r.tracking[name]
	return remote, ok, nil
}

// ancestors returns every commit reachable from hash, hash included
func (r *fakeRepo) ancestors(hash string) map[string]bool {
	reachable := make(map[string]bool)
	stack := []string{hash}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reachable[h] {
			continue
		}
		if _, ok := r.commits[h]; !ok {
			continue
		}
		reachable[h] = true
		stack = append(stack, r.commits[h].parents...)
	}
	return reachable
}
