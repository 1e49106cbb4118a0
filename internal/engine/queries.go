package engine

import (
	"context"
)

type ancestryKey struct {
	ancestor   string
	descendant string
}

// queries memoizes port lookups for the duration of a single build.
// Nothing here outlives the build, so concurrent builds never share state.
type queries struct {
	ctx      context.Context
	port     RepositoryPort
	logger   Logger
	ancestry map[ancestryKey]bool
	reflogs  map[string][]ReflogEntry
	commits  map[string]Commit
}

func newQueries(ctx context.Context, port RepositoryPort, logger Logger) *queries {
	return &queries{
		ctx:      ctx,
		port:     port,
		logger:   logger,
		ancestry: make(map[ancestryKey]bool),
		reflogs:  make(map[string][]ReflogEntry),
		commits:  make(map[string]Commit),
	}
}

func (q *queries) isAncestor(ancestor, descendant string) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}
	key := ancestryKey{ancestor: ancestor, descendant: descendant}
	if result, ok := q.ancestry[key]; ok {
		return result, nil
	}
	result, err := q.port.IsAncestor(q.ctx, ancestor, descendant)
	if err != nil {
		return false, accessError("is-ancestor", ancestor+".."+descendant, err)
	}
	q.ancestry[key] = result
	return result, nil
}

func (q *queries) reflog(branch string) ([]ReflogEntry, error) {
	if entries, ok := q.reflogs[branch]; ok {
		return entries, nil
	}
	ref := BranchRef(branch)
	entries, err := q.port.Reflog(q.ctx, ref)
	if err != nil {
		return nil, accessError("reflog", ref, err)
	}
	q.reflogs[branch] = entries
	return entries, nil
}

func (q *queries) mergeBase(a, b string) (string, bool, error) {
	if a == b {
		return a, true, nil
	}
	base, ok, err := q.port.MergeBase(q.ctx, a, b)
	if err != nil {
		return "", false, accessError("merge-base", a+" "+b, err)
	}
	return base, ok, nil
}

func (q *queries) commit(hash string) (Commit, error) {
	if c, ok := q.commits[hash]; ok {
		return c, nil
	}
	c, err := q.port.CurrentCommitOf(q.ctx, hash)
	if err != nil {
		return Commit{}, accessError("resolve commit", hash, err)
	}
	q.commits[hash] = c
	return c, nil
}

func (q *queries) commitsBetween(from, stop string) ([]Commit, error) {
	commits, err := q.port.CommitsBetween(q.ctx, from, stop)
	if err != nil {
		return nil, accessError("log", stop+".."+from, err)
	}
	return commits, nil
}
