package git

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"machete.dev/machete/internal/engine"
	macheteerrors "machete.dev/machete/internal/errors"
)

var _ engine.RepositoryPort = (*Repository)(nil)

// ResolveBranch returns the commit a local branch points to
func (r *Repository) ResolveBranch(ctx context.Context, name string) (engine.Commit, error) {
	if err := ctx.Err(); err != nil {
		return engine.Commit{}, err
	}
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return engine.Commit{}, macheteerrors.NewBranchNotFoundError(name)
	}
	if err != nil {
		return engine.Commit{}, fmt.Errorf("failed to resolve branch %s: %w", name, err)
	}
	return r.commitOf(ref.Hash())
}

// CurrentCommitOf resolves a revision to a commit
func (r *Repository) CurrentCommitOf(ctx context.Context, rev string) (engine.Commit, error) {
	if err := ctx.Err(); err != nil {
		return engine.Commit{}, err
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if errors.Is(err, plumbing.ErrReferenceNotFound) || errors.Is(err, plumbing.ErrObjectNotFound) {
		return engine.Commit{}, fmt.Errorf("%w: %s", macheteerrors.ErrUnknownRevision, rev)
	}
	if err != nil {
		return engine.Commit{}, fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return engine.Commit{}, fmt.Errorf("%w: %s is not a commit", macheteerrors.ErrUnknownRevision, rev)
	}
	if err != nil {
		return engine.Commit{}, fmt.Errorf("failed to get commit %s: %w", rev, err)
	}
	return toCommit(c), nil
}

// Reflog returns the reflog of ref, most recent first.
// go-git does not read reflogs, so this shells out to git.
func (r *Repository) Reflog(ctx context.Context, ref string) ([]engine.ReflogEntry, error) {
	lines, err := r.runner.RunLines(ctx, "log", "--walk-reflogs", "--date=unix", "--format=%H%x09%gd%x09%gs", ref, "--")
	if err != nil {
		return nil, err
	}
	entries := make([]engine.ReflogEntry, 0, len(lines))
	for _, line := range lines {
		entry, err := parseReflogLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseReflogLine parses "<hash>\t<ref>@{<unix time>}\t<subject>"
func parseReflogLine(line string) (engine.ReflogEntry, error) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 {
		return engine.ReflogEntry{}, fmt.Errorf("malformed reflog line %q", line)
	}
	entry := engine.ReflogEntry{Commit: parts[0], Action: parts[2]}

	selector := parts[1]
	open := strings.LastIndex(selector, "@{")
	if open >= 0 && strings.HasSuffix(selector, "}") {
		if secs, err := strconv.ParseInt(selector[open+2:len(selector)-1], 10, 64); err == nil {
			entry.Time = time.Unix(secs, 0)
		}
	}
	return entry, nil
}

// MergeBase returns the best common ancestor of two commits
func (r *Repository) MergeBase(ctx context.Context, a, b string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	ca, err := r.commitObject(a)
	if err != nil {
		return "", false, err
	}
	cb, err := r.commitObject(b)
	if err != nil {
		return "", false, err
	}
	bases, err := ca.MergeBase(cb)
	if err != nil {
		return "", false, fmt.Errorf("failed to find merge base of %s and %s: %w", a, b, err)
	}
	if len(bases) == 0 {
		return "", false, nil
	}
	return bases[0].Hash.String(), true, nil
}

// IsAncestor reports whether ancestor is reachable from descendant
func (r *Repository) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if ancestor == descendant {
		return true, nil
	}
	ca, err := r.commitObject(ancestor)
	if err != nil {
		return false, err
	}
	cd, err := r.commitObject(descendant)
	if err != nil {
		return false, err
	}
	return ca.IsAncestor(cd)
}

// CommitsBetween returns the commits reachable from `from` but not from `stop`,
// newest first, like `git log stop..from`
func (r *Repository) CommitsBetween(ctx context.Context, from, stop string) ([]engine.Commit, error) {
	start, err := r.commitObject(from)
	if err != nil {
		return nil, err
	}
	end, err := r.commitObject(stop)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]bool)
	err = object.NewCommitPreorderIter(end, nil, nil).ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		excluded[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	iter := object.NewCommitPreorderIter(start, excluded, nil)
	defer iter.Close()

	var commits []engine.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, toCommit(c))
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, err
	}
	return commits, nil
}

func (r *Repository) commitObject(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", rev, err)
	}
	return c, nil
}

func (r *Repository) commitOf(hash plumbing.Hash) (engine.Commit, error) {
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return engine.Commit{}, fmt.Errorf("failed to get commit %s: %w", hash, err)
	}
	return toCommit(c), nil
}

func toCommit(c *object.Commit) engine.Commit {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return engine.Commit{
		Hash:     c.Hash.String(),
		TreeHash: c.TreeHash.String(),
		Time:     c.Committer.When,
		Subject:  strings.TrimSpace(subject),
	}
}
