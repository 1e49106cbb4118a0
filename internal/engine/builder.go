package engine

import (
	"context"
	"errors"
	"slices"

	macheteerrors "machete.dev/machete/internal/errors"
	"machete.dev/machete/internal/layout"
)

// Logger receives debug output from snapshot builds
type Logger interface {
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

// Options tune a snapshot build
type Options struct {
	// SquashMergeDetection also treats a branch as merged when its tree matches a
	// commit of the parent's history since the merge-base
	SquashMergeDetection bool
	Logger               Logger
}

// Option configures a snapshot build
type Option func(*Options)

// WithSquashMergeDetection toggles tree-based merge detection
func WithSquashMergeDetection(enabled bool) Option {
	return func(o *Options) {
		o.SquashMergeDetection = enabled
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// BuildSnapshot resolves every branch of the layout against the repository and
// computes sync statuses, fork points and upstreams. Any repository failure other
// than a missing branch aborts the build with a RepositoryAccessError and no
// snapshot is returned.
func BuildSnapshot(ctx context.Context, l *layout.BranchLayout, port RepositoryPort, opts ...Option) (*RepositorySnapshot, error) {
	options := Options{SquashMergeDetection: true, Logger: nopLogger{}}
	for _, opt := range opts {
		opt(&options)
	}
	if l == nil {
		l = layout.Empty()
	}

	q := newQueries(ctx, port, options.Logger)
	s := &RepositorySnapshot{
		layout:   l,
		branches: make([]Branch, 0, l.Len()),
		index:    make(map[string]int, l.Len()),
	}

	// Bind every entry to its commit first; upstreams depend on which branches exist
	for entry, depth := range l.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := Branch{
			Name:       entry.Name(),
			Annotation: entry.Annotation(),
			Depth:      depth,
		}
		if parent, ok := entry.Parent(); ok {
			b.Parent = parent.Name()
		}
		for _, child := range entry.Children() {
			b.Children = append(b.Children, child.Name())
		}

		commit, err := port.ResolveBranch(ctx, b.Name)
		switch {
		case err == nil:
			b.Managed = true
			b.Commit = commit
		case errors.Is(err, macheteerrors.ErrBranchNotFound):
			options.Logger.Debug("branch %s is declared but does not exist, treating it as unmanaged", b.Name)
		default:
			return nil, accessError("resolve branch", b.Name, err)
		}

		s.index[b.Name] = len(s.branches)
		s.branches = append(s.branches, b)
	}

	for i := range s.branches {
		b := &s.branches[i]
		if !b.Managed {
			continue
		}
		b.Upstream = s.nearestManagedAncestor(b.Parent)
	}

	for i := range s.branches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := &s.branches[i]
		if !b.HasStatus() {
			continue
		}
		upstream := s.branches[s.index[b.Upstream]]

		result, err := q.classify(b.Name, upstream.Name, b.Commit, upstream.Commit, options.SquashMergeDetection)
		if err != nil {
			return nil, err
		}
		b.Status = result.status
		b.ForkPoint = result.forkPoint
		options.Logger.Debug("branch %s: %s relative to %s (fork point %s)",
			b.Name, b.Status, upstream.Name, shortOrNone(b.ForkPoint))

		if b.ForkPoint != nil && b.ForkPoint.Hash != b.Commit.Hash {
			commits, err := q.commitsBetween(b.Commit.Hash, b.ForkPoint.Hash)
			if err != nil {
				return nil, err
			}
			slices.Reverse(commits)
			b.Commits = commits
		}
	}

	remotes, err := port.Remotes(ctx)
	if err != nil {
		return nil, accessError("list remotes", "", err)
	}
	if len(remotes) > 0 {
		for i := range s.branches {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			b := &s.branches[i]
			if !b.Managed {
				continue
			}
			if err := q.bindRemote(b); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// bindRemote finds the branch's remote-tracking branch and compares the two tips
func (q *queries) bindRemote(b *Branch) error {
	remote, ok, err := q.port.RemoteTrackingBranch(q.ctx, b.Name)
	if err != nil {
		return accessError("resolve remote-tracking branch", b.Name, err)
	}
	if !ok {
		b.RemoteStatus = Untracked
		return nil
	}
	b.Remote = &remote

	status, err := q.compareToRemote(b.Commit, remote.Commit)
	if err != nil {
		return err
	}
	b.RemoteStatus = status
	q.logger.Debug("branch %s: %s relative to %s", b.Name, status, remote.Name)
	return nil
}

func (q *queries) compareToRemote(local, remote Commit) (SyncToRemoteStatus, error) {
	if local.Hash == remote.Hash {
		return InSyncToRemote, nil
	}
	remoteContained, err := q.isAncestor(remote.Hash, local.Hash)
	if err != nil {
		return 0, err
	}
	if remoteContained {
		return AheadOfRemote, nil
	}
	localContained, err := q.isAncestor(local.Hash, remote.Hash)
	if err != nil {
		return 0, err
	}
	switch {
	case localContained:
		return BehindRemote, nil
	case remote.Time.After(local.Time):
		return DivergedFromAndOlderThanRemote, nil
	default:
		return DivergedFromAndNewerThanRemote, nil
	}
}
