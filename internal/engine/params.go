package engine

import (
	"fmt"

	macheteerrors "machete.dev/machete/internal/errors"
)

// RebaseParameters describe `git rebase --onto NewBase ForkPoint CurrentBranch`
type RebaseParameters struct {
	CurrentBranch string
	ForkPoint     Commit
	NewBase       Commit
	// Upstream is the branch NewBase was taken from
	Upstream string
}

// MergeParameters describe a fast-forward of Moving onto Staying's commit
type MergeParameters struct {
	Staying       string
	StayingCommit Commit
	Moving        string
	MovingCommit  Commit
}

func (s *RepositorySnapshot) managedBranch(name string) (Branch, error) {
	b, ok := s.Branch(name)
	if !ok || !b.Managed {
		return Branch{}, macheteerrors.NewBranchNotFoundError(name)
	}
	return b, nil
}

// ParametersForRebaseOntoParent returns what a rebase of the branch onto its
// upstream's current commit needs. It fails with an UnresolvedForkPointError when
// no fork point is known, in which case the caller should ask for one.
func (s *RepositorySnapshot) ParametersForRebaseOntoParent(name string) (RebaseParameters, error) {
	b, err := s.managedBranch(name)
	if err != nil {
		return RebaseParameters{}, err
	}
	if b.IsRoot() {
		return RebaseParameters{}, fmt.Errorf("%w: %s has no parent to rebase onto", macheteerrors.ErrRootBranch, name)
	}
	if b.ForkPoint == nil {
		return RebaseParameters{}, macheteerrors.NewUnresolvedForkPointError(name, unresolvedReason(b))
	}
	return s.ParametersForRebaseFrom(name, *b.ForkPoint)
}

// ParametersForRebaseFrom returns the parameters for rebasing the branch
// onto its upstream with a fork point chosen by the caller
func (s *RepositorySnapshot) ParametersForRebaseFrom(name string, forkPoint Commit) (RebaseParameters, error) {
	b, err := s.managedBranch(name)
	if err != nil {
		return RebaseParameters{}, err
	}
	if b.IsRoot() {
		return RebaseParameters{}, fmt.Errorf("%w: %s has no parent to rebase onto", macheteerrors.ErrRootBranch, name)
	}
	upstream, err := s.managedBranch(b.Upstream)
	if err != nil {
		return RebaseParameters{}, err
	}
	return RebaseParameters{
		CurrentBranch: b.Name,
		ForkPoint:     forkPoint,
		NewBase:       upstream.Commit,
		Upstream:      upstream.Name,
	}, nil
}

func unresolvedReason(b Branch) string {
	switch b.Status {
	case NoRelation:
		return fmt.Sprintf("it shares no history with %s", b.Upstream)
	case Diverged:
		return fmt.Sprintf("it was forked from a commit no longer in %s", b.Upstream)
	default:
		return ""
	}
}

// ParametersForFastForwardMerge returns the parameters for moving `moving` onto
// `staying`. Whether the move is really a fast-forward is left to the executor.
func (s *RepositorySnapshot) ParametersForFastForwardMerge(staying, moving string) (MergeParameters, error) {
	st, err := s.managedBranch(staying)
	if err != nil {
		return MergeParameters{}, err
	}
	mv, err := s.managedBranch(moving)
	if err != nil {
		return MergeParameters{}, err
	}
	return MergeParameters{
		Staying:       st.Name,
		StayingCommit: st.Commit,
		Moving:        mv.Name,
		MovingCommit:  mv.Commit,
	}, nil
}

// ParametersForFastForwardParent returns the parameters for fast-forwarding the
// branch's upstream to the branch
func (s *RepositorySnapshot) ParametersForFastForwardParent(name string) (MergeParameters, error) {
	b, err := s.managedBranch(name)
	if err != nil {
		return MergeParameters{}, err
	}
	if b.IsRoot() {
		return MergeParameters{}, fmt.Errorf("%w: %s has no parent to fast-forward", macheteerrors.ErrRootBranch, name)
	}
	return s.ParametersForFastForwardMerge(b.Name, b.Upstream)
}

// CanRebaseOntoParent reports whether a rebase onto the parent may be offered.
// Roots, unmanaged branches and branches merged to their parent cannot be rebased.
func (s *RepositorySnapshot) CanRebaseOntoParent(name string) bool {
	b, ok := s.Branch(name)
	if !ok || !b.HasStatus() {
		return false
	}
	return b.Status != MergedToParent && b.ForkPoint != nil
}
