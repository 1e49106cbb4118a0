package engine

import (
	"iter"
	"slices"

	"machete.dev/machete/internal/layout"
)

// Branch is one declared branch of a snapshot.
// Values returned by a snapshot are copies; changing them does not affect the snapshot.
type Branch struct {
	Name       string
	Annotation string
	// Managed is false when the branch is declared in the layout but missing from the repository
	Managed bool
	Commit  Commit
	// Parent is the parent declared in the layout, managed or not
	Parent string
	// Upstream is the nearest managed ancestor in the layout; empty for roots
	Upstream string
	Children []string
	Depth    int
	// Status is only meaningful when HasStatus returns true
	Status    SyncToParentStatus
	ForkPoint *Commit
	// Commits lie between the fork point and the tip, oldest first.
	// Empty when the branch has no fork point.
	Commits []Commit
	// Remote is the remote-tracking branch, nil when RemoteStatus is NoRemotes or Untracked
	Remote       *RemoteBranch
	RemoteStatus SyncToRemoteStatus
}

// IsRoot returns true if the branch has no managed ancestor
func (b Branch) IsRoot() bool {
	return b.Upstream == ""
}

// HasStatus returns true for managed non-root branches
func (b Branch) HasStatus() bool {
	return b.Managed && b.Upstream != ""
}

// HasForkPoint returns true if a fork point was resolved for the branch
func (b Branch) HasForkPoint() bool {
	return b.ForkPoint != nil
}

func (b Branch) clone() Branch {
	b.Children = slices.Clone(b.Children)
	b.Commits = slices.Clone(b.Commits)
	if b.ForkPoint != nil {
		fp := *b.ForkPoint
		b.ForkPoint = &fp
	}
	if b.Remote != nil {
		remote := *b.Remote
		b.Remote = &remote
	}
	return b
}

// RepositorySnapshot binds a layout to the repository state observed while building it
type RepositorySnapshot struct {
	layout   *layout.BranchLayout
	branches []Branch
	index    map[string]int
}

// Layout returns the layout the snapshot was built from
func (s *RepositorySnapshot) Layout() *layout.BranchLayout {
	return s.layout
}

// Branch returns the named branch
func (s *RepositorySnapshot) Branch(name string) (Branch, bool) {
	i, ok := s.index[name]
	if !ok {
		return Branch{}, false
	}
	return s.branches[i].clone(), true
}

// Branches returns every declared branch in layout order
func (s *RepositorySnapshot) Branches() []Branch {
	branches := make([]Branch, len(s.branches))
	for i, b := range s.branches {
		branches[i] = b.clone()
	}
	return branches
}

// All iterates over every declared branch in layout order along with its depth
func (s *RepositorySnapshot) All() iter.Seq2[Branch, int] {
	return func(yield func(Branch, int) bool) {
		for _, b := range s.branches {
			if !yield(b.clone(), b.Depth) {
				return
			}
		}
	}
}

// ManagedBranches returns the branches found in the repository, in layout order
func (s *RepositorySnapshot) ManagedBranches() []Branch {
	var managed []Branch
	for _, b := range s.branches {
		if b.Managed {
			managed = append(managed, b.clone())
		}
	}
	return managed
}

// UnmanagedBranchNames returns the declared branches missing from the repository
func (s *RepositorySnapshot) UnmanagedBranchNames() []string {
	var names []string
	for _, b := range s.branches {
		if !b.Managed {
			names = append(names, b.Name)
		}
	}
	return names
}

// RootBranches returns managed branches without a managed ancestor
func (s *RepositorySnapshot) RootBranches() []Branch {
	var roots []Branch
	for _, b := range s.branches {
		if b.Managed && b.IsRoot() {
			roots = append(roots, b.clone())
		}
	}
	return roots
}

// DownstreamBranches returns managed branches whose upstream is the given branch
func (s *RepositorySnapshot) DownstreamBranches(name string) []Branch {
	var downstream []Branch
	for _, b := range s.branches {
		if b.Managed && b.Upstream == name {
			downstream = append(downstream, b.clone())
		}
	}
	return downstream
}
