// Package engine overlays a branch layout onto the state of a git repository.
//
// It is the core of machete, responsible for:
//   - Binding every declared branch to its current commit, or marking it unmanaged
//   - Resolving fork points from reflogs and merge-bases
//   - Classifying each branch's sync status relative to its parent
//   - Deriving the parameters of a rebase onto the parent or a fast-forward merge
//
// The engine reads the repository only through RepositoryPort and never mutates
// it. A RepositorySnapshot is built in one pass and published only when complete;
// once returned it is immutable and safe for concurrent readers.
package engine
