package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	macheteerrors "machete.dev/machete/internal/errors"
)

// Repository combines a go-git handle for reads with the git binary for reflogs
// and anything that touches the working tree
type Repository struct {
	repo   *gogit.Repository
	runner *CommandRunner
	root   string
	gitDir string
}

// OpenRepository opens the git repository containing path
func OpenRepository(ctx context.Context, path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	runner := NewCommandRunner(absPath)
	root, err := runner.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("failed to find repository root: %w", err)
	}
	gitDir, err := runner.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to find git directory: %w", err)
	}

	return &Repository{
		repo:   repo,
		runner: NewCommandRunner(root),
		root:   root,
		gitDir: gitDir,
	}, nil
}

// Root returns the top-level directory of the working tree
func (r *Repository) Root() string {
	return r.root
}

// GitDir returns the absolute path of the .git directory
func (r *Repository) GitDir() string {
	return r.gitDir
}

// Runner returns the command runner bound to the repository root
func (r *Repository) Runner() *CommandRunner {
	return r.runner
}

// BranchNames returns all local branch names, sorted
func (r *Repository) BranchNames() ([]string, error) {
	branches, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// BranchExists reports whether a local branch exists
func (r *Repository) BranchExists(name string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CurrentBranch returns the checked out branch
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", macheteerrors.ErrNotOnBranch
	}

	return head.Name().Short(), nil
}
