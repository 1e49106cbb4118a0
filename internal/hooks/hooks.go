// Package hooks locates and runs machete's git hooks.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"machete.dev/machete/internal/engine"
	"machete.dev/machete/internal/git"
)

// Runner executes hooks from the repository's hooks directory
type Runner struct {
	git *git.CommandRunner
}

// NewRunner creates a Runner for the repository the command runner is bound to
func NewRunner(runner *git.CommandRunner) *Runner {
	return &Runner{git: runner}
}

// Dir returns the hooks directory, honoring core.hooksPath
func (r *Runner) Dir(ctx context.Context) (string, error) {
	dir, err := r.git.Run(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", fmt.Errorf("failed to locate hooks directory: %w", err)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.git.WorkingDir(), dir)
	}
	return dir, nil
}

// Find returns the path of an installed, executable hook
func (r *Runner) Find(ctx context.Context, name string) (string, bool, error) {
	dir, err := r.Dir(ctx)
	if err != nil {
		return "", false, err
	}
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return "", false, nil
	}
	return path, true, nil
}

// Run executes the named hook from the repository root. A missing hook yields a
// nil result. A hook that runs and exits non-zero is not an error here; the
// exit code is reported in the result.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*engine.HookResult, error) {
	path, ok, err := r.Find(ctx, name)
	if err != nil || !ok {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = r.git.WorkingDir()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result := &engine.HookResult{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("failed to run hook %s: %w", name, err)
	}
	return result, nil
}

// RunPreRebase runs the pre-rebase hook for params and decides whether the
// rebase may go ahead
func (r *Runner) RunPreRebase(ctx context.Context, params engine.RebaseParameters) error {
	result, err := r.Run(ctx, engine.PreRebaseHookName, engine.PreRebaseHookArgs(params)...)
	if err != nil {
		return err
	}
	return engine.CheckPreRebaseHook(result)
}
