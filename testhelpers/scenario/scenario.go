// Package scenario provides a high-level test scenario that combines a Scene with
// in-process machete commands to provide a terse API for integration tests.
package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"machete.dev/machete/internal/cli"
	"machete.dev/machete/internal/engine"
	"machete.dev/machete/internal/runtime"
	"machete.dev/machete/testhelpers"
)

// Scenario represents a high-level test scenario that combines a Scene with
// in-process machete commands.
type Scenario struct {
	T     *testing.T
	Scene *testhelpers.Scene
}

// NewScenario creates a new Scenario with an optional setup function.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv and NewScene.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	// Force non-interactive mode for tests
	t.Setenv("MACHETE_NON_INTERACTIVE", "true")

	return &Scenario{
		T:     t,
		Scene: testhelpers.NewScene(t, setup),
	}
}

// WithInitialCommit creates an initial commit on the main branch.
func (s *Scenario) WithInitialCommit() *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChangeAndCommit("initial", "init"))
	return s
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.RunGitCommand(args...), "git %v failed", args)
	return s
}

// Checkout checks out a branch.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CheckoutBranch(branch))
	return s
}

// CreateBranch creates and checks out a new branch.
func (s *Scenario) CreateBranch(name string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateAndCheckoutBranch(name))
	return s
}

// CommitChange creates a file change and commits it.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChangeAndCommit(message, name))
	return s
}

// WithStack creates each branch on top of the previous one, starting from main,
// with one commit each, and declares them as a single chain in the layout.
func (s *Scenario) WithStack(branches ...string) *Scenario {
	s.T.Helper()
	layoutText := "main\n"
	indent := "  "
	for _, branch := range branches {
		s.CreateBranch(branch).CommitChange(branch, branch+" change")
		layoutText += indent + branch + "\n"
		indent += "  "
	}
	return s.Checkout("main").WithLayout(layoutText)
}

// WithLayout writes the branch layout file.
func (s *Scenario) WithLayout(contents string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.WriteLayout(contents))
	return s
}

// Snapshot builds a snapshot of the scenario's repository the way commands do.
func (s *Scenario) Snapshot() *engine.RepositorySnapshot {
	s.T.Helper()
	ctx, err := runtime.GetContext(context.Background(), runtime.Options{Dir: s.Scene.Dir, Out: &bytes.Buffer{}})
	require.NoError(s.T, err)
	defer func() { _ = ctx.Close() }()

	snapshot, err := ctx.LoadSnapshot()
	require.NoError(s.T, err)
	return snapshot
}

// ExpectStatus asserts the sync status of a branch relative to its parent.
func (s *Scenario) ExpectStatus(branch string, expected engine.SyncToParentStatus) *Scenario {
	s.T.Helper()
	b, ok := s.Snapshot().Branch(branch)
	require.True(s.T, ok, "branch %s is not in the layout", branch)
	require.True(s.T, b.HasStatus(), "branch %s has no status", branch)
	require.Equal(s.T, expected, b.Status, "status of %s", branch)
	return s
}

// RunCli executes a machete command and fails the test if it errors.
func (s *Scenario) RunCli(args ...string) *Scenario {
	s.T.Helper()
	out, err := s.RunCliAndGetOutput(args...)
	require.NoError(s.T, err, "machete %v failed: %s", args, out)
	return s
}

// RunCliAndGetOutput executes a machete command and returns its output.
func (s *Scenario) RunCliAndGetOutput(args ...string) (string, error) {
	s.T.Helper()
	cmd := cli.NewRootCmd("test", "none", "unknown")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// RunExpectError executes a machete command and expects it to fail.
func (s *Scenario) RunExpectError(args ...string) error {
	s.T.Helper()
	_, err := s.RunCliAndGetOutput(args...)
	require.Error(s.T, err, "expected machete %v to fail", args)
	return err
}

// ExpectBranch asserts that the current branch is as expected.
func (s *Scenario) ExpectBranch(expected string) *Scenario {
	s.T.Helper()
	current, err := s.Scene.Repo.CurrentBranchName()
	require.NoError(s.T, err)
	require.Equal(s.T, expected, current)
	return s
}

// ExpectLayout asserts the raw contents of the layout file.
func (s *Scenario) ExpectLayout(expected string) *Scenario {
	s.T.Helper()
	testhelpers.ExpectLayout(s.T, s.Scene.Repo, expected)
	return s
}
