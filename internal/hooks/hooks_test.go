package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"machete.dev/machete/internal/engine"
	macheteerrors "machete.dev/machete/internal/errors"
	"machete.dev/machete/internal/git"
	"machete.dev/machete/internal/hooks"
	"machete.dev/machete/testhelpers"
)

func params() engine.RebaseParameters {
	return engine.RebaseParameters{
		CurrentBranch: "feature",
		ForkPoint:     engine.Commit{Hash: "1111111"},
		NewBase:       engine.Commit{Hash: "2222222"},
	}
}

func TestRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("missing hook lets the rebase through", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := hooks.NewRunner(git.NewCommandRunner(scene.Dir))

		result, err := runner.Run(ctx, engine.PreRebaseHookName)
		require.NoError(t, err)
		require.Nil(t, result)
		require.NoError(t, runner.RunPreRebase(ctx, params()))
	})

	t.Run("hook receives new base, fork point and branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateHook(engine.PreRebaseHookName, "#!/bin/sh\necho \"$1 $2 $3\"\n"))
		runner := hooks.NewRunner(git.NewCommandRunner(scene.Dir))

		result, err := runner.Run(ctx, engine.PreRebaseHookName, engine.PreRebaseHookArgs(params())...)
		require.NoError(t, err)
		require.Equal(t, 0, result.ExitCode)
		require.Equal(t, "2222222 1111111 feature\n", result.Stdout)
	})

	t.Run("non-zero exit rejects the rebase", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateHook(engine.PreRebaseHookName, "#!/bin/sh\necho refusing >&2\nexit 7\n"))
		runner := hooks.NewRunner(git.NewCommandRunner(scene.Dir))

		err := runner.RunPreRebase(ctx, params())
		var rejected *macheteerrors.HookRejectedError
		require.ErrorAs(t, err, &rejected)
		require.Equal(t, 7, rejected.ExitCode)
		require.Equal(t, "refusing\n", rejected.Stderr)
	})

	t.Run("honors core.hooksPath", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		hooksDir := filepath.Join(scene.Dir, "githooks")
		require.NoError(t, os.MkdirAll(hooksDir, 0700))
		// nolint:gosec // Hook must be executable
		require.NoError(t, os.WriteFile(filepath.Join(hooksDir, engine.PreRebaseHookName), []byte("#!/bin/sh\nexit 1\n"), 0700))
		require.NoError(t, scene.Repo.RunGitCommand("config", "core.hooksPath", "githooks"))
		runner := hooks.NewRunner(git.NewCommandRunner(scene.Dir))

		path, ok, err := runner.Find(ctx, engine.PreRebaseHookName)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, filepath.Join(hooksDir, engine.PreRebaseHookName), path)
		require.ErrorIs(t, runner.RunPreRebase(ctx, params()), macheteerrors.ErrHookRejected)
	})

	t.Run("non-executable hooks are ignored", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		hookDir := filepath.Join(scene.Repo.GitDir(), "hooks")
		require.NoError(t, os.MkdirAll(hookDir, 0700))
		require.NoError(t, os.WriteFile(filepath.Join(hookDir, engine.PreRebaseHookName), []byte("#!/bin/sh\nexit 1\n"), 0600))
		runner := hooks.NewRunner(git.NewCommandRunner(scene.Dir))

		_, ok, err := runner.Find(ctx, engine.PreRebaseHookName)
		require.NoError(t, err)
		require.False(t, ok)
	})
}
