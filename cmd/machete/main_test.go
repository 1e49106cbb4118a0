package main_test

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"machete.dev/machete/testhelpers"
)

func TestMain(m *testing.M) {
	testhelpers.TestMain(m)
}

func runBinary(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(testhelpers.MacheteBinary(t), append([]string{"--color", "never"}, args...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestBinary(t *testing.T) {
	t.Run("prints the status tree", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.StackSceneSetup)

		out, err := runBinary(t, scene.Dir, "status")
		require.NoError(t, err, out)
		require.Equal(t, "  main\n  |\n  x-feature\n    |\n    o-feature-2\n", out)
	})

	t.Run("reports errors with a non-zero exit code", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.StackSceneSetup)

		out, err := runBinary(t, scene.Dir, "fork-point", "nope")
		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		require.Equal(t, 1, exitErr.ExitCode())
		require.True(t, strings.HasPrefix(out, "Error: branch nope does not exist"), out)
	})

	t.Run("prints the version", func(t *testing.T) {
		out, err := runBinary(t, t.TempDir(), "--version")
		require.NoError(t, err)
		require.Contains(t, out, "dev (commit none, built unknown)")
	})
}
