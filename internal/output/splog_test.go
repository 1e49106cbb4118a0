package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"machete.dev/machete/internal/output"
)

func TestSplog(t *testing.T) {
	t.Run("prefixes warnings, errors and tips", func(t *testing.T) {
		var buf bytes.Buffer
		splog := output.NewSplog(&buf, false)

		splog.Info("restacked %s", "feature")
		splog.Warn("%s has no upstream", "main")
		splog.Error("rebase failed")
		splog.Tip("run %q to continue", "git rebase --continue")

		require.Equal(t, "restacked feature\n"+
			"Warn: main has no upstream\n"+
			"Error: rebase failed\n"+
			"Tip: run \"git rebase --continue\" to continue\n", buf.String())
	})

	t.Run("debug output is gated", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		var quiet, verbose bytes.Buffer

		output.NewSplog(&quiet, false).Debug("fork point of %s", "feature")
		output.NewSplog(&verbose, true).Debug("fork point of %s", "feature")

		require.Empty(t, quiet.String())
		require.Equal(t, "fork point of feature\n", verbose.String())
	})

	t.Run("file log records debug messages", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "machete.log")

		splog, err := output.NewSplogWithConfig(&buf, false, output.LogFileConfig{Path: path, MaxSize: 1})
		require.NoError(t, err)
		splog.Debug("resolved %d branches", 3)
		splog.Info("done")
		require.NoError(t, splog.Close())

		require.Equal(t, "done\n", buf.String())
		contents, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(contents), "resolved 3 branches")
		require.Contains(t, string(contents), "level=DEBUG")
		require.Contains(t, string(contents), "msg=done")
	})

	t.Run("page writes content verbatim", func(t *testing.T) {
		var buf bytes.Buffer
		splog := output.NewSplog(&buf, false)
		splog.Page("  main\n  |\n")
		splog.Newline()
		require.Equal(t, "  main\n  |\n\n", buf.String())
	})
}
