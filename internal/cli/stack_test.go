package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"machete.dev/machete/internal/config"
	"machete.dev/machete/internal/engine"
	"machete.dev/machete/testhelpers"
	"machete.dev/machete/testhelpers/scenario"
)

func TestStackWorkflows(t *testing.T) {
	t.Run("restacking a deep stack one branch at a time", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithInitialCommit().
			WithStack("a", "b", "c").
			CommitChange("main", "main update")

		s.ExpectStatus("a", engine.OutOfSync).
			ExpectStatus("b", engine.InSync).
			ExpectStatus("c", engine.InSync)

		s.RunCli("rebase", "a").
			ExpectStatus("a", engine.InSync).
			ExpectStatus("b", engine.OutOfSync).
			ExpectStatus("c", engine.InSync)

		s.RunCli("rebase", "b").
			ExpectStatus("b", engine.InSync).
			ExpectStatus("c", engine.OutOfSync)

		s.RunCli("rebase", "c").
			ExpectStatus("a", engine.InSync).
			ExpectStatus("b", engine.InSync).
			ExpectStatus("c", engine.InSync).
			ExpectBranch("c")

		testhelpers.ExpectCommits(t, s.Scene.Repo, "c",
			[]string{"c change", "b change", "a change", "main update", "initial"})
	})

	t.Run("parent rebased outside machete", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithInitialCommit().
			WithStack("a", "b").
			CommitChange("main", "main update").
			RunGit("rebase", "main", "a")

		s.ExpectStatus("a", engine.InSync).
			ExpectStatus("b", engine.OutOfSync).
			RunCli("rebase", "b").
			ExpectStatus("b", engine.InSync)

		testhelpers.ExpectCommits(t, s.Scene.Repo, "b", []string{"b change", "a change", "main update", "initial"})
	})

	t.Run("squash merges are detected", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithInitialCommit().
			WithStack("feature")
		require.NoError(t, s.Scene.Repo.SquashMergeBranch("main", "feature"))

		s.ExpectStatus("feature", engine.MergedToParent)

		out, err := s.RunCliAndGetOutput("status")
		require.NoError(t, err)
		require.Contains(t, out, "m-feature (merged into main)")

		s.RunCli("slide-out", "feature", "--no-rebase").ExpectLayout("main\n")
	})

	t.Run("squash merge detection can be turned off", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithInitialCommit().
			WithStack("feature")
		require.NoError(t, s.Scene.Repo.SquashMergeBranch("main", "feature"))
		require.NoError(t, config.SetSquashMergeDetection(s.Scene.Repo.GitDir(), false))

		s.ExpectStatus("feature", engine.OutOfSync)
	})

	t.Run("fast-forwarded parent marks the branch merged", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithInitialCommit().
			WithStack("feature")

		s.RunCli("fast-forward", "feature").
			ExpectStatus("feature", engine.MergedToParent)
	})

	t.Run("fresh branch without commits is in sync", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithInitialCommit().
			CreateBranch("empty").
			Checkout("main").
			WithLayout("main\n  empty\n")

		s.ExpectStatus("empty", engine.InSync)
	})

	t.Run("branch reset elsewhere has diverged", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithInitialCommit().
			CommitChange("main", "main change").
			WithStack("feature")
		// rewrite main so feature's fork point is no longer part of it
		s.RunGit("reset", "--hard", "HEAD~1").
			CommitChange("main", "main change rewritten")

		s.ExpectStatus("feature", engine.Diverged)

		err := s.RunExpectError("rebase", "feature")
		require.ErrorContains(t, err, "cannot find fork point for branch feature")
	})
}
