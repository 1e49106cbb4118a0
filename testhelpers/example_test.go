package testhelpers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"machete.dev/machete/testhelpers"
)

// TestExampleUsage demonstrates how to use the testhelpers package.
// This test shows the basic pattern for using scenes.
func TestExampleUsage(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	branch, err := scene.Repo.CurrentBranchName()
	require.NoError(t, err)
	require.Equal(t, "main", branch)

	messages, err := scene.Repo.ListCommitMessages("main")
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, messages)
}

// TestStackScene checks the shape of the shared stack fixture.
func TestStackScene(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.StackSceneSetup)

	testhelpers.ExpectBranches(t, scene.Repo, []string{"feature", "feature-2", "main"})
	testhelpers.ExpectCommits(t, scene.Repo, "main", []string{"main update", "initial"})
	testhelpers.ExpectCommits(t, scene.Repo, "feature-2", []string{"feature-2 change", "feature change", "initial"})
	testhelpers.ExpectLayout(t, scene.Repo, "main\n  feature\n    feature-2\n")

	require.True(t, scene.Repo.IsAncestor("feature", "feature-2"))
	require.False(t, scene.Repo.IsAncestor("main", "feature"))
	require.False(t, scene.Repo.RebaseInProgress())
}

// TestCreateHook checks that installed hooks are executable.
func TestCreateHook(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateHook("pre-commit", "#!/bin/sh\nexit 1\n"))

	err := scene.Repo.CreateChangeAndCommit("blocked", "blocked")
	require.Error(t, err)
}
