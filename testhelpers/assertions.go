// Package testhelpers provides testing utilities for machete,
// including a scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err, "Failed to list branches")

	sort.Strings(branches)
	expected = append([]string{}, expected...)
	sort.Strings(expected)

	require.Equal(t, expected, branches, "Branches do not match")
}

// ExpectCommits asserts that the newest commit subjects of branch match expected.
func ExpectCommits(t *testing.T, repo *GitRepo, branch string, expected []string) {
	t.Helper()

	messages, err := repo.ListCommitMessages(branch)
	require.NoError(t, err, "Failed to list commits")

	if len(messages) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(messages))
		return
	}

	require.Equal(t, expected, messages[:len(expected)], "Commits do not match")
}

// ExpectLayout asserts the raw contents of the branch layout file.
func ExpectLayout(t *testing.T, repo *GitRepo, expected string) {
	t.Helper()

	actual, err := repo.ReadLayout()
	require.NoError(t, err, "Failed to read layout")
	require.Equal(t, expected, actual, "Layout does not match")
}
