package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	macheteerrors "machete.dev/machete/internal/errors"
)

func TestTypedErrorsMatchTheirSentinels(t *testing.T) {
	cause := errors.New("object not found")

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "branch not found",
			err:      macheteerrors.NewBranchNotFoundError("feature"),
			sentinel: macheteerrors.ErrBranchNotFound,
			message:  "branch feature does not exist",
		},
		{
			name:     "duplicate name",
			err:      macheteerrors.NewDuplicateNameError("feature"),
			sentinel: macheteerrors.ErrDuplicateName,
			message:  "feature",
		},
		{
			name:     "repository access",
			err:      macheteerrors.NewRepositoryAccessError("reflog", "refs/heads/feature", cause),
			sentinel: macheteerrors.ErrRepositoryAccess,
			message:  "refs/heads/feature",
		},
		{
			name:     "unresolved fork point",
			err:      macheteerrors.NewUnresolvedForkPointError("feature", "it shares no history with main"),
			sentinel: macheteerrors.ErrUnresolvedForkPoint,
			message:  "cannot find fork point for branch feature: it shares no history with main",
		},
		{
			name:     "hook rejected",
			err:      macheteerrors.NewHookRejectedError("machete-pre-rebase", 1, "", "no"),
			sentinel: macheteerrors.ErrHookRejected,
			message:  "machete-pre-rebase",
		},
		{
			name:     "layout parse",
			err:      macheteerrors.NewLayoutParseError(3, "too much indentation"),
			sentinel: macheteerrors.ErrLayoutParse,
			message:  "3",
		},
		{
			name:     "invalid annotation",
			err:      macheteerrors.NewInvalidAnnotationError("feature", "PR #1\nreview"),
			sentinel: macheteerrors.ErrInvalidAnnotation,
			message:  `"PR #1\nreview"`,
		},
		{
			name:     "rebase conflict",
			err:      macheteerrors.NewRebaseConflictError("feature", "CONFLICT (content)"),
			sentinel: macheteerrors.ErrRebaseConflict,
			message:  "feature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("while restacking: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.sentinel)
			require.Contains(t, tt.err.Error(), tt.message)
		})
	}

	t.Run("repository access keeps its cause", func(t *testing.T) {
		err := macheteerrors.NewRepositoryAccessError("reflog", "refs/heads/feature", cause)
		require.ErrorIs(t, err, cause)
	})

	t.Run("git command keeps its cause", func(t *testing.T) {
		err := macheteerrors.NewGitCommandError("git", []string{"status"}, "", "fatal: not a git repository", cause)
		require.ErrorIs(t, err, cause)
		require.Contains(t, err.Error(), "fatal: not a git repository")
	})
}
