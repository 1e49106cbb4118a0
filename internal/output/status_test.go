package output_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"machete.dev/machete/internal/engine"
	macheteerrors "machete.dev/machete/internal/errors"
	"machete.dev/machete/internal/layout"
	"machete.dev/machete/internal/output"
)

// stubPort serves fixed branch commits and answers ancestry from a parent map
type stubPort struct {
	branches map[string]string
	parents  map[string]string
	reflogs  map[string][]engine.ReflogEntry
	// tracking maps local branches to the commit of their origin counterpart
	tracking map[string]string
}

func (p *stubPort) ResolveBranch(_ context.Context, name string) (engine.Commit, error) {
	hash, ok := p.branches[name]
	if !ok {
		return engine.Commit{}, macheteerrors.NewBranchNotFoundError(name)
	}
	return engine.Commit{Hash: hash, TreeHash: "t" + hash}, nil
}

func (p *stubPort) CurrentCommitOf(_ context.Context, ref string) (engine.Commit, error) {
	return engine.Commit{Hash: ref, TreeHash: "t" + ref}, nil
}

func (p *stubPort) Reflog(_ context.Context, ref string) ([]engine.ReflogEntry, error) {
	return p.reflogs[ref], nil
}

func (p *stubPort) history(hash string) []string {
	var h []string
	for hash != "" {
		h = append(h, hash)
		hash = p.parents[hash]
	}
	return h
}

func (p *stubPort) MergeBase(_ context.Context, a, b string) (string, bool, error) {
	inB := make(map[string]bool)
	for _, h := range p.history(b) {
		inB[h] = true
	}
	for _, h := range p.history(a) {
		if inB[h] {
			return h, true, nil
		}
	}
	return "", false, nil
}

func (p *stubPort) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	for _, h := range p.history(descendant) {
		if h == ancestor {
			return true, nil
		}
	}
	return false, nil
}

func (p *stubPort) CommitsBetween(_ context.Context, from, stop string) ([]engine.Commit, error) {
	var commits []engine.Commit
	for _, h := range p.history(from) {
		if h == stop {
			break
		}
		commits = append(commits, engine.Commit{Hash: h, TreeHash: "t" + h, Subject: "change " + h})
	}
	return commits, nil
}

func (p *stubPort) Remotes(_ context.Context) ([]string, error) {
	if len(p.tracking) == 0 {
		return nil, nil
	}
	return []string{"origin"}, nil
}

func (p *stubPort) RemoteTrackingBranch(_ context.Context, name string) (engine.RemoteBranch, bool, error) {
	hash, ok := p.tracking[name]
	if !ok {
		return engine.RemoteBranch{}, false, nil
	}
	return engine.RemoteBranch{
		Remote: "origin",
		Name:   "origin/" + name,
		Commit: engine.Commit{Hash: hash, TreeHash: "t" + hash},
	}, true, nil
}

func snapshot(t *testing.T) *engine.RepositorySnapshot {
	t.Helper()
	return snapshotTracking(t, nil)
}

// snapshotTracking builds the fixture with origin counterparts for some branches
func snapshotTracking(t *testing.T, tracking map[string]string) *engine.RepositorySnapshot {
	t.Helper()
	l, err := layout.ParseString("main\n  feature-a\n    feature-a2\n  feature-b PR #12\n  merged\n  gone\nhotfix\n")
	require.NoError(t, err)

	// main: 1 <- 2; feature-a: 1 <- a; feature-a2: a <- a2; feature-b: 2 <- b; merged: 1
	port := &stubPort{
		branches: map[string]string{
			"main": "2", "feature-a": "a", "feature-a2": "a2", "feature-b": "b", "merged": "1", "hotfix": "h",
		},
		parents: map[string]string{"2": "1", "a": "1", "a2": "a", "b": "2"},
		reflogs: map[string][]engine.ReflogEntry{
			"refs/heads/main": {{Commit: "2", Action: "commit: 2"}, {Commit: "1", Action: "commit (initial): 1"}},
		},
		tracking: tracking,
	}
	s, err := engine.BuildSnapshot(context.Background(), l, port)
	require.NoError(t, err)
	return s
}

func TestStatusRenderer(t *testing.T) {
	t.Run("draws the tree with status markers", func(t *testing.T) {
		var buf bytes.Buffer
		renderer := output.NewStatusRenderer(output.PlainPalette(&buf), output.StatusOptions{CurrentBranch: "feature-a"})

		lines := renderer.Render(snapshot(t))

		require.Equal(t, strings.Join([]string{
			"  main",
			"  |",
			"  x-feature-a",
			"  | |",
			"  | o-feature-a2",
			"  |",
			"  o-feature-b PR #12",
			"  |",
			"  m-merged (merged into main)",
			"  |",
			"   -gone (not in repository)",
			"",
			"  hotfix",
		}, "\n"), strings.Join(lines, "\n"))
	})

	t.Run("shows fork points on request", func(t *testing.T) {
		var buf bytes.Buffer
		renderer := output.NewStatusRenderer(output.PlainPalette(&buf), output.StatusOptions{ShowForkPoints: true})

		lines := renderer.Render(snapshot(t))

		require.Contains(t, lines, "  x-feature-a (fork point 1)")
		require.Contains(t, lines, "  m-merged (merged into main)")
	})

	t.Run("lists commits above each fork point", func(t *testing.T) {
		var buf bytes.Buffer
		renderer := output.NewStatusRenderer(output.PlainPalette(&buf), output.StatusOptions{ListCommits: true})

		lines := renderer.Render(snapshot(t))

		require.Equal(t, strings.Join([]string{
			"  main",
			"  |",
			"  | a change a",
			"  x-feature-a",
			"  | |",
			"  | | a2 change a2",
			"  | o-feature-a2",
			"  |",
			"  | b change b",
			"  o-feature-b PR #12",
			"  |",
			"  m-merged (merged into main)",
			"  |",
			"   -gone (not in repository)",
			"",
			"  hotfix",
		}, "\n"), strings.Join(lines, "\n"))
	})

	t.Run("notes the relation to remote-tracking branches", func(t *testing.T) {
		var buf bytes.Buffer
		renderer := output.NewStatusRenderer(output.PlainPalette(&buf), output.StatusOptions{})

		lines := renderer.Render(snapshotTracking(t, map[string]string{
			"main":      "2",
			"feature-b": "2",
			"feature-a": "a2",
			"hotfix":    "h",
		}))

		require.Contains(t, lines, "  main")
		require.Contains(t, lines, "  o-feature-b PR #12 (ahead of origin)")
		require.Contains(t, lines, "  x-feature-a (behind origin)")
		require.Contains(t, lines, "  | o-feature-a2 (untracked)")
		require.Contains(t, lines, "  m-merged (merged into main, untracked)")
		require.Contains(t, lines, "   -gone (not in repository)")
		require.Contains(t, lines, "  hotfix")
	})
}
