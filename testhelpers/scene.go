package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository.
// The process works inside the repository until the test ends.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "machete-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:  tmpDir,
		Repo: repo,
	}

	if err := os.Chdir(tmpDir); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to change directory: %v", err)
	}

	// Keep the developer's global settings out of the tests
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"-config")

	if setup != nil {
		if err := setup(scene); err != nil {
			os.Chdir(oldDir)
			os.RemoveAll(tmpDir)
			t.Fatalf("Setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		os.Chdir(oldDir)
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(tmpDir)
			os.RemoveAll(tmpDir + "-config")
			remotes, _ := filepath.Glob(tmpDir + "-*.git")
			for _, remote := range remotes {
				os.RemoveAll(remote)
			}
		}
	})

	return scene
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// StackSceneSetup creates main with one commit, feature on top of it and
// feature-2 on top of feature, then moves main ahead. The layout declares
// main > feature > feature-2.
func StackSceneSetup(scene *Scene) error {
	steps := []func() error{
		func() error { return scene.Repo.CreateChangeAndCommit("initial", "init") },
		func() error { return scene.Repo.CreateAndCheckoutBranch("feature") },
		func() error { return scene.Repo.CreateChangeAndCommit("feature change", "feature") },
		func() error { return scene.Repo.CreateAndCheckoutBranch("feature-2") },
		func() error { return scene.Repo.CreateChangeAndCommit("feature-2 change", "feature2") },
		func() error { return scene.Repo.CheckoutBranch("main") },
		func() error { return scene.Repo.CreateChangeAndCommit("main update", "main") },
		func() error { return scene.Repo.WriteLayout("main\n  feature\n    feature-2\n") },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
