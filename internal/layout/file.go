package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileName is the name of the layout file inside the git directory
const DefaultFileName = "machete"

// DefaultPath returns the layout file location for a git directory
func DefaultPath(gitDir string) string {
	return filepath.Join(gitDir, DefaultFileName)
}

// Load reads the layout file at path. A missing file yields an empty layout.
func Load(path string) (*BranchLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("failed to read branch layout: %w", err)
	}
	l, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Save writes the layout to path, replacing the previous file atomically
func Save(path string, l *BranchLayout, indent string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary layout file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := Write(tmp, l, indent); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write branch layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write branch layout: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace branch layout: %w", err)
	}
	return nil
}
