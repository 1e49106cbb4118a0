package config

import (
	"path/filepath"

	"machete.dev/machete/internal/layout"
)

// Settings are the effective options of a run inside a repository
type Settings struct {
	LayoutPath           string
	Indent               string
	SquashMergeDetection bool
	Color                string
	Log                  LogConfig
}

// Resolve merges the global config with the repository config of gitDir.
// Repository values win.
func Resolve(gitDir string, global GlobalConfig) (Settings, error) {
	repo, err := GetRepoConfig(gitDir)
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		LayoutPath:           layout.DefaultPath(gitDir),
		Indent:               global.Indent,
		SquashMergeDetection: global.SquashMergeDetection,
		Color:                global.Color,
		Log:                  global.Log,
	}
	if repo.LayoutFile != nil && *repo.LayoutFile != "" {
		path := *repo.LayoutFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(gitDir, path)
		}
		settings.LayoutPath = path
	}
	if repo.Indent != nil {
		if err := validateIndent(*repo.Indent); err != nil {
			return Settings{}, err
		}
		settings.Indent = *repo.Indent
	}
	if repo.SquashMergeDetection != nil {
		settings.SquashMergeDetection = *repo.SquashMergeDetection
	}
	return settings, nil
}
