package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// RepoConfigFileName is the per-repository config file, stored in the git directory
const RepoConfigFileName = ".machete_config"

// RepoConfig represents the repository configuration.
// Unset fields fall back to the global config.
type RepoConfig struct {
	LayoutFile           *string `json:"layoutFile,omitempty"`
	Indent               *string `json:"indent,omitempty"`
	SquashMergeDetection *bool   `json:"squashMergeDetection,omitempty"`
}

// RepoConfigPath returns the path of the repository config
func RepoConfigPath(gitDir string) string {
	return filepath.Join(gitDir, RepoConfigFileName)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(gitDir string) (*RepoConfig, error) {
	data, err := os.ReadFile(RepoConfigPath(gitDir))
	if errors.Is(err, os.ErrNotExist) {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read repo config: %w", err)
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// SaveRepoConfig writes the repository configuration
func SaveRepoConfig(gitDir string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(RepoConfigPath(gitDir), configJSON, 0600)
}

// SetLayoutFile points the repository at a different layout file
func SetLayoutFile(gitDir, path string) error {
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		return err
	}
	config.LayoutFile = &path
	return SaveRepoConfig(gitDir, config)
}

// SetSquashMergeDetection toggles squash merge detection for the repository
func SetSquashMergeDetection(gitDir string, enabled bool) error {
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		return err
	}
	config.SquashMergeDetection = &enabled
	return SaveRepoConfig(gitDir, config)
}
