package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"machete.dev/machete/internal/layout"
)

// LogConfig holds log file settings
type LogConfig struct {
	File       string `toml:"file"`        // log file path; empty disables file logging
	MaxSize    int    `toml:"max_size"`    // megabytes before rotation
	MaxBackups int    `toml:"max_backups"` // rotated files to keep
	MaxAge     int    `toml:"max_age"`     // days to keep rotated files
}

// GlobalConfig holds the user's machete configuration
type GlobalConfig struct {
	Indent               string    `toml:"indent"`
	SquashMergeDetection bool      `toml:"squash_merge_detection"`
	Color                string    `toml:"color"` // "auto", "always" or "never"
	Log                  LogConfig `toml:"log"`
}

// DefaultGlobal returns the default configuration
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		Indent:               layout.DefaultIndent,
		SquashMergeDetection: true,
		Color:                "auto",
		Log: LogConfig{
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// GlobalConfigPath returns the path of the global config file,
// under $XDG_CONFIG_HOME or ~/.config
func GlobalConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "machete", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "machete", "config.toml"), nil
}

// LoadGlobal reads the global config.
// Returns DefaultGlobal() if the file doesn't exist.
// Returns an error only if the file exists but is invalid.
func LoadGlobal() (GlobalConfig, error) {
	path, err := GlobalConfigPath()
	if err != nil {
		return DefaultGlobal(), nil
	}
	return LoadGlobalFrom(path)
}

// LoadGlobalFrom reads a global config file at path
func LoadGlobalFrom(path string) (GlobalConfig, error) {
	cfg := DefaultGlobal()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return DefaultGlobal(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding into the defaults keeps unset keys at their default values
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultGlobal(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := validateIndent(cfg.Indent); err != nil {
		return DefaultGlobal(), err
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return DefaultGlobal(), fmt.Errorf("invalid color %q: must be \"auto\", \"always\" or \"never\"", cfg.Color)
	}
	if cfg.Log.File != "" {
		expanded, err := expandPath(cfg.Log.File)
		if err != nil {
			return DefaultGlobal(), fmt.Errorf("expand log.file: %w", err)
		}
		cfg.Log.File = expanded
	}

	return cfg, nil
}

func validateIndent(indent string) error {
	if indent == "" {
		return fmt.Errorf("indent must not be empty")
	}
	if strings.Trim(indent, " ") != "" && strings.Trim(indent, "\t") != "" {
		return fmt.Errorf("indent must be made of only spaces or only tabs, got %q", indent)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	return path, nil
}
