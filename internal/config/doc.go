// Package config manages machete configuration.
//
// It handles:
//   - Repository-specific configuration (JSON, in the git directory)
//   - Global user configuration (TOML, under the XDG config directory)
//   - Resolving both into the effective settings of a run
package config
