package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repository override file at a canonical
// repository's root.
const LocalConfigFileName = ".tasktree.toml"

// LocalConfig holds per-repo configuration overrides from .tasktree.toml.
// Zero values indicate "not set" (inherit from global).
type LocalConfig struct {
	BaseBranch     string      `toml:"base_branch"`
	SymlinkExclude []string    `toml:"symlink_exclude"` // appended to global
	Hooks          HooksConfig `toml:"-"`               // merge by name into global
}

// rawLocalConfig is used for initial TOML parsing before processing hooks
type rawLocalConfig struct {
	BaseBranch     string         `toml:"base_branch"`
	SymlinkExclude []string       `toml:"symlink_exclude"`
	Hooks          map[string]any `toml:"hooks"`
}

// LoadLocal reads a per-repo .tasktree.toml from the given repo path.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(repoPath string) (*LocalConfig, error) {
	configFile := filepath.Join(repoPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var raw rawLocalConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	hooks, err := parseHooksConfig(raw.Hooks)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}
	if err := validateGlobs(raw.SymlinkExclude, "symlink_exclude"); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}

	return &LocalConfig{
		BaseBranch:     raw.BaseBranch,
		SymlinkExclude: raw.SymlinkExclude,
		Hooks:          hooks,
	}, nil
}
