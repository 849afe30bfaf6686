package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Hook defines a shell command run around task lifecycle events.
type Hook struct {
	Command     string   `toml:"command" json:"command"`
	Description string   `toml:"description,omitempty" json:"description,omitempty"`
	On          []string `toml:"on" json:"on"` // triggers this hook runs on: create, finish, all
	Enabled     *bool    `toml:"enabled,omitempty" json:"enabled,omitempty"`
}

// IsEnabled reports whether the hook is active. Hooks are enabled unless a
// config sets enabled = false.
func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// HooksConfig holds hook-related configuration
type HooksConfig struct {
	Hooks map[string]Hook `toml:"-"` // parsed from [hooks.NAME] sections
}

// MarshalJSON encodes the hooks as an object keyed by name.
func (h HooksConfig) MarshalJSON() ([]byte, error) {
	if h.Hooks == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h.Hooks)
}

// Timeouts bounds git invocations by kind.
type Timeouts struct {
	Read    time.Duration
	Branch  time.Duration
	Network time.Duration
}

// MarshalJSON encodes the timeouts as duration strings like the config file.
func (t Timeouts) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawTimeouts{
		Read:    t.Read.String(),
		Branch:  t.Branch.String(),
		Network: t.Network.String(),
	})
}

// Config holds the tasktree configuration
type Config struct {
	ReposDir       string      `toml:"repos_dir" json:"repos_dir"`
	TasksDir       string      `toml:"tasks_dir" json:"tasks_dir"`
	BaseBranch     string      `toml:"base_branch" json:"base_branch"`
	SymlinkExclude []string    `toml:"symlink_exclude" json:"symlink_exclude"`
	Timeouts       Timeouts    `toml:"-" json:"timeouts"`
	Hooks          HooksConfig `toml:"-" json:"hooks"` // custom parsing needed
}

// Defaults used when the config file leaves a setting empty.
const (
	DefaultBaseBranch = "main"
	DefaultReposDir   = "~/repos"
	DefaultTasksDir   = "~/tasks"
)

// DefaultSymlinkExclude lists generated files never linked into worktrees.
var DefaultSymlinkExclude = []string{"*.pyc", "*.pyo", "*.class", "*.log", ".DS_Store"}

// DefaultTimeouts returns the git deadlines used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Read:    5 * time.Second,
		Branch:  10 * time.Second,
		Network: 60 * time.Second,
	}
}

// Default returns the default configuration with directories expanded.
func Default() Config {
	repos, _ := expandPath(DefaultReposDir)
	tasks, _ := expandPath(DefaultTasksDir)
	return Config{
		ReposDir:       repos,
		TasksDir:       tasks,
		BaseBranch:     DefaultBaseBranch,
		SymlinkExclude: append([]string(nil), DefaultSymlinkExclude...),
		Timeouts:       DefaultTimeouts(),
		Hooks:          HooksConfig{Hooks: map[string]Hook{}},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	// Allow ~ paths
	if path[0] == '~' {
		return nil
	}
	// Must be absolute
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file location:
// $XDG_CONFIG_HOME/tasktree/config.toml, or ~/.config/tasktree/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tasktree", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tasktree", "config.toml"), nil
}

// rawTimeouts holds duration strings as written in the file.
type rawTimeouts struct {
	Read    string `toml:"read" json:"read"`
	Branch  string `toml:"branch" json:"branch"`
	Network string `toml:"network" json:"network"`
}

// rawConfig is used for initial TOML parsing before processing hooks
type rawConfig struct {
	ReposDir       string         `toml:"repos_dir"`
	TasksDir       string         `toml:"tasks_dir"`
	BaseBranch     string         `toml:"base_branch"`
	SymlinkExclude []string       `toml:"symlink_exclude"`
	Timeouts       rawTimeouts    `toml:"timeouts"`
	Hooks          map[string]any `toml:"hooks"`
}

// Load reads the config file at Path and applies the REPOS_DIR and TASKS_DIR
// environment overrides.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(Default())
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return Default(), err
	}
	return applyEnv(cfg)
}

// LoadFile reads and validates the config file at path without environment
// overrides. A missing file yields Default().
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates config file content.
func Parse(data []byte) (Config, error) {
	var raw rawConfig
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	hooks, err := parseHooksConfig(raw.Hooks)
	if err != nil {
		return Default(), err
	}

	cfg := Default()
	cfg.Hooks = hooks
	if raw.BaseBranch != "" {
		cfg.BaseBranch = raw.BaseBranch
	}
	// An explicit empty list disables exclusions.
	if md.IsDefined("symlink_exclude") {
		cfg.SymlinkExclude = raw.SymlinkExclude
	}
	if err := validateGlobs(cfg.SymlinkExclude, "symlink_exclude"); err != nil {
		return Default(), err
	}

	for _, d := range []struct {
		field string
		raw   string
		dst   *string
	}{
		{"repos_dir", raw.ReposDir, &cfg.ReposDir},
		{"tasks_dir", raw.TasksDir, &cfg.TasksDir},
	} {
		if d.raw == "" {
			continue
		}
		if err := ValidatePath(d.raw, d.field); err != nil {
			return Default(), err
		}
		expanded, err := expandPath(d.raw)
		if err != nil {
			return Default(), fmt.Errorf("expand %s: %w", d.field, err)
		}
		*d.dst = expanded
	}

	for _, d := range []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"timeouts.read", raw.Timeouts.Read, &cfg.Timeouts.Read},
		{"timeouts.branch", raw.Timeouts.Branch, &cfg.Timeouts.Branch},
		{"timeouts.network", raw.Timeouts.Network, &cfg.Timeouts.Network},
	} {
		if d.raw == "" {
			continue
		}
		v, err := parseTimeout(d.raw, d.field)
		if err != nil {
			return Default(), err
		}
		*d.dst = v
	}

	return cfg, nil
}

// applyEnv overrides directories from REPOS_DIR and TASKS_DIR.
func applyEnv(cfg Config) (Config, error) {
	for _, e := range []struct {
		name string
		dst  *string
	}{
		{"REPOS_DIR", &cfg.ReposDir},
		{"TASKS_DIR", &cfg.TasksDir},
	} {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		if err := ValidatePath(v, e.name); err != nil {
			return cfg, err
		}
		expanded, err := expandPath(v)
		if err != nil {
			return cfg, fmt.Errorf("expand %s: %w", e.name, err)
		}
		*e.dst = expanded
	}
	return cfg, nil
}

func parseTimeout(s, field string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", field, s)
	}
	return d, nil
}

// parseHooksConfig extracts HooksConfig from raw TOML map
// Handles [hooks.NAME] sections
func parseHooksConfig(raw map[string]any) (HooksConfig, error) {
	hc := HooksConfig{
		Hooks: make(map[string]Hook),
	}

	for key, value := range raw {
		// Hook definitions are tables
		hookMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		hook := Hook{}
		if cmd, ok := hookMap["command"].(string); ok {
			hook.Command = cmd
		}
		if desc, ok := hookMap["description"].(string); ok {
			hook.Description = desc
		}
		if on, ok := hookMap["on"].([]any); ok {
			for _, v := range on {
				if s, ok := v.(string); ok {
					hook.On = append(hook.On, s)
				}
			}
		}
		if enabled, ok := hookMap["enabled"].(bool); ok {
			hook.Enabled = &enabled
		}

		for _, trigger := range hook.On {
			if err := validateEnum(trigger, fmt.Sprintf("hooks.%s.on", key), ValidTriggers); err != nil {
				return hc, err
			}
		}
		if hook.IsEnabled() && hook.Command == "" {
			return hc, fmt.Errorf("hooks.%s: command is required", key)
		}
		hc.Hooks[key] = hook
	}

	return hc, nil
}

// view is the TOML shape of an effective Config.
type view struct {
	ReposDir       string          `toml:"repos_dir"`
	TasksDir       string          `toml:"tasks_dir"`
	BaseBranch     string          `toml:"base_branch"`
	SymlinkExclude []string        `toml:"symlink_exclude"`
	Timeouts       rawTimeouts     `toml:"timeouts"`
	Hooks          map[string]Hook `toml:"hooks,omitempty"`
}

// Encode writes the effective configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	v := view{
		ReposDir:       c.ReposDir,
		TasksDir:       c.TasksDir,
		BaseBranch:     c.BaseBranch,
		SymlinkExclude: c.SymlinkExclude,
		Timeouts: rawTimeouts{
			Read:    c.Timeouts.Read.String(),
			Branch:  c.Timeouts.Branch.String(),
			Network: c.Timeouts.Network.String(),
		},
		Hooks: c.Hooks.Hooks,
	}
	return toml.NewEncoder(w).Encode(v)
}

const defaultConfig = `# tasktree configuration

# Directory containing your canonical git repositories.
# Repositories may be nested (e.g. backend/api).
# Must be an absolute path or start with ~ (no relative paths like "." or "..")
# Overridden by the REPOS_DIR environment variable.
repos_dir = "~/repos"

# Directory holding one folder per task.
# Overridden by the TASKS_DIR environment variable.
tasks_dir = "~/tasks"

# Branch new task worktrees start from when --base is not given.
base_branch = "main"

# Ignored files (per .gitignore) are linked from the canonical repository
# into each new worktree. Files whose name matches one of these globs are
# left out and regenerated per worktree instead.
symlink_exclude = ["*.pyc", "*.pyo", "*.class", "*.log", ".DS_Store"]

# Deadlines for git invocations.
# [timeouts]
# read = "5s"      # status, branch and ancestry queries
# branch = "10s"   # branch existence checks
# network = "60s"  # fetch, pull, push, worktree add

# Hooks - run commands per worktree around task lifecycle events
# Use --no-hook to skip all hooks
#
# [hooks.install]
# command = "cd {path} && npm install"
# description = "Install dependencies"
# on = ["create"]
#
# [hooks.archive]
# command = "echo '{task} done in {repo}' >> ~/tasks.log"
# on = ["finish"]
#
# Available "on" values: "create", "finish", "all"
#
# Hooks run with working directory set to the worktree path.
# "finish" hooks run before the worktree is removed.
#
# Available placeholders (values are shell-quoted):
#   {task}      - task name (also the branch name)
#   {path}      - absolute worktree path
#   {branch}    - branch name
#   {repo}      - repository name relative to repos_dir
#   {main-repo} - canonical repository path
#   {trigger}   - event that triggered the hook (create, finish)
#
# Repositories can add or disable hooks, append symlink_exclude patterns and
# change base_branch in a .tasktree.toml at their root.
`

// WriteDefault writes the commented default config file content to w.
func WriteDefault(w io.Writer) error {
	_, err := io.WriteString(w, defaultConfig)
	return err
}

// Init creates a default config file at Path().
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, InitAt(path, force)
}

// InitAt writes the default config file to path.
func InitAt(path string, force bool) error {
	// Check if file already exists (skip if force)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
