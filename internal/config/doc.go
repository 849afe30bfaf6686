// Package config handles loading and validation of tasktree configuration.
//
// Configuration is read from $XDG_CONFIG_HOME/tasktree/config.toml
// (~/.config/tasktree/config.toml by default) with environment variable
// overrides for directory settings.
//
// # Configuration Sources (highest priority first)
//
//   - REPOS_DIR env var: directory holding canonical repositories
//   - TASKS_DIR env var: directory holding task folders
//   - Per-repo .tasktree.toml (base_branch, symlink_exclude, hooks)
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - repos_dir: canonical repositories (default "~/repos")
//   - tasks_dir: one folder per task (default "~/tasks")
//   - base_branch: branch new worktrees start from (default "main")
//   - symlink_exclude: filename globs never linked into worktrees
//   - [timeouts]: read, branch and network deadlines as durations ("5s")
//
// # Hooks Configuration
//
// Hooks are defined in [hooks.NAME] sections:
//
//	[hooks.install]
//	command = "cd {path} && npm install"
//	description = "Install dependencies"
//	on = ["create"]
//
// Hooks run per worktree for the triggers in their "on" list (create, finish
// or all). A per-repo .tasktree.toml can add hooks or disable a global one
// with enabled = false.
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
