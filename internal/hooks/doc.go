// Package hooks runs user-defined shell commands around task lifecycle events.
//
// Hooks are shell commands defined in config that run per worktree after a
// task is created (or a repository is added to it) and before a task is
// finished. They enable workflow automation such as installing dependencies
// or opening editors.
//
// # Hook Selection
//
//   - Automatic: hooks whose "on" list contains the trigger (or "all") run
//   - Manual: --hook=name runs a single hook regardless of "on"
//   - --no-hook skips all hooks
//
// Example config:
//
//	[hooks.install]
//	command = "npm install"
//	on = ["create"]
//
// # Placeholder Substitution
//
// Static placeholders, all shell-quoted:
//
//   - {task}: task name
//   - {path}: absolute worktree path
//   - {branch}: branch name (same as the task)
//   - {repo}: repository name relative to repos_dir
//   - {main-repo}: canonical repository path
//   - {trigger}: create or finish
//
// Custom variables via --arg key=value:
//
//   - {key}: value from --arg key=value
//   - {key:raw}: value without quoting
//   - {key:-default}: value with fallback if not provided
//
// Hooks run with the working directory set to the worktree. Failures are
// logged as warnings and never stop the remaining worktrees.
package hooks
