package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"slices"
	"strings"

	"github.com/raphi011/tasktree/internal/config"
	"github.com/raphi011/tasktree/internal/log"
)

// shellQuote escapes a string for safe use in shell commands.
// It wraps the value in single quotes and escapes any embedded single quotes.
func shellQuote(s string) string {
	// Single quotes preserve everything literally except single quotes themselves.
	// e.g., "it's" becomes 'it'\''s'
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Trigger identifies the lifecycle event running the hook
type Trigger string

const (
	TriggerCreate Trigger = config.TriggerCreate
	TriggerFinish Trigger = config.TriggerFinish
)

// Context holds the values for placeholder substitution
type Context struct {
	Task     string            // task name
	Path     string            // absolute worktree path
	Branch   string            // branch name
	Repo     string            // repository name relative to repos_dir
	MainRepo string            // canonical repository path
	Trigger  Trigger           // event that triggered the hook
	Env      map[string]string // custom variables from --arg key=value flags
	DryRun   bool              // if true, print command instead of executing
}

// HookMatch represents a hook that matched the current trigger
type HookMatch struct {
	Hook *config.Hook
	Name string
}

// SelectHooks determines which hooks to run based on config and CLI flags.
// If hookName is specified, only that hook runs. Otherwise, all enabled hooks
// whose "on" list contains the trigger (or "all") run, sorted by name.
// Returns nil slice if no hooks should run, error if specified hook doesn't exist.
func SelectHooks(cfg config.HooksConfig, hookName string, noHook bool, trigger Trigger) ([]HookMatch, error) {
	if noHook {
		return nil, nil
	}

	// If explicit hook specified, use it directly (ignores "on" condition)
	if hookName != "" {
		hook, exists := cfg.Hooks[hookName]
		if !exists || !hook.IsEnabled() {
			return nil, fmt.Errorf("unknown hook %q", hookName)
		}
		return []HookMatch{{Hook: &hook, Name: hookName}}, nil
	}

	return findMatchingHooks(cfg, trigger), nil
}

// findMatchingHooks returns all hooks that have the trigger in their "on" list.
// Hooks without "on" are skipped (they only run via explicit --hook=name).
func findMatchingHooks(cfg config.HooksConfig, trigger Trigger) []HookMatch {
	var matches []HookMatch

	for name, hook := range cfg.Hooks {
		if hook.IsEnabled() && hookMatchesTrigger(hook, trigger) {
			matches = append(matches, HookMatch{Hook: &hook, Name: name})
		}
	}

	slices.SortFunc(matches, func(a, b HookMatch) int { return strings.Compare(a.Name, b.Name) })
	return matches
}

// hookMatchesTrigger returns true if trigger is in the hook's "on" list.
// Special value "all" matches every trigger.
func hookMatchesTrigger(hook config.Hook, trigger Trigger) bool {
	for _, on := range hook.On {
		if on == config.TriggerAll || on == string(trigger) {
			return true
		}
	}
	return false
}

// RunForEach runs all matched hooks for one worktree of a batch.
// Failures are logged as warnings and never stop the batch.
func RunForEach(ctx context.Context, matches []HookMatch, hctx Context) {
	l := log.FromContext(ctx)
	for _, match := range matches {
		if err := runHook(ctx, match.Name, match.Hook, hctx); err != nil {
			l.Printf("Warning: hook %q failed for %s: %v\n", match.Name, hctx.Repo, err)
		}
	}
}

// runHook executes a single hook with variable substitution in the
// worktree directory. Hook output goes to the log writer so stdout stays
// reserved for command results.
func runHook(ctx context.Context, name string, hook *config.Hook, hctx Context) error {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(hook.Command, hctx)

	if hctx.DryRun {
		l.Printf("[dry-run] %s: %s\n", name, command)
		return nil
	}

	l.Printf("Running hook '%s' in %s...\n", name, hctx.Repo)

	shellCmd := exec.CommandContext(ctx, "sh", "-c", command)
	shellCmd.Dir = hctx.Path
	shellCmd.Stdout = l.Writer()
	shellCmd.Stderr = l.Writer()

	if err := shellCmd.Run(); err != nil {
		return err
	}

	if hook.Description != "" {
		l.Printf("  ✓ %s\n", hook.Description)
	}
	return nil
}

// ParseEnv parses a slice of "key=value" strings into a map.
// Returns an error if any entry doesn't contain "=".
func ParseEnv(envSlice []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, e := range envSlice {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid arg format %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid arg format %q: key cannot be empty", e)
		}
		result[key] = value
	}
	return result, nil
}

// envPlaceholderRegex matches {key}, {key:raw}, or {key:-default} patterns for env variables.
// This is used after static replacements to expand custom env placeholders.
// Supported formats:
//   - {key}           - value is shell-quoted
//   - {key:raw}       - value is used as-is (no quoting)
//   - {key:-default}  - value is shell-quoted, uses default if key not set
var envPlaceholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values from Context.
// Values are properly escaped to prevent command injection.
//
// Static placeholders: {task}, {path}, {branch}, {repo}, {main-repo}, {trigger}
// Env placeholders (from Context.Env):
//   - {key}         - shell-quoted value
//   - {key:raw}     - unquoted value (for embedding in existing quotes)
//   - {key:-default} - shell-quoted value with default if key missing
func SubstitutePlaceholders(command string, hctx Context) string {
	replacements := map[string]string{
		"{task}":      shellQuote(hctx.Task),
		"{path}":      shellQuote(hctx.Path),
		"{branch}":    shellQuote(hctx.Branch),
		"{repo}":      shellQuote(hctx.Repo),
		"{main-repo}": shellQuote(hctx.MainRepo),
		"{trigger}":   shellQuote(string(hctx.Trigger)),
	}

	result := command
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	result = envPlaceholderRegex.ReplaceAllStringFunc(result, func(match string) string {
		submatch := envPlaceholderRegex.FindStringSubmatch(match)
		if submatch == nil {
			return match
		}
		key := submatch[1]
		isRaw := submatch[2] == ":raw"
		defaultVal := submatch[3] // empty string if no default specified

		if val, ok := hctx.Env[key]; ok {
			if isRaw {
				return val
			}
			return shellQuote(val)
		}

		if isRaw {
			return defaultVal
		}
		return shellQuote(defaultVal)
	})

	return result
}
