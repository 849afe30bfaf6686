package hooks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/tasktree/internal/config"
	"github.com/raphi011/tasktree/internal/log"
)

func TestSubstitutePlaceholders(t *testing.T) {
	t.Parallel()

	ctx := Context{
		Task:     "PROJ-123",
		Path:     "/home/user/tasks/PROJ-123/api",
		Branch:   "PROJ-123",
		Repo:     "api",
		MainRepo: "/home/user/repos/api",
		Trigger:  TriggerCreate,
	}

	tests := []struct {
		name     string
		command  string
		expected string
	}{
		{
			name:     "single placeholder",
			command:  "code {path}",
			expected: "code '/home/user/tasks/PROJ-123/api'",
		},
		{
			name:     "multiple placeholders",
			command:  "cd {path} && echo {branch}",
			expected: "cd '/home/user/tasks/PROJ-123/api' && echo 'PROJ-123'",
		},
		{
			name:     "all placeholders",
			command:  "{task} {path} {branch} {repo} {main-repo} {trigger}",
			expected: "'PROJ-123' '/home/user/tasks/PROJ-123/api' 'PROJ-123' 'api' '/home/user/repos/api' 'create'",
		},
		{
			name:     "no placeholders",
			command:  "echo hello",
			expected: "echo hello",
		},
		{
			name:     "repeated placeholder",
			command:  "{repo} and {repo}",
			expected: "'api' and 'api'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := SubstitutePlaceholders(tt.command, ctx)
			if result != tt.expected {
				t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, result, tt.expected)
			}
		})
	}
}

func TestSubstitutePlaceholders_ShellEscaping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ctx      Context
		command  string
		expected string
	}{
		{
			name:     "path with spaces",
			ctx:      Context{Path: "/home/user/my tasks/api"},
			command:  "code {path}",
			expected: "code '/home/user/my tasks/api'",
		},
		{
			name:     "single quote in value",
			ctx:      Context{Task: "it's"},
			command:  "echo {task}",
			expected: `echo 'it'\''s'`,
		},
		{
			name:     "command substitution stays literal",
			ctx:      Context{Repo: "$(rm -rf /)"},
			command:  "echo {repo}",
			expected: "echo '$(rm -rf /)'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SubstitutePlaceholders(tt.command, tt.ctx); got != tt.expected {
				t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, got, tt.expected)
			}
		})
	}
}

func TestSubstitutePlaceholders_Env(t *testing.T) {
	t.Parallel()

	ctx := Context{Env: map[string]string{"prompt": "fix the bug", "editor": "vim"}}

	tests := []struct {
		command  string
		expected string
	}{
		{command: "claude {prompt}", expected: "claude 'fix the bug'"},
		{command: `echo "{prompt:raw}"`, expected: `echo "fix the bug"`},
		{command: "open {editor:-code}", expected: "open 'vim'"},
		{command: "open {ide:-code}", expected: "open 'code'"},
		{command: "echo {missing}", expected: "echo ''"},
		{command: "echo {missing:raw}", expected: "echo "},
	}

	for _, tt := range tests {
		if got := SubstitutePlaceholders(tt.command, ctx); got != tt.expected {
			t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, got, tt.expected)
		}
	}
}

func TestParseEnv(t *testing.T) {
	t.Parallel()

	env, err := ParseEnv([]string{"a=1", "b=x=y", "empty="})
	if err != nil {
		t.Fatalf("ParseEnv failed: %v", err)
	}
	if env["a"] != "1" || env["b"] != "x=y" || env["empty"] != "" {
		t.Errorf("ParseEnv = %v", env)
	}

	for _, bad := range []string{"novalue", "=value"} {
		if _, err := ParseEnv([]string{bad}); err == nil {
			t.Errorf("ParseEnv(%q) should fail", bad)
		}
	}
}

func TestSelectHooks(t *testing.T) {
	t.Parallel()

	cfg := config.HooksConfig{
		Hooks: map[string]config.Hook{
			"vscode": {Command: "code {path}"},
		},
	}

	matches, err := SelectHooks(cfg, "vscode", false, TriggerCreate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "vscode" {
		t.Errorf("expected vscode, got %v", matches)
	}

	if _, err := SelectHooks(cfg, "nonexistent", false, TriggerCreate); err == nil {
		t.Error("expected error for unknown hook")
	}

	matches, err = SelectHooks(cfg, "vscode", true, TriggerCreate)
	if err != nil || matches != nil {
		t.Errorf("--no-hook should select nothing, got %v, %v", matches, err)
	}
}

func TestSelectHooks_NoOnCondition(t *testing.T) {
	t.Parallel()

	cfg := config.HooksConfig{
		Hooks: map[string]config.Hook{
			"manual": {Command: "echo manual"},
		},
	}

	matches, err := SelectHooks(cfg, "", false, TriggerCreate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("hooks without on should not run automatically, got %v", matches)
	}
}

func TestSelectHooks_EmptyConfig(t *testing.T) {
	t.Parallel()

	matches, err := SelectHooks(config.HooksConfig{}, "", false, TriggerFinish)
	if err != nil || len(matches) != 0 {
		t.Errorf("SelectHooks(empty) = %v, %v", matches, err)
	}
}

func TestSelectHooks_OnCondition(t *testing.T) {
	t.Parallel()

	cfg := config.HooksConfig{
		Hooks: map[string]config.Hook{
			"install": {Command: "npm install", On: []string{"create"}},
			"cleanup": {Command: "make clean", On: []string{"finish"}},
			"notify":  {Command: "notify", On: []string{"all"}},
			"off":     {Command: "echo off", On: []string{"create"}, Enabled: new(bool)},
		},
	}

	tests := []struct {
		trigger Trigger
		want    []string
	}{
		{trigger: TriggerCreate, want: []string{"install", "notify"}},
		{trigger: TriggerFinish, want: []string{"cleanup", "notify"}},
	}

	for _, tt := range tests {
		matches, err := SelectHooks(cfg, "", false, tt.trigger)
		if err != nil {
			t.Fatalf("SelectHooks(%s) failed: %v", tt.trigger, err)
		}
		var got []string
		for _, m := range matches {
			got = append(got, m.Name)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("SelectHooks(%s) = %v, want %v", tt.trigger, got, tt.want)
		}
	}
}

func TestSelectHooks_DisabledExplicit(t *testing.T) {
	t.Parallel()

	cfg := config.HooksConfig{
		Hooks: map[string]config.Hook{
			"off": {Command: "echo off", Enabled: new(bool)},
		},
	}
	if _, err := SelectHooks(cfg, "off", false, TriggerCreate); err == nil {
		t.Error("disabled hook should not be selectable")
	}
}

func TestRunForEach(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, false, false))

	matches := []HookMatch{
		{Name: "fail", Hook: &config.Hook{Command: "exit 3"}},
		{Name: "touch", Hook: &config.Hook{Command: "echo {task} > marker.txt", Description: "marked"}},
	}
	RunForEach(ctx, matches, NewContext("PROJ-1", "api", dir, "/repos/api", TriggerCreate, nil))

	data, err := os.ReadFile(filepath.Join(dir, "marker.txt"))
	if err != nil {
		t.Fatalf("hook after a failing one did not run: %v", err)
	}
	if strings.TrimSpace(string(data)) != "PROJ-1" {
		t.Errorf("marker = %q, want PROJ-1", data)
	}

	out := buf.String()
	if !strings.Contains(out, `Warning: hook "fail" failed for api`) {
		t.Errorf("missing warning in %q", out)
	}
	if !strings.Contains(out, "✓ marked") {
		t.Errorf("missing description in %q", out)
	}
}

func TestRunForEach_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, false, false))

	hctx := NewContext("PROJ-1", "api", dir, "", TriggerFinish, nil)
	hctx.DryRun = true
	RunForEach(ctx, []HookMatch{{Name: "touch", Hook: &config.Hook{Command: "touch x"}}}, hctx)

	if _, err := os.Stat(filepath.Join(dir, "x")); err == nil {
		t.Error("dry run executed the command")
	}
	if !strings.Contains(buf.String(), "[dry-run] touch: touch x") {
		t.Errorf("dry run output = %q", buf.String())
	}
}
