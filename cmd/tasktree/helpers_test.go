package main

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/config"
	"github.com/raphi011/tasktree/internal/hooks"
	"github.com/raphi011/tasktree/internal/task"
)

func TestFilterRepos(t *testing.T) {
	t.Parallel()

	repos := []string{"backend/api", "frontend/web", "docs", "api-gateway"}

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{name: "empty pattern keeps order", pattern: "", want: repos},
		{name: "no match", pattern: "zzz", want: []string{}},
		{name: "subsequence match", pattern: "web", want: []string{"frontend/web"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := filterRepos(repos, tt.pattern)
			if !slices.Equal(got, tt.want) {
				t.Errorf("filterRepos(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}

	got := filterRepos(repos, "api")
	if len(got) != 2 || !slices.Contains(got, "backend/api") || !slices.Contains(got, "api-gateway") {
		t.Errorf("filterRepos(api) = %v, want both api repositories", got)
	}
}

func TestNewWorktrees(t *testing.T) {
	t.Parallel()

	before := []task.Worktree{{Name: "api"}}
	after := []task.Worktree{{Name: "api"}, {Name: "web"}, {Name: "docs"}}

	got := newWorktrees(before, after)
	var names []string
	for _, wt := range got {
		names = append(names, wt.Name)
	}
	if !slices.Equal(names, []string{"web", "docs"}) {
		t.Errorf("newWorktrees() = %v, want [web docs]", names)
	}

	if got := newWorktrees(after, after); len(got) != 0 {
		t.Errorf("newWorktrees(same) = %v, want none", got)
	}
}

func TestSummarizeFailures(t *testing.T) {
	t.Parallel()

	ok := []task.OpResult{{Name: "api", OK: true}}
	if err := summarizeFailures("push", ok); err != nil {
		t.Errorf("summarizeFailures(all ok) = %v", err)
	}

	mixed := []task.OpResult{{Name: "api", OK: true}, {Name: "web"}}
	err := summarizeFailures("push", mixed)
	if err == nil || !strings.Contains(err.Error(), "push failed for 1 of 2 worktrees") || !strings.Contains(err.Error(), "web") {
		t.Errorf("summarizeFailures(mixed) = %v", err)
	}
}

func TestTaskPath(t *testing.T) {
	t.Parallel()

	tk := &task.Task{Name: "PROJ-1", Path: "/tasks/PROJ-1", Worktrees: []task.Worktree{
		{Name: "backend/api", Path: "/tasks/PROJ-1/backend/api"},
	}}

	tests := []struct {
		rest    []string
		want    string
		wantErr bool
	}{
		{rest: nil, want: "/tasks/PROJ-1"},
		{rest: []string{"backend/api"}, want: "/tasks/PROJ-1/backend/api"},
		{rest: []string{"web"}, wantErr: true},
	}

	for _, tt := range tests {
		got, err := taskPath(tk, tt.rest)
		if (err != nil) != tt.wantErr {
			t.Errorf("taskPath(%v) error = %v, wantErr %v", tt.rest, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("taskPath(%v) = %q, want %q", tt.rest, got, tt.want)
		}
	}
}

func TestIsConfigCmd(t *testing.T) {
	t.Parallel()

	if !isConfigCmd(findCmd(t, "config")) || !isConfigCmd(findCmd(t, "config", "show")) {
		t.Error("config commands should be recognized")
	}
	if isConfigCmd(findCmd(t, "list")) {
		t.Error("list is not a config command")
	}

	// Only a config command directly below the root counts.
	root := &cobra.Command{Use: "root"}
	nested := &cobra.Command{Use: "nested"}
	deepConfig := &cobra.Command{Use: "config"}
	topConfig := &cobra.Command{Use: "config"}
	nested.AddCommand(deepConfig)
	root.AddCommand(nested, topConfig)
	if isConfigCmd(deepConfig) {
		t.Error("nested config command should not be recognized")
	}
	if !isConfigCmd(topConfig) {
		t.Error("top-level config command should be recognized")
	}
}

func TestHookOptionsValidate(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Hooks.Hooks["install"] = config.Hook{Command: "make", On: []string{"create"}}
	ctx := config.WithResolver(context.Background(), config.NewResolver(&cfg))

	tests := []struct {
		name    string
		opts    hookOptions
		wantErr bool
	}{
		{name: "defaults", opts: hookOptions{}},
		{name: "known hook", opts: hookOptions{name: "install"}},
		{name: "unknown hook", opts: hookOptions{name: "deploy"}, wantErr: true},
		{name: "bad arg", opts: hookOptions{args: []string{"novalue"}}, wantErr: true},
		{name: "args", opts: hookOptions{args: []string{"k=v"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.opts.validate(ctx, hooks.TriggerCreate)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRankByUse(t *testing.T) {
	t.Parallel()

	names := []string{"PROJ-1", "PROJ-2", "PROJ-3"}
	got := rankByUse(names, []string{"PROJ-3", "gone", "PROJ-1"})
	if want := []string{"PROJ-3", "PROJ-1", "PROJ-2"}; !slices.Equal(got, want) {
		t.Errorf("rankByUse() = %v, want %v", got, want)
	}
}

func TestResolveTaskName(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.TasksDir = t.TempDir()
	ctx := config.WithResolver(context.Background(), config.NewResolver(&cfg))

	if got, err := resolveTaskName(ctx, []string{"PROJ-9"}); err != nil || got != "PROJ-9" {
		t.Errorf("resolveTaskName(explicit) = %q, %v", got, err)
	}
	if _, err := resolveTaskName(ctx, nil); err == nil {
		t.Error("resolveTaskName() without history should fail")
	}

	recordAccess(ctx, "PROJ-2")
	recordAccess(ctx, "PROJ-1")
	if got, err := resolveTaskName(ctx, nil); err != nil || got != "PROJ-1" {
		t.Errorf("resolveTaskName() = %q, %v, want PROJ-1", got, err)
	}

	forgetTask(ctx, "PROJ-1")
	if got, _ := resolveTaskName(ctx, nil); got != "PROJ-2" {
		t.Errorf("after forget = %q, want PROJ-2", got)
	}
}
