package task

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"github.com/raphi011/tasktree/internal/cmd"
)

func TestPushAll_MissingWorktree(t *testing.T) {
	t.Parallel()

	task := &Task{Name: "t", Worktrees: []Worktree{
		{Name: "gone", Path: filepath.Join(t.TempDir(), "gone")},
	}}

	results := PushAll(context.Background(), task)
	if len(results) != 1 {
		t.Fatalf("PushAll() = %v, want one result", results)
	}
	if results[0].OK || results[0].Name != "gone" {
		t.Errorf("PushAll() = %+v, want failure for gone", results[0])
	}
	if got := Failed(results); !slices.Equal(got, []string{"gone"}) {
		t.Errorf("Failed() = %v, want [gone]", got)
	}
}

func TestPushPullAll_Empty(t *testing.T) {
	t.Parallel()

	if got := PushAll(context.Background(), &Task{}); len(got) != 0 {
		t.Errorf("PushAll(empty) = %v", got)
	}
	if got := PullAll(context.Background(), &Task{}); len(got) != 0 {
		t.Errorf("PullAll(empty) = %v", got)
	}
}

func TestRemoteOpFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "timeout",
			err:  &cmd.Error{Outcome: cmd.OutcomeTimeout},
			want: "Push timed out",
		},
		{
			name: "diagnostic",
			err:  fmt.Errorf("wrapped: %w", &cmd.Error{Outcome: cmd.OutcomeExit, Msg: "rejected"}),
			want: "rejected",
		},
		{
			name: "no diagnostic",
			err:  &cmd.Error{Outcome: cmd.OutcomeExit, ExitCode: 1},
			want: "Push failed",
		},
		{
			name: "other error",
			err:  errors.New("boom"),
			want: "Push failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := pushOp.failure(tt.err); got != tt.want {
				t.Errorf("failure() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPushAll_RealRemote(t *testing.T) {
	t.Parallel()

	root := resolveTempDir(t)
	reposDir := filepath.Join(root, "repos")
	ok := initRepoWithOrigin(t, reposDir, "ok")
	writeFile(t, ok, "new.txt", "x")
	runGit(t, ok, "add", "new.txt")
	runGit(t, ok, "commit", "-m", "new")

	// No origin configured: push fails with git's diagnostic.
	noRemote := filepath.Join(reposDir, "no-remote")
	initRepo(t, noRemote)

	task := &Task{Name: "t", Worktrees: []Worktree{
		{Name: "ok", Path: ok},
		{Name: "no-remote", Path: noRemote},
	}}

	results := PushAll(context.Background(), task)
	if len(results) != 2 {
		t.Fatalf("PushAll() = %v, want 2 results", results)
	}
	for _, r := range results {
		switch r.Name {
		case "ok":
			if !r.OK || r.Message == "" {
				t.Errorf("ok result = %+v, want success with a message", r)
			}
		case "no-remote":
			if r.OK || r.Message == "" {
				t.Errorf("no-remote result = %+v, want failure with a message", r)
			}
		default:
			t.Errorf("unexpected result %+v", r)
		}
	}
}

func TestRefreshStatuses_UpdatesEveryWorktree(t *testing.T) {
	t.Parallel()

	root := resolveTempDir(t)
	const k = 7

	task := &Task{Name: "t"}
	for i := range k {
		name := fmt.Sprintf("repo%d", i)
		path := filepath.Join(root, name)
		initRepo(t, path)
		// Repo i has i untracked files.
		for j := range i {
			writeFile(t, path, fmt.Sprintf("f%d.txt", j), "x")
		}
		task.Worktrees = append(task.Worktrees, Worktree{Name: name, Path: path})
	}

	statuses := task.RefreshStatuses(context.Background())
	if len(statuses) != k {
		t.Fatalf("RefreshStatuses() returned %d statuses, want %d", len(statuses), k)
	}

	for i, wt := range task.Worktrees {
		if wt.Branch != "main" {
			t.Errorf("%s: Branch = %q, want main", wt.Name, wt.Branch)
		}
		if wt.ChangedFiles != i {
			t.Errorf("%s: ChangedFiles = %d, want %d", wt.Name, wt.ChangedFiles, i)
		}
		if wt.IsDirty != (i > 0) {
			t.Errorf("%s: IsDirty = %v, want %v", wt.Name, wt.IsDirty, i > 0)
		}
		if statuses[i].ChangedFiles() != i {
			t.Errorf("statuses[%d] does not belong to %s", i, wt.Name)
		}
	}
	if got := task.DirtyCount(); got != k-1 {
		t.Errorf("DirtyCount() = %d, want %d", got, k-1)
	}
}
