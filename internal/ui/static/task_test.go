package static

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/raphi011/tasktree/internal/git"
	"github.com/raphi011/tasktree/internal/task"
)

func TestTaskTableRow(t *testing.T) {
	t.Parallel()

	tk := &task.Task{Name: "PROJ-1", Worktrees: []task.Worktree{
		{Name: "api", IsDirty: true},
		{Name: "backend/web"},
	}}

	row := TaskTableRow(tk)
	if len(row) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(row))
	}
	if got := ansi.Strip(row[0]); got != "PROJ-1" {
		t.Errorf("TASK = %q", got)
	}
	if got := ansi.Strip(row[1]); got != "api, backend/web" {
		t.Errorf("REPOS = %q", got)
	}
	if got := ansi.Strip(row[2]); got != "1 dirty" {
		t.Errorf("STATUS = %q", got)
	}

	empty := TaskTableRow(&task.Task{Name: "PROJ-2"})
	if got := ansi.Strip(empty[1]); got != "(none)" {
		t.Errorf("REPOS of empty task = %q", got)
	}
	if got := ansi.Strip(empty[2]); got != "clean" {
		t.Errorf("STATUS of empty task = %q", got)
	}
}

func TestTaskStatus(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tk := &task.Task{Name: "PROJ-1", Path: dir, Worktrees: []task.Worktree{
		{Name: "api", Path: dir},
		{Name: "web", Path: filepath.Join(dir, "gone")},
	}}
	statuses := []git.Status{
		{Branch: "PROJ-1", Staged: []string{"a.go"}, Untracked: []string{"b.txt"}, Ahead: 2},
		{},
	}

	out := ansi.Strip(TaskStatus(tk, statuses))
	for _, want := range []string{
		"PROJ-1 " + dir,
		"● api (PROJ-1) ↑2",
		"    A  a.go",
		"    ?? b.txt",
		"? web (missing)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestSafetyReport(t *testing.T) {
	t.Parallel()

	if out := ansi.Strip(SafetyReport(task.SafetyReport{})); !strings.HasPrefix(out, "✓ ") {
		t.Errorf("safe report = %q", out)
	}

	r := task.SafetyReport{
		Dirty:    []task.RepoIssue{{RepoName: "api", Kind: task.IssueDirty, Details: "2 files changed"}},
		Unmerged: []task.RepoIssue{{RepoName: "web", Kind: task.IssueUnmerged, Details: "not merged to main"}},
	}
	out := ansi.Strip(SafetyReport(r))
	want := "Uncommitted changes:\n  ⚠ api: 2 files changed\nNot merged:\n  ⚠ web: not merged to main\n"
	if out != want {
		t.Errorf("SafetyReport() =\n%s\nwant\n%s", out, want)
	}
}

func TestOpResults(t *testing.T) {
	t.Parallel()

	out := ansi.Strip(OpResults([]task.OpResult{
		{Name: "api", OK: true, Message: "Pushed successfully"},
		{Name: "web", Message: "rejected\nhint: pull first"},
	}))
	want := "✓ api: Pushed successfully\n✗ web: rejected\n"
	if out != want {
		t.Errorf("OpResults() = %q, want %q", out, want)
	}
}
