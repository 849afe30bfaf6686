package task

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/raphi011/tasktree/internal/git"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	wt := Worktree{Name: "api", Path: "/tasks/t/api"}

	tests := []struct {
		name   string
		status git.Status
		merged bool
		want   []RepoIssue
		wantOK bool
	}{
		{
			name:   "clean pushed merged",
			status: git.Status{Branch: "t"},
			merged: true,
			wantOK: true,
		},
		{
			name:   "two uncommitted files",
			status: git.Status{Modified: []string{"a.go"}, Untracked: []string{"b.go"}},
			merged: true,
			want:   []RepoIssue{{"api", "/tasks/t/api", IssueDirty, "2 files changed"}},
		},
		{
			name:   "one file one commit",
			status: git.Status{Staged: []string{"a.go"}, Ahead: 1},
			merged: true,
			want: []RepoIssue{
				{"api", "/tasks/t/api", IssueDirty, "1 file changed"},
				{"api", "/tasks/t/api", IssueUnpushed, "1 commit ahead"},
			},
		},
		{
			name:   "unmerged only",
			status: git.Status{Behind: 4},
			merged: false,
			want:   []RepoIssue{{"api", "/tasks/t/api", IssueUnmerged, "not merged to main"}},
		},
		{
			name:   "everything",
			status: git.Status{Untracked: []string{"x"}, Ahead: 3},
			merged: false,
			want: []RepoIssue{
				{"api", "/tasks/t/api", IssueDirty, "1 file changed"},
				{"api", "/tasks/t/api", IssueUnpushed, "3 commits ahead"},
				{"api", "/tasks/t/api", IssueUnmerged, "not merged to main"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classify(wt, tt.status, "main", tt.merged)
			if len(got) != len(tt.want) {
				t.Fatalf("classify() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("issue[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}

			var report SafetyReport
			for _, issue := range got {
				report.add(issue)
			}
			if report.IsSafe() != tt.wantOK {
				t.Errorf("IsSafe() = %v, want %v", report.IsSafe(), tt.wantOK)
			}
		})
	}
}

func TestSafetyReport(t *testing.T) {
	t.Parallel()

	var r SafetyReport
	if !r.IsSafe() {
		t.Error("empty report should be safe")
	}

	r.add(RepoIssue{RepoName: "a", Kind: IssueDirty, Details: "2 files changed"})
	if r.IsSafe() || !r.HasDirty() || r.HasUnpushed() || r.HasUnmerged() {
		t.Errorf("report flags wrong: %+v", r)
	}
	if len(r.Dirty) != 1 {
		t.Errorf("Dirty = %v, want 1 issue", r.Dirty)
	}

	r.add(RepoIssue{RepoName: "b", Kind: IssueUnmerged})
	r.add(RepoIssue{RepoName: "c", Kind: IssueUnpushed})
	issues := r.Issues()
	if len(issues) != 3 || issues[0].Kind != IssueDirty || issues[1].Kind != IssueUnpushed || issues[2].Kind != IssueUnmerged {
		t.Errorf("Issues() = %+v, want dirty, unpushed, unmerged", issues)
	}
}

func TestIssueKindString(t *testing.T) {
	t.Parallel()

	for kind, want := range map[IssueKind]string{
		IssueDirty:    "dirty",
		IssueUnpushed: "unpushed",
		IssueUnmerged: "unmerged",
		IssueKind(9):  "unknown",
	} {
		if got := kind.String(); got != want {
			t.Errorf("IssueKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestCheckSafety_SkipsMissingWorktrees(t *testing.T) {
	t.Parallel()

	m := &Manager{}
	task := &Task{
		Name:      "gone",
		Worktrees: []Worktree{{Name: "api", Path: filepath.Join(t.TempDir(), "api")}},
	}

	if r := m.CheckSafety(context.Background(), task); !r.IsSafe() {
		t.Errorf("CheckSafety() = %+v, want safe for a missing worktree", r)
	}
}

func TestCheckSafety_DirtyWorktree(t *testing.T) {
	t.Parallel()

	root := resolveTempDir(t)
	reposDir := filepath.Join(root, "repos")
	repoPath := initRepoWithOrigin(t, reposDir, "api")

	// Two uncommitted files in an otherwise pushed and merged repo.
	writeFile(t, repoPath, "one.txt", "1")
	writeFile(t, repoPath, "two.txt", "2")

	task := &Task{Name: "t", Worktrees: []Worktree{{Name: "api", Path: repoPath}}}
	r := (&Manager{}).CheckSafety(context.Background(), task)

	if len(r.Dirty) != 1 || r.Dirty[0].Details != "2 files changed" {
		t.Errorf("Dirty = %+v, want one issue with 2 files changed", r.Dirty)
	}
	if r.HasUnpushed() || r.HasUnmerged() {
		t.Errorf("unexpected issues: %+v", r)
	}
	if r.IsSafe() {
		t.Error("IsSafe() = true, want false")
	}
}
