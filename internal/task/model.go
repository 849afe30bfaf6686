package task

import (
	"os"
	"strconv"
)

// Worktree is one git working directory belonging to a task.
// Branch, IsDirty and ChangedFiles are snapshots filled in by
// [Task.RefreshStatuses]; they are zero until refreshed.
type Worktree struct {
	Name         string `json:"name"` // repository path relative to the repos root
	Path         string `json:"path"`
	Branch       string `json:"branch,omitempty"`
	IsDirty      bool   `json:"dirty"`
	ChangedFiles int    `json:"changed_files"`
}

// Exists reports whether the worktree directory is present.
func (w Worktree) Exists() bool {
	_, err := os.Stat(w.Path)
	return err == nil
}

// Task is a named set of worktrees sharing one branch.
type Task struct {
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	Worktrees []Worktree `json:"worktrees"`
}

// IsDirty reports whether any worktree had uncommitted changes at the last refresh.
func (t *Task) IsDirty() bool {
	return t.DirtyCount() > 0
}

// DirtyCount returns the number of dirty worktrees at the last refresh.
func (t *Task) DirtyCount() int {
	n := 0
	for _, wt := range t.Worktrees {
		if wt.IsDirty {
			n++
		}
	}
	return n
}

// Worktree returns the worktree for repo, if the task has one.
func (t *Task) Worktree(repo string) (Worktree, bool) {
	for _, wt := range t.Worktrees {
		if wt.Name == repo {
			return wt, true
		}
	}
	return Worktree{}, false
}

// IssueKind classifies why a worktree is unsafe to remove.
type IssueKind int

const (
	IssueDirty IssueKind = iota
	IssueUnpushed
	IssueUnmerged
)

func (k IssueKind) String() string {
	switch k {
	case IssueDirty:
		return "dirty"
	case IssueUnpushed:
		return "unpushed"
	case IssueUnmerged:
		return "unmerged"
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k IssueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RepoIssue is one reason a worktree would lose work if removed.
type RepoIssue struct {
	RepoName     string    `json:"repo"`
	WorktreePath string    `json:"path"`
	Kind         IssueKind `json:"kind"`
	Details      string    `json:"details"` // "2 files changed", "1 commit ahead", "not merged to main"
}

// SafetyReport groups the issues found across a task's worktrees.
type SafetyReport struct {
	Unpushed []RepoIssue `json:"unpushed"`
	Unmerged []RepoIssue `json:"unmerged"`
	Dirty    []RepoIssue `json:"dirty"`
}

// IsSafe reports whether no issues were found.
func (r SafetyReport) IsSafe() bool {
	return !r.HasUnpushed() && !r.HasUnmerged() && !r.HasDirty()
}

func (r SafetyReport) HasUnpushed() bool { return len(r.Unpushed) > 0 }
func (r SafetyReport) HasUnmerged() bool { return len(r.Unmerged) > 0 }
func (r SafetyReport) HasDirty() bool    { return len(r.Dirty) > 0 }

// Issues returns every issue, dirty first, then unpushed, then unmerged.
func (r SafetyReport) Issues() []RepoIssue {
	all := make([]RepoIssue, 0, len(r.Dirty)+len(r.Unpushed)+len(r.Unmerged))
	all = append(all, r.Dirty...)
	all = append(all, r.Unpushed...)
	return append(all, r.Unmerged...)
}

func (r *SafetyReport) add(issue RepoIssue) {
	switch issue.Kind {
	case IssueDirty:
		r.Dirty = append(r.Dirty, issue)
	case IssueUnpushed:
		r.Unpushed = append(r.Unpushed, issue)
	case IssueUnmerged:
		r.Unmerged = append(r.Unmerged, issue)
	}
}

// plural renders "1 file" or "3 files".
func plural(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}
	return s
}
