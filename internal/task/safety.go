package task

import (
	"cmp"
	"context"
	"slices"

	"github.com/raphi011/tasktree/internal/git"
	"github.com/raphi011/tasktree/internal/pool"
)

// CheckSafety inspects every existing worktree of t concurrently and reports
// uncommitted changes, commits ahead of upstream and branches not merged into
// the repository's default branch. Worktrees whose directory is gone are
// skipped. Lists in the report are sorted by repository name.
func (m *Manager) CheckSafety(ctx context.Context, t *Task) SafetyReport {
	var existing []Worktree
	for _, wt := range t.Worktrees {
		if wt.Exists() {
			existing = append(existing, wt)
		}
	}

	perWorktree := pool.Run(ctx, pool.LocalLimit, existing, inspect)

	var report SafetyReport
	for _, issues := range perWorktree {
		for _, issue := range issues {
			report.add(issue)
		}
	}

	byRepo := func(a, b RepoIssue) int { return cmp.Compare(a.RepoName, b.RepoName) }
	slices.SortFunc(report.Dirty, byRepo)
	slices.SortFunc(report.Unpushed, byRepo)
	slices.SortFunc(report.Unmerged, byRepo)

	return report
}

// inspect gathers the git state of one worktree and classifies it.
func inspect(ctx context.Context, wt Worktree) []RepoIssue {
	status := git.GetStatus(ctx, wt.Path)
	base := git.GetDefaultBranch(ctx, wt.Path)
	merged := git.IsMerged(ctx, wt.Path, base)
	return classify(wt, status, base, merged)
}

// classify turns a worktree's state into zero or more issues. Each condition
// is independent: a worktree can be dirty, unpushed and unmerged at once.
func classify(wt Worktree, status git.Status, defaultBranch string, merged bool) []RepoIssue {
	var issues []RepoIssue
	issue := func(kind IssueKind, details string) {
		issues = append(issues, RepoIssue{
			RepoName:     wt.Name,
			WorktreePath: wt.Path,
			Kind:         kind,
			Details:      details,
		})
	}

	if status.IsDirty() {
		issue(IssueDirty, plural(status.ChangedFiles(), "file")+" changed")
	}
	if status.Ahead > 0 {
		issue(IssueUnpushed, plural(status.Ahead, "commit")+" ahead")
	}
	if !merged {
		issue(IssueUnmerged, "not merged to "+defaultBranch)
	}
	return issues
}
