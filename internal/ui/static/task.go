package static

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raphi011/tasktree/internal/git"
	"github.com/raphi011/tasktree/internal/task"
	"github.com/raphi011/tasktree/internal/ui/styles"
)

// TaskTable renders one row per task: name, repositories and state.
// Tasks should have refreshed statuses for the state column to be meaningful.
func TaskTable(tasks []*task.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, TaskTableRow(t))
	}
	return RenderTable([]string{"TASK", "REPOS", "STATUS"}, rows)
}

// TaskTableRow returns the columns TASK, REPOS and STATUS for t.
func TaskTableRow(t *task.Task) []string {
	names := make([]string, 0, len(t.Worktrees))
	for _, wt := range t.Worktrees {
		names = append(names, wt.Name)
	}

	repos := strings.Join(names, ", ")
	if repos == "" {
		repos = styles.MutedStyle.Render("(none)")
	}

	state := styles.SuccessStyle.Render("clean")
	if n := t.DirtyCount(); n > 0 {
		state = styles.ErrorStyle.Render(strconv.Itoa(n) + " dirty")
	}

	return []string{styles.PrimaryStyle.Render(t.Name), repos, state}
}

// TaskStatus renders the refreshed status of every worktree of t.
// statuses must be indexed like t.Worktrees.
func TaskStatus(t *task.Task, statuses []git.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styles.PrimaryStyle.Render(t.Name), styles.MutedStyle.Render(t.Path))

	if len(t.Worktrees) == 0 {
		b.WriteString(styles.MutedStyle.Render("  no worktrees") + "\n")
		return b.String()
	}

	for i, wt := range t.Worktrees {
		var s git.Status
		if i < len(statuses) {
			s = statuses[i]
		}
		b.WriteString("\n")
		b.WriteString(worktreeHeader(wt, s))
		b.WriteString("\n")
		for _, c := range s.Changes() {
			fmt.Fprintf(&b, "    %s %s\n", changeCode(c.Code), c.File)
		}
	}
	return b.String()
}

func worktreeHeader(wt task.Worktree, s git.Status) string {
	var parts []string

	switch {
	case !wt.Exists():
		parts = append(parts, styles.ErrorStyle.Render(styles.MissingSymbol), wt.Name, styles.MutedStyle.Render("(missing)"))
	case s.Error != "":
		parts = append(parts, styles.Cross(), wt.Name, styles.ErrorStyle.Render(s.Error))
	case s.IsDirty():
		parts = append(parts, styles.Dirty(), wt.Name)
	default:
		parts = append(parts, styles.Check(), wt.Name)
	}

	if s.Branch != "" {
		parts = append(parts, styles.MutedStyle.Render("("+s.Branch+")"))
	}
	if s.Ahead > 0 {
		parts = append(parts, styles.WarningStyle.Render("↑"+strconv.Itoa(s.Ahead)))
	}
	if s.Behind > 0 {
		parts = append(parts, styles.InfoStyle.Render("↓"+strconv.Itoa(s.Behind)))
	}

	return "  " + strings.Join(parts, " ")
}

func changeCode(code string) string {
	switch code {
	case "??":
		return styles.MutedStyle.Render(code)
	case "A ":
		return styles.SuccessStyle.Render(code)
	default:
		return styles.ErrorStyle.Render(code)
	}
}

// SafetyReport renders the issues of r grouped by kind, or a single
// confirmation line when r is safe.
func SafetyReport(r task.SafetyReport) string {
	if r.IsSafe() {
		return styles.Check() + " All worktrees are clean, pushed and merged\n"
	}

	var b strings.Builder
	section := func(title string, issues []task.RepoIssue) {
		if len(issues) == 0 {
			return
		}
		b.WriteString(styles.Bold.Render(title) + "\n")
		for _, issue := range issues {
			fmt.Fprintf(&b, "  %s %s: %s\n", styles.Warn(), issue.RepoName, issue.Details)
		}
	}

	section("Uncommitted changes:", r.Dirty)
	section("Unpushed commits:", r.Unpushed)
	section("Not merged:", r.Unmerged)
	return b.String()
}

// OpResults renders one line per push or pull result.
func OpResults(results []task.OpResult) string {
	var b strings.Builder
	for _, r := range results {
		mark := styles.Check()
		if !r.OK {
			mark = styles.Cross()
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, r.Name, firstLine(r.Message))
	}
	return b.String()
}

// firstLine keeps multi-line git output on a single row.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
