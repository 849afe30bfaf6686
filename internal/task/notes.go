package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NotesFile is the context file written into a task and its worktrees.
const NotesFile = "CLAUDE.md"

// WriteNotes creates a notes file in the task directory listing its
// worktrees, and one in each worktree naming its path, branch and task.
// Existing files are never overwritten. Returns the paths written.
// Branches come from the last [Task.RefreshStatuses].
func WriteNotes(t *Task) ([]string, error) {
	var written []string
	var errs []error

	write := func(path, content string) {
		ok, err := writeNew(path, content)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if ok {
			written = append(written, path)
		}
	}

	write(filepath.Join(t.Path, NotesFile), taskNotes(t))
	for _, wt := range t.Worktrees {
		if !wt.Exists() {
			continue
		}
		write(filepath.Join(wt.Path, NotesFile), worktreeNotes(t, wt))
	}

	return written, errors.Join(errs...)
}

// writeNew writes content to path unless something already exists there.
func writeNew(path, content string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, f.Close()
}

func taskNotes(t *Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Task: %s\n\n## Worktrees\n\n", t.Name)
	for _, wt := range t.Worktrees {
		fmt.Fprintf(&b, "- **%s**: `%s`\n", wt.Name, wt.Path)
		if wt.Branch != "" {
			fmt.Fprintf(&b, "  - Branch: `%s`\n", wt.Branch)
		}
	}
	b.WriteString("\n## Notes\n\nAdd task-specific context here.\n")
	return b.String()
}

func worktreeNotes(t *Task, wt Worktree) string {
	branch := wt.Branch
	if branch == "" {
		branch = "unknown"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Worktree: %s\n\n", wt.Name)
	fmt.Fprintf(&b, "- **Path**: `%s`\n", wt.Path)
	fmt.Fprintf(&b, "- **Branch**: `%s`\n", branch)
	fmt.Fprintf(&b, "- **Task**: %s\n", t.Name)
	b.WriteString("\n## Notes\n\nAdd worktree-specific context here.\n")
	return b.String()
}
