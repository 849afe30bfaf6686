package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/output"
	"github.com/raphi011/tasktree/internal/task"
)

func newPathCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:     "path [task] [repo]",
		Short:   "Print a task or worktree path for shell scripting",
		Aliases: []string{"cd"},
		GroupID: GroupUtility,
		Args:    cobra.RangeArgs(0, 2),
		Long: `Print the directory of a task, or of one of its worktrees.

Without arguments, prints the directory of the most recently used task.

Use with shell command substitution: cd $(tasktree path PROJ-123 api)`,
		Example: `  cd $(tasktree path)                   # Most recently used task
  cd $(tasktree path PROJ-123)          # Task directory
  cd $(tasktree path PROJ-123 api)      # Worktree of api
  tasktree path PROJ-123 api --copy     # Copy path to clipboard`,
		ValidArgsFunction: completeTaskRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			name, err := resolveTaskName(ctx, args)
			if err != nil {
				return err
			}
			t, err := newManager(ctx).GetTask(name)
			if err != nil {
				return err
			}

			var rest []string
			if len(args) > 1 {
				rest = args[1:]
			}
			target, err := taskPath(t, rest)
			if err != nil {
				return err
			}
			recordAccess(ctx, t.Name)

			if copyToClipboard {
				if err := clipboard.WriteAll(target); err != nil {
					l.Printf("Warning: failed to copy to clipboard: %v\n", err)
				} else {
					l.Println("Copied to clipboard")
				}
			}

			out.Println(target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy path to clipboard")

	return cmd
}

// taskPath returns the task directory, or the worktree path of the
// repository named in rest.
func taskPath(t *task.Task, rest []string) (string, error) {
	if len(rest) == 0 {
		return t.Path, nil
	}
	wt, ok := t.Worktree(rest[0])
	if !ok {
		return "", fmt.Errorf("task %s has no worktree for %s", t.Name, rest[0])
	}
	return wt.Path, nil
}
