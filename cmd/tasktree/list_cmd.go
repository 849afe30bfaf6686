package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/output"
	"github.com/raphi011/tasktree/internal/task"
	"github.com/raphi011/tasktree/internal/ui/static"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List tasks",
		Aliases: []string{"ls"},
		GroupID: GroupTask,
		Args:    cobra.NoArgs,
		Long: `List every task under tasks_dir with its repositories.

The status column shows how many worktrees have uncommitted changes.

Only directories directly under tasks_dir are listed. A task created with a
'/' in its name (feature/x) appears as its first segment with the rest
prefixed to its worktree names; address it by its full name.`,
		Example: `  tasktree list          # Table of tasks
  tasktree list --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			tasks, err := newManager(ctx).ListTasks()
			if err != nil {
				return err
			}
			l.Debug("listing tasks", "count", len(tasks))

			for _, t := range tasks {
				t.RefreshStatuses(ctx)
			}

			if jsonOutput {
				if tasks == nil {
					tasks = []*task.Task{}
				}
				return out.JSON(tasks)
			}

			if len(tasks) == 0 {
				l.Println("No tasks found")
				return nil
			}
			out.Print(static.TaskTable(tasks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
