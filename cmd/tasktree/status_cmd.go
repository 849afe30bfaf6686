package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/git"
	"github.com/raphi011/tasktree/internal/output"
	"github.com/raphi011/tasktree/internal/ui/static"
)

// worktreeStatus is the JSON form of one worktree's status.
type worktreeStatus struct {
	Name    string       `json:"name"`
	Path    string       `json:"path"`
	Exists  bool         `json:"exists"`
	Status  git.Status   `json:"status"`
	Changes []git.Change `json:"changes"`
}

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "status <task>",
		Short:   "Show git status of every worktree in a task",
		Aliases: []string{"st"},
		GroupID: GroupTask,
		Args:    cobra.ExactArgs(1),
		Long: `Show branch, ahead/behind counts and changed files of every worktree.

Statuses are queried concurrently. A worktree whose status could not be
determined shows the git error instead.`,
		Example: `  tasktree status PROJ-123          # Human-readable status
  tasktree status PROJ-123 --json   # Output as JSON`,
		ValidArgsFunction: completeTasks,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			t, err := newManager(ctx).GetTask(args[0])
			if err != nil {
				return err
			}

			recordAccess(ctx, t.Name)
			statuses := t.RefreshStatuses(ctx)

			if jsonOutput {
				result := make([]worktreeStatus, 0, len(t.Worktrees))
				for i, wt := range t.Worktrees {
					result = append(result, worktreeStatus{
						Name:    wt.Name,
						Path:    wt.Path,
						Exists:  wt.Exists(),
						Status:  statuses[i],
						Changes: statuses[i].Changes(),
					})
				}
				return out.JSON(result)
			}

			out.Print(static.TaskStatus(t, statuses))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
