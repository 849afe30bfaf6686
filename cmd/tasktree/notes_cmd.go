package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/output"
	"github.com/raphi011/tasktree/internal/task"
)

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes <task>",
		Short:   "Write " + task.NotesFile + " context files for a task",
		GroupID: GroupUtility,
		Args:    cobra.ExactArgs(1),
		Long: `Write a ` + task.NotesFile + ` file into the task directory listing its
worktrees, and one into every worktree naming its path, branch and task.

Existing files are never overwritten. Prints the files that were created.`,
		Example:           `  tasktree notes PROJ-123`,
		ValidArgsFunction: completeTasks,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			t, err := newManager(ctx).GetTask(args[0])
			if err != nil {
				return err
			}
			t.RefreshStatuses(ctx)

			written, err := task.WriteNotes(t)
			for _, path := range written {
				out.Println(path)
			}
			if err != nil {
				return err
			}
			if len(written) == 0 {
				l.Println("All notes files already exist")
			}
			return nil
		},
	}

	return cmd
}
