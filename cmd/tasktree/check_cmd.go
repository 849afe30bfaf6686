package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/output"
	"github.com/raphi011/tasktree/internal/ui/static"
)

func newCheckCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "check <task>",
		Short:   "Check whether a task can be finished without losing work",
		GroupID: GroupTask,
		Args:    cobra.ExactArgs(1),
		Long: `Check every worktree of a task for uncommitted changes, commits not
pushed to the upstream, and branches not merged into the remote default
branch.

Exits with status 1 when any issue is found, so it can gate scripts.`,
		Example: `  tasktree check PROJ-123 && tasktree finish PROJ-123
  tasktree check PROJ-123 --json`,
		ValidArgsFunction: completeTasks,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			m := newManager(ctx)
			t, err := m.GetTask(args[0])
			if err != nil {
				return err
			}

			report := m.CheckSafety(ctx, t)

			if jsonOutput {
				if err := out.JSON(report); err != nil {
					return err
				}
			} else {
				out.Print(static.SafetyReport(report))
			}

			if !report.IsSafe() {
				return errSilent
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
