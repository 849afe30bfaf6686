package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/hooks"
	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/task"
	"github.com/raphi011/tasktree/internal/ui/progress"
)

func newAddCmd() *cobra.Command {
	var (
		base string
		opts hookOptions
	)

	cmd := &cobra.Command{
		Use:     "add <task> <repo>...",
		Short:   "Add repositories to an existing task",
		GroupID: GroupTask,
		Args:    cobra.MinimumNArgs(2),
		Long: `Add worktrees for more repositories to an existing task.

Repositories the task already has are left untouched, so adding the same
repository twice is harmless. Hooks with on=["create"] run only in the
newly added worktrees.`,
		Example: `  tasktree add PROJ-123 docs            # Add the docs repository
  tasktree add PROJ-123 web --base dev  # Start the new worktree from dev`,
		ValidArgsFunction: completeTaskThenRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			env, err := opts.validate(ctx, hooks.TriggerCreate)
			if err != nil {
				return err
			}

			m := newManager(ctx)
			t, err := m.GetTask(args[0])
			if err != nil {
				return err
			}
			recordAccess(ctx, t.Name)
			before := append([]task.Worktree(nil), t.Worktrees...)

			sp := progress.NewSpinner(fmt.Sprintf("Adding to %s...", t.Name))
			sp.Start()
			addErr := m.AddRepo(ctx, t, args[1:], base)
			sp.Stop()

			added := newWorktrees(before, t.Worktrees)
			runHooks(ctx, m, t, added, hooks.TriggerCreate, opts, env)

			l.Printf("Added %d worktree(s) to %s\n", len(added), t.Name)
			return addErr
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "Branch to start from (default: base_branch from config)")
	addHookFlags(cmd, &opts)

	return cmd
}
