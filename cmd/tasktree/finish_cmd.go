package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/hooks"
	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/ui/progress"
	"github.com/raphi011/tasktree/internal/ui/prompt"
	"github.com/raphi011/tasktree/internal/ui/static"
)

// errUnsafe is returned when a task would lose work and removal was not
// confirmed.
var errUnsafe = errors.New("task has uncommitted, unpushed or unmerged work (use --force to finish anyway)")

func newFinishCmd() *cobra.Command {
	var (
		force bool
		opts  hookOptions
	)

	cmd := &cobra.Command{
		Use:     "finish <task>",
		Short:   "Remove a task's worktrees, branches and directory",
		Aliases: []string{"rm"},
		GroupID: GroupTask,
		Args:    cobra.ExactArgs(1),
		Long: `Finish a task: remove every worktree from its canonical repository,
delete the task branch there and remove the task directory.

Before removing anything the task is checked like 'tasktree check'. If any
worktree has uncommitted, unpushed or unmerged work, the issues are shown
and you are asked to confirm. Without a terminal the command refuses
unless --force is given.

The check and the removal are separate steps: changes made in between are
not detected.

Hooks with on=["finish"] run in each worktree before it is removed.`,
		Example: `  tasktree finish PROJ-123            # Check, confirm if needed, remove
  tasktree finish PROJ-123 --force    # Skip the safety check
  tasktree finish PROJ-123 --no-hook  # Skip finish hooks`,
		ValidArgsFunction: completeTasks,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			env, err := opts.validate(ctx, hooks.TriggerFinish)
			if err != nil {
				return err
			}

			m := newManager(ctx)
			t, err := m.GetTask(args[0])
			if err != nil {
				return err
			}

			if !force {
				sp := progress.NewSpinner(fmt.Sprintf("Checking %s...", t.Name))
				sp.Start()
				report := m.CheckSafety(ctx, t)
				sp.Stop()

				if !report.IsSafe() {
					l.Printf("%s", static.SafetyReport(report))

					res, err := prompt.Confirm(fmt.Sprintf("Finish %s anyway?", t.Name))
					if errors.Is(err, prompt.ErrNotInteractive) {
						return errUnsafe
					}
					if err != nil {
						return err
					}
					if !res.Confirmed {
						l.Println("Aborted")
						return nil
					}
				}
			}

			runHooks(ctx, m, t, t.Worktrees, hooks.TriggerFinish, opts, env)

			sp := progress.NewSpinner(fmt.Sprintf("Finishing %s...", t.Name))
			sp.Start()
			err = m.FinishTask(ctx, t)
			sp.Stop()
			if err != nil {
				return err
			}

			forgetTask(ctx, t.Name)
			l.Printf("Finished task %s\n", t.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the safety check")
	addHookFlags(cmd, &opts)

	return cmd
}
