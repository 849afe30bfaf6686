package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/output"
	"github.com/raphi011/tasktree/internal/task"
	"github.com/raphi011/tasktree/internal/ui/progress"
	"github.com/raphi011/tasktree/internal/ui/static"
)

func newPushCmd() *cobra.Command {
	return newRemoteCmd(remoteCommand{
		use:     "push <task>",
		short:   "Push every worktree of a task to origin",
		verb:    "Pushing",
		op:      "push",
		run:     task.PushAll,
		long:    "Push the task branch of every worktree to origin, setting the upstream.",
		example: "  tasktree push PROJ-123",
	})
}

func newPullCmd() *cobra.Command {
	return newRemoteCmd(remoteCommand{
		use:     "pull <task>",
		short:   "Pull every worktree of a task",
		verb:    "Pulling",
		op:      "pull",
		run:     task.PullAll,
		long:    "Pull the upstream of every worktree's branch.",
		example: "  tasktree pull PROJ-123",
	})
}

// remoteCommand describes push or pull, which only differ in the operation.
type remoteCommand struct {
	use, short, long, example string
	verb, op                  string
	run                       func(context.Context, *task.Task) []task.OpResult
}

func newRemoteCmd(rc remoteCommand) *cobra.Command {
	return &cobra.Command{
		Use:     rc.use,
		Short:   rc.short,
		GroupID: GroupRemote,
		Args:    cobra.ExactArgs(1),
		Long: rc.long + `

At most three worktrees talk to the remote at a time. A failure in one
worktree does not stop the others; each result is listed and the command
fails if any worktree failed.`,
		Example:           rc.example,
		ValidArgsFunction: completeTasks,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			t, err := newManager(ctx).GetTask(args[0])
			if err != nil {
				return err
			}
			if len(t.Worktrees) == 0 {
				return fmt.Errorf("task %s has no worktrees", t.Name)
			}

			sp := progress.NewSpinner(fmt.Sprintf("%s %d worktree(s)...", rc.verb, len(t.Worktrees)))
			sp.Start()
			results := rc.run(ctx, t)
			sp.Stop()

			out.Print(static.OpResults(results))
			return summarizeFailures(rc.op, results)
		},
	}
}
