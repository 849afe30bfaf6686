package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/hooks"
	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/output"
	"github.com/raphi011/tasktree/internal/ui/progress"
)

func newCreateCmd() *cobra.Command {
	var (
		base string
		opts hookOptions
	)

	cmd := &cobra.Command{
		Use:     "create <task> <repo>...",
		Short:   "Create a task with a worktree per repository",
		Aliases: []string{"new"},
		GroupID: GroupTask,
		Args:    cobra.MinimumNArgs(2),
		Long: `Create a task directory under tasks_dir with one worktree per repository.

Every worktree is checked out on a new branch named after the task, started
from the base branch. The base branch is fetched and fast-forwarded in the
canonical repository first when possible. If the branch already exists it
is reset to the base.

Files ignored by a repository's .gitignore (such as .env) are symlinked from
the canonical repository into the new worktree, except those matching
symlink_exclude.

The task name and every repository are checked before anything is created.
Worktrees are created concurrently; a failing repository does not stop the
others. Hooks with on=["create"] run in each new worktree.

Prints the task directory on success.`,
		Example: `  tasktree create PROJ-123 api web          # Two worktrees on branch PROJ-123
  tasktree create PROJ-123 backend/api      # Nested repository
  tasktree create PROJ-123 api --base dev   # Start from dev instead of main
  cd $(tasktree create PROJ-123 api -q)     # Create and enter
  tasktree create PROJ-123 api --no-hook    # Skip create hooks`,
		ValidArgsFunction: completeTaskThenRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			env, err := opts.validate(ctx, hooks.TriggerCreate)
			if err != nil {
				return err
			}

			m := newManager(ctx)
			name, repos := args[0], args[1:]

			sp := progress.NewSpinner(fmt.Sprintf("Creating task %s...", name))
			sp.Start()
			t, createErr := m.CreateTask(ctx, name, repos, base)
			sp.Stop()

			if t == nil {
				return createErr
			}

			recordAccess(ctx, t.Name)
			runHooks(ctx, m, t, t.Worktrees, hooks.TriggerCreate, opts, env)

			l.Printf("Created task %s with %d worktree(s)\n", t.Name, len(t.Worktrees))
			out.Println(t.Path)
			return createErr
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "Branch to start from (default: base_branch from config)")
	addHookFlags(cmd, &opts)

	return cmd
}

// addHookFlags registers the hook flags shared by create, add and finish.
func addHookFlags(cmd *cobra.Command, opts *hookOptions) {
	cmd.Flags().StringVar(&opts.name, "hook", "", "Run only this hook (ignores its \"on\" setting)")
	cmd.Flags().BoolVar(&opts.noHook, "no-hook", false, "Skip hooks")
	cmd.Flags().StringArrayVarP(&opts.args, "arg", "a", nil, "Set hook variable KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&opts.dryRun, "hook-dry-run", false, "Print hook commands instead of running them")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
}
