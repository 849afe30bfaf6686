package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/raphi011/tasktree/internal/config"
	"github.com/raphi011/tasktree/internal/history"
	"github.com/raphi011/tasktree/internal/hooks"
	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/task"
)

// resolverFromContext returns the resolver set up by the root command. Shell
// completion skips that setup, so it loads the config here and falls back to
// the defaults when the file is invalid.
func resolverFromContext(ctx context.Context) *config.ConfigResolver {
	if r := config.ResolverFromContext(ctx); r != nil {
		return r
	}
	cfg, _ := config.Load()
	return config.NewResolver(&cfg)
}

// newManager builds a task manager from the global config. Per-repository
// base branch and symlink exclusions come from each repository's
// .tasktree.toml through the resolver.
func newManager(ctx context.Context) *task.Manager {
	r := resolverFromContext(ctx)
	global := r.Global()
	l := log.FromContext(ctx)

	return &task.Manager{
		ReposDir:       global.ReposDir,
		TasksDir:       global.TasksDir,
		BaseBranch:     global.BaseBranch,
		SymlinkExclude: global.SymlinkExclude,
		Settings: func(repoPath string) task.RepoSettings {
			cfg, err := r.ConfigForRepo(repoPath)
			if err != nil {
				l.Printf("Warning: %v\n", err)
				cfg = global
			}
			return task.RepoSettings{
				BaseBranch:     cfg.BaseBranch,
				SymlinkExclude: cfg.SymlinkExclude,
			}
		},
	}
}

// hookOptions are the hook flags shared by create, add and finish.
type hookOptions struct {
	name   string
	noHook bool
	args   []string
	dryRun bool
}

// validate checks the hook flags against the global config before anything
// is changed on disk.
func (o hookOptions) validate(ctx context.Context, trigger hooks.Trigger) (map[string]string, error) {
	env, err := hooks.ParseEnv(o.args)
	if err != nil {
		return nil, err
	}
	if _, err := hooks.SelectHooks(resolverFromContext(ctx).Global().Hooks, o.name, o.noHook, trigger); err != nil {
		return nil, err
	}
	return env, nil
}

// runHooks runs the hooks selected for trigger in every given worktree of t,
// using each repository's effective hook config.
func runHooks(ctx context.Context, m *task.Manager, t *task.Task, worktrees []task.Worktree, trigger hooks.Trigger, opts hookOptions, env map[string]string) {
	if opts.noHook {
		return
	}
	r := resolverFromContext(ctx)
	l := log.FromContext(ctx)

	for _, wt := range worktrees {
		if !wt.Exists() {
			continue
		}
		mainRepo := m.CanonicalRepo(ctx, wt)

		hooksCfg := r.Global().Hooks
		if mainRepo != "" {
			if cfg, err := r.ConfigForRepo(mainRepo); err == nil {
				hooksCfg = cfg.Hooks
			} else {
				l.Printf("Warning: %v\n", err)
			}
		}

		matches, err := hooks.SelectHooks(hooksCfg, opts.name, opts.noHook, trigger)
		if err != nil {
			l.Printf("Warning: %s: %v\n", wt.Name, err)
			continue
		}
		if len(matches) == 0 {
			continue
		}

		hctx := hooks.NewContext(t.Name, wt.Name, wt.Path, mainRepo, trigger, env)
		hctx.DryRun = opts.dryRun
		hooks.RunForEach(ctx, matches, hctx)
	}
}

// newWorktrees returns the worktrees of after that are not in before.
func newWorktrees(before, after []task.Worktree) []task.Worktree {
	var added []task.Worktree
	for _, wt := range after {
		if !slices.ContainsFunc(before, func(b task.Worktree) bool { return b.Name == wt.Name }) {
			added = append(added, wt)
		}
	}
	return added
}

// summarizeFailures builds the error for a push or pull batch, or nil.
func summarizeFailures(op string, results []task.OpResult) error {
	failed := task.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%s failed for %d of %d worktrees: %v", op, len(failed), len(results), failed)
}

// historyPath returns the history file under the configured tasks root.
func historyPath(ctx context.Context) string {
	return history.Path(resolverFromContext(ctx).Global().TasksDir)
}

// recordAccess marks name as the most recently used task. Failures only
// show up in verbose output.
func recordAccess(ctx context.Context, name string) {
	if err := history.RecordAccess(historyPath(ctx), name); err != nil {
		log.FromContext(ctx).Debug("record history failed", "task", name, "error", err)
	}
}

// forgetTask drops a finished task from the history.
func forgetTask(ctx context.Context, name string) {
	if err := history.Forget(historyPath(ctx), name); err != nil {
		log.FromContext(ctx).Debug("update history failed", "task", name, "error", err)
	}
}

// resolveTaskName returns the task named in args, or the most recently used
// task when args is empty.
func resolveTaskName(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	name, err := history.GetMostRecent(historyPath(ctx))
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("no recently used task, pass a task name")
	}
	return name, nil
}
