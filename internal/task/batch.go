package task

import (
	"context"
	"errors"

	"github.com/raphi011/tasktree/internal/cmd"
	"github.com/raphi011/tasktree/internal/git"
	"github.com/raphi011/tasktree/internal/pool"
)

// OpResult is the outcome of a push or pull in one worktree.
type OpResult struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Failed returns the names of the unsuccessful results.
func Failed(results []OpResult) []string {
	var names []string
	for _, r := range results {
		if !r.OK {
			names = append(names, r.Name)
		}
	}
	return names
}

// remoteOp describes one network operation for messages.
type remoteOp struct {
	run     func(context.Context, string) (string, error)
	done    string
	failed  string
	timeout string
}

var (
	pushOp = remoteOp{git.Push, "Pushed successfully", "Push failed", "Push timed out"}
	pullOp = remoteOp{git.Pull, "Pulled successfully", "Pull failed", "Pull timed out"}
)

// PushAll pushes every worktree of t to origin, at most three at a time.
// Results arrive in completion order.
func PushAll(ctx context.Context, t *Task) []OpResult {
	return runAll(ctx, t, pushOp)
}

// PullAll pulls every worktree of t, at most three at a time.
// Results arrive in completion order.
func PullAll(ctx context.Context, t *Task) []OpResult {
	return runAll(ctx, t, pullOp)
}

func runAll(ctx context.Context, t *Task, op remoteOp) []OpResult {
	return pool.Run(ctx, pool.NetworkLimit, t.Worktrees, func(ctx context.Context, wt Worktree) OpResult {
		if !wt.Exists() {
			return OpResult{Name: wt.Name, Message: "worktree directory missing"}
		}

		out, err := op.run(ctx, wt.Path)
		if err != nil {
			return OpResult{Name: wt.Name, Message: op.failure(err)}
		}
		if out == "" {
			out = op.done
		}
		return OpResult{Name: wt.Name, OK: true, Message: out}
	})
}

func (op remoteOp) failure(err error) string {
	if errors.Is(err, cmd.ErrTimeout) {
		return op.timeout
	}
	var cmdErr *cmd.Error
	if errors.As(err, &cmdErr) && cmdErr.Msg != "" {
		return cmdErr.Msg
	}
	return op.failed
}

// RefreshStatuses queries git status for every worktree of t, at most five at
// a time, and updates each worktree's snapshot fields in place. The returned
// statuses are indexed like t.Worktrees.
func (t *Task) RefreshStatuses(ctx context.Context) []git.Status {
	statuses := make([]git.Status, len(t.Worktrees))
	pool.Each(ctx, pool.LocalLimit, len(t.Worktrees), func(ctx context.Context, i int) {
		wt := &t.Worktrees[i]
		s := git.GetStatus(ctx, wt.Path)
		wt.Branch = s.Branch
		wt.IsDirty = s.IsDirty()
		wt.ChangedFiles = s.ChangedFiles()
		statuses[i] = s
	})
	return statuses
}
