package git

import (
	"context"
	"time"

	"github.com/raphi011/tasktree/internal/cmd"
)

// Timeouts bounds every git invocation by kind.
type Timeouts struct {
	Read    time.Duration // local read-only queries
	Branch  time.Duration // branch existence checks
	Network time.Duration // fetch, pull, push, worktree add
}

// DefaultTimeouts returns the deadlines used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Read:    5 * time.Second,
		Branch:  10 * time.Second,
		Network: 60 * time.Second,
	}
}

type timeoutsKey struct{}

// WithTimeouts attaches t to the context. Zero fields fall back to defaults.
func WithTimeouts(ctx context.Context, t Timeouts) context.Context {
	return context.WithValue(ctx, timeoutsKey{}, t)
}

func timeoutsFrom(ctx context.Context) Timeouts {
	d := DefaultTimeouts()
	t, ok := ctx.Value(timeoutsKey{}).(Timeouts)
	if !ok {
		return d
	}
	if t.Read <= 0 {
		t.Read = d.Read
	}
	if t.Branch <= 0 {
		t.Branch = d.Branch
	}
	if t.Network <= 0 {
		t.Network = d.Network
	}
	return t
}

func readTimeout(ctx context.Context) time.Duration    { return timeoutsFrom(ctx).Read }
func branchTimeout(ctx context.Context) time.Duration  { return timeoutsFrom(ctx).Branch }
func networkTimeout(ctx context.Context) time.Duration { return timeoutsFrom(ctx).Network }

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// execGit runs git against dir with the given deadline.
func execGit(ctx context.Context, dir string, timeout time.Duration, args ...string) cmd.Result {
	return cmd.Exec(ctx, "", timeout, "git", gitArgs(dir, args)...)
}

// runGit runs a read-only git query and returns its error, if any.
func runGit(ctx context.Context, dir string, args ...string) error {
	return execGit(ctx, dir, readTimeout(ctx), args...).Err()
}

// outputGit runs a read-only git query and returns stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	res := execGit(ctx, dir, readTimeout(ctx), args...)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Stdout, nil
}
