package git

import (
	"context"
	"fmt"
)

// AddWorktree creates a worktree at path on a new branch started from base.
// With reset, an existing branch of that name is reset to base (-B) instead
// of failing (-b).
func AddWorktree(ctx context.Context, repoPath, path, branch, base string, reset bool) error {
	flag := "-b"
	if reset {
		flag = "-B"
	}

	// Checkout of a large tree can exceed the read deadline.
	res := execGit(ctx, repoPath, networkTimeout(ctx), "worktree", "add", flag, branch, path, base)
	if err := res.Err(); err != nil {
		return fmt.Errorf("create worktree: %w", err)
	}
	return nil
}

// RemoveWorktree force-removes the worktree registered at path.
func RemoveWorktree(ctx context.Context, repoPath, path string) error {
	res := execGit(ctx, repoPath, readTimeout(ctx), "worktree", "remove", "--force", path)
	if err := res.Err(); err != nil {
		return fmt.Errorf("remove worktree %s: %w", path, err)
	}
	return nil
}

// PruneWorktrees drops registrations of worktrees whose directories are gone.
func PruneWorktrees(ctx context.Context, repoPath string) error {
	res := execGit(ctx, repoPath, readTimeout(ctx), "worktree", "prune")
	if err := res.Err(); err != nil {
		return fmt.Errorf("prune worktrees: %w", err)
	}
	return nil
}

// DeleteBranch force-deletes a local branch.
func DeleteBranch(ctx context.Context, repoPath, branch string) error {
	res := execGit(ctx, repoPath, readTimeout(ctx), "branch", "-D", branch)
	if err := res.Err(); err != nil {
		return fmt.Errorf("delete branch %s: %w", branch, err)
	}
	return nil
}
