package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetDefaultBranch returns the remote's default branch for the repository at path.
// It resolves refs/remotes/origin/HEAD, then probes origin/main and
// origin/master, and finally falls back to "main".
func GetDefaultBranch(ctx context.Context, path string) string {
	out, err := outputGit(ctx, path, "symbolic-ref", "refs/remotes/origin/HEAD")
	if err == nil {
		// refs/remotes/origin/main
		ref := strings.TrimSpace(string(out))
		if i := strings.LastIndex(ref, "/"); i >= 0 && i < len(ref)-1 {
			return ref[i+1:]
		}
	}

	for _, branch := range []string{"main", "master"} {
		if runGit(ctx, path, "rev-parse", "--verify", "--quiet", "refs/remotes/origin/"+branch) == nil {
			return branch
		}
	}

	return "main"
}

// IsMerged reports whether HEAD of the worktree at path is an ancestor of
// origin/<baseBranch>. Any failure, including a timeout, reports false.
func IsMerged(ctx context.Context, path, baseBranch string) bool {
	return runGit(ctx, path, "merge-base", "--is-ancestor", "HEAD", "origin/"+baseBranch) == nil
}

// BranchExists checks whether a local branch exists in the repository.
func BranchExists(ctx context.Context, repoPath, branch string) bool {
	res := execGit(ctx, repoPath, branchTimeout(ctx), "rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	return res.OK()
}

// Fetch fetches branch from origin.
func Fetch(ctx context.Context, repoPath, branch string) error {
	res := execGit(ctx, repoPath, networkTimeout(ctx), "fetch", "origin", branch, "--quiet")
	if err := res.Err(); err != nil {
		return fmt.Errorf("fetch origin/%s: %w", branch, err)
	}
	return nil
}

// PullFastForward fast-forwards the checked out branch from origin/<branch>.
func PullFastForward(ctx context.Context, repoPath, branch string) error {
	res := execGit(ctx, repoPath, networkTimeout(ctx), "pull", "--ff-only", "origin", branch)
	if err := res.Err(); err != nil {
		return fmt.Errorf("pull origin/%s: %w", branch, err)
	}
	return nil
}

// Push pushes HEAD of the worktree at path to origin, setting upstream.
// Returns git's standard output on success.
func Push(ctx context.Context, path string) (string, error) {
	res := execGit(ctx, path, networkTimeout(ctx), "push", "-u", "origin", "HEAD")
	if err := res.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// Pull pulls the upstream of the branch checked out at path.
// Returns git's standard output on success.
func Pull(ctx context.Context, path string) (string, error) {
	res := execGit(ctx, path, networkTimeout(ctx), "pull")
	if err := res.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// MainRepoPath asks the worktree at path for its common git directory and
// returns the canonical repository that owns it.
func MainRepoPath(ctx context.Context, path string) (string, error) {
	out, err := outputGit(ctx, path, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("resolve git common dir: %w", err)
	}
	commonDir := filepath.Clean(strings.TrimSpace(string(out)))
	if filepath.Base(commonDir) == ".git" {
		return filepath.Dir(commonDir), nil
	}
	// Bare repository: the common dir is the repository itself.
	return commonDir, nil
}

// IsRepo reports whether path has a .git entry (directory for a repository,
// file for a worktree).
func IsRepo(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir() || info.Mode().IsRegular()
}
