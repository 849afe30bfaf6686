//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/tasktree/internal/config"
	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/output"
)

// testEnv is a repos root with canonical repositories and an empty tasks root.
type testEnv struct {
	ReposDir string
	TasksDir string
	Config   *config.Config
	Stdout   *bytes.Buffer
	Stderr   *bytes.Buffer
}

// TestMain isolates git from the user's global and system configuration.
func TestMain(m *testing.M) {
	os.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	os.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	os.Exit(m.Run())
}

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// newTestEnv creates repos and tasks roots under a temp dir, with a default
// config pointing at them.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir := resolvePath(t, t.TempDir())
	cfg := config.Default()
	cfg.ReposDir = filepath.Join(tmpDir, "repos")
	cfg.TasksDir = filepath.Join(tmpDir, "tasks")

	for _, dir := range []string{cfg.ReposDir, cfg.TasksDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	return &testEnv{
		ReposDir: cfg.ReposDir,
		TasksDir: cfg.TasksDir,
		Config:   &cfg,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	}
}

// context returns a context carrying the env's logger, printer and config.
func (e *testEnv) context() context.Context {
	ctx := context.Background()
	ctx = log.WithLogger(ctx, log.New(e.Stderr, false, false))
	ctx = output.WithPrinter(ctx, e.Stdout)
	ctx = config.WithResolver(ctx, config.NewResolver(e.Config))
	return ctx
}

// run executes cmd with args in the env's context.
func (e *testEnv) run(t *testing.T, cmd interface {
	SetContext(context.Context)
	SetArgs([]string)
	Execute() error
}, args ...string) error {
	t.Helper()
	e.Stdout.Reset()
	e.Stderr.Reset()
	cmd.SetContext(e.context())
	// nil args would make cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	return cmd.Execute()
}

// addRepo creates reposDir/name cloned from a bare origin with one commit on
// main pushed. Returns the canonical repository path.
func (e *testEnv) addRepo(t *testing.T, name string) string {
	t.Helper()

	origin := filepath.Join(filepath.Dir(e.ReposDir), "origins", name+".git")
	repoPath := filepath.Join(e.ReposDir, filepath.FromSlash(name))

	runGitCommand(t, "", "git", "init", "--bare", "-b", "main", origin)
	runGitCommand(t, "", "git", "clone", origin, repoPath)
	runGitCommand(t, repoPath, "git", "config", "user.email", "test@test.com")
	runGitCommand(t, repoPath, "git", "config", "user.name", "Test User")
	runGitCommand(t, repoPath, "git", "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# "+name+"\n"), 0644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	runGitCommand(t, repoPath, "git", "add", "README.md")
	runGitCommand(t, repoPath, "git", "commit", "-m", "Initial commit")
	runGitCommand(t, repoPath, "git", "push", "-u", "origin", "HEAD")

	return repoPath
}

// runGitCommand runs a command in dir and returns its combined output.
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run %v: %v\n%s", args, err, out)
	}
	return string(out)
}

// makeDirty creates an untracked file in a worktree.
func makeDirty(t *testing.T, worktreePath string) {
	t.Helper()

	filePath := filepath.Join(worktreePath, "dirty.txt")
	if err := os.WriteFile(filePath, []byte("uncommitted changes\n"), 0644); err != nil {
		t.Fatalf("failed to create dirty file: %v", err)
	}
}

// makeCommitInWorktree creates a file and commits it in the worktree.
func makeCommitInWorktree(t *testing.T, worktreePath, filename string) {
	t.Helper()
	filePath := filepath.Join(worktreePath, filename)
	if err := os.WriteFile(filePath, []byte("content for "+filename+"\n"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	runGitCommand(t, worktreePath, "git", "add", filename)
	runGitCommand(t, worktreePath, "git", "commit", "-m", "Add "+filename)
}

// branchExists reports whether branch exists in the repository.
func branchExists(t *testing.T, repoPath, branch string) bool {
	t.Helper()
	out := runGitCommand(t, repoPath, "git", "branch", "--list", branch)
	return strings.TrimSpace(out) != ""
}
