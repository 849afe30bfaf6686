package task

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphi011/tasktree/internal/cmd"
)

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// runGit runs git in dir and fails the test on error.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	if err := cmd.RunContext(context.Background(), dir, "git", args...); err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
}

// mkdirs creates every directory (slash-separated) under root.
func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

// writeFile writes content to root/rel, creating parents.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// configureRepo sets git user config and disables GPG signing.
func configureRepo(t *testing.T, repoPath string) {
	t.Helper()
	runGit(t, repoPath, "config", "user.email", "test@test.com")
	runGit(t, repoPath, "config", "user.name", "Test User")
	runGit(t, repoPath, "config", "commit.gpgsign", "false")
}

// initRepo creates a repository on main with one commit at path.
func initRepo(t *testing.T, path string) {
	t.Helper()
	runGit(t, "", "init", "-b", "main", path)
	configureRepo(t, path)
	writeFile(t, path, "README.md", "# test\n")
	runGit(t, path, "add", "README.md")
	runGit(t, path, "commit", "-m", "Initial commit")
}

// initRepoWithOrigin creates reposDir/name cloned from a bare origin next to
// reposDir, with one commit pushed to main.
func initRepoWithOrigin(t *testing.T, reposDir, name string) string {
	t.Helper()
	origin := filepath.Join(filepath.Dir(reposDir), "origins", name+".git")
	repoPath := filepath.Join(reposDir, filepath.FromSlash(name))

	runGit(t, "", "init", "--bare", "-b", "main", origin)
	runGit(t, "", "clone", origin, repoPath)
	configureRepo(t, repoPath)
	writeFile(t, repoPath, "README.md", "# "+name+"\n")
	runGit(t, repoPath, "add", "README.md")
	runGit(t, repoPath, "commit", "-m", "Initial commit")
	runGit(t, repoPath, "push", "-u", "origin", "HEAD")

	return repoPath
}

// worktreeNames returns the names of ws.
func worktreeNames(ws []Worktree) []string {
	names := make([]string, 0, len(ws))
	for _, w := range ws {
		names = append(names, w.Name)
	}
	return names
}
