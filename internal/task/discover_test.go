package task

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	// Worktrees mark their boundary with a .git file, repositories with a directory.
	writeFile(t, root, "api/.git", "gitdir: /somewhere\n")
	mkdirs(t, root, "web/.git", "backend/worker/.git")

	// Nested below a boundary: must not be reported.
	mkdirs(t, root, "api/sub/.git")
	// Inside noise directories: must not be reported.
	mkdirs(t, root,
		"web-app/node_modules/dep/.git",
		"infra/.terraform/modules/x/.git",
		"svc/vendor/lib/.git",
	)
	// Plain directory without a boundary.
	mkdirs(t, root, "docs/guide")

	got := worktreeNames(Discover(root))
	want := []string{"api", "backend/worker", "web"}
	if !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}

	// Stable across calls.
	if again := worktreeNames(Discover(root)); !slices.Equal(again, got) {
		t.Errorf("second Discover() = %v, want %v", again, got)
	}
}

func TestDiscover_Paths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "backend/api/.git")

	ws := Discover(root)
	if len(ws) != 1 {
		t.Fatalf("Discover() = %v, want one worktree", ws)
	}
	if want := filepath.Join(root, "backend", "api"); ws[0].Path != want {
		t.Errorf("Path = %s, want %s", ws[0].Path, want)
	}
}

func TestDiscover_RootIsNotAWorktree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, ".git", "child/.git")

	got := worktreeNames(Discover(root))
	if !slices.Equal(got, []string{"child"}) {
		t.Errorf("Discover() = %v, want [child]", got)
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	t.Parallel()

	if got := Discover(filepath.Join(t.TempDir(), "nope")); len(got) != 0 {
		t.Errorf("Discover(missing) = %v, want empty", got)
	}
}

func TestDiscover_SkipsSymlinkedDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	elsewhere := t.TempDir()
	mkdirs(t, elsewhere, "repo/.git")

	if err := os.Symlink(filepath.Join(elsewhere, "repo"), filepath.Join(root, "linked")); err != nil {
		t.Fatal(err)
	}

	if got := Discover(root); len(got) != 0 {
		t.Errorf("Discover() = %v, want symlinked repo ignored", got)
	}
}

func TestFindRepos(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "alpha/.git", "group/beta/.git", "group/gamma/.git", "not-a-repo/src")

	got := FindRepos(root)
	want := []string{"alpha", "group/beta", "group/gamma"}
	if !slices.Equal(got, want) {
		t.Errorf("FindRepos() = %v, want %v", got, want)
	}
}
