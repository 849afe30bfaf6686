package task

import (
	"os"
	"path/filepath"
	"slices"
)

// noiseDirs are never descended into while looking for worktrees.
var noiseDirs = map[string]bool{
	".terraform":   true,
	"node_modules": true,
	"vendor":       true,
	".git":         true,
}

// findBoundaries walks root and returns the slash-separated relative paths of
// every directory holding a .git entry, sorted. The walk never descends below
// a boundary or into a noise directory, and root itself is never reported.
// A missing root yields nothing.
func findBoundaries(root string) []string {
	var found []string

	// Paths relative to root; "" is root.
	stack := []string{""}
	for len(stack) > 0 {
		rel := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dir := filepath.Join(root, filepath.FromSlash(rel))
		if rel != "" && hasGitEntry(dir) {
			found = append(found, rel)
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			// Symlinked directories are not followed.
			if !e.IsDir() || noiseDirs[e.Name()] {
				continue
			}
			child := e.Name()
			if rel != "" {
				child = rel + "/" + child
			}
			stack = append(stack, child)
		}
	}

	slices.Sort(found)
	return found
}

// hasGitEntry reports whether dir contains .git as a directory (repository)
// or a regular file (worktree).
func hasGitEntry(dir string) bool {
	info, err := os.Lstat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir() || info.Mode().IsRegular()
}

// Discover returns the worktrees found under a task directory, sorted by name.
func Discover(taskPath string) []Worktree {
	rels := findBoundaries(taskPath)
	worktrees := make([]Worktree, 0, len(rels))
	for _, rel := range rels {
		worktrees = append(worktrees, Worktree{
			Name: rel,
			Path: filepath.Join(taskPath, filepath.FromSlash(rel)),
		})
	}
	return worktrees
}

// FindRepos returns the names of every repository under reposDir, including
// nested ones such as "backend/api", sorted.
func FindRepos(reposDir string) []string {
	return findBoundaries(reposDir)
}
