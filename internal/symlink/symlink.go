// Package symlink shares a repository's ignored local files with its worktrees.
//
// Files matched by the repository's .gitignore (credentials, local overrides)
// are linked into a fresh worktree at the same relative path, so every
// worktree of a task sees the same copy. Only a subset of the ignore syntax is
// honored: negations and directory-only patterns are skipped, a pattern
// without ** matches only at the depth it spells out, and braces are literal
// characters.
package symlink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/raphi011/tasktree/internal/log"
)

// IgnoreFile is the file, relative to the repository root, that lists the
// patterns to share.
const IgnoreFile = ".gitignore"

// DefaultExclude lists filename patterns that are never linked.
var DefaultExclude = []string{"*.pyc", "*.pyo", "*.class", "*.log", ".DS_Store"}

// pattern is a compiled ignore entry.
type pattern struct {
	raw   string
	g     glob.Glob
	depth int // number of path segments; 0 when unbounded (**)
}

func (p pattern) match(rel string, depth int) bool {
	if p.depth > 0 && depth != p.depth {
		return false
	}
	return p.g.Match(rel)
}

// braceEscaper makes braces literal; ignore files have no alternation.
var braceEscaper = strings.NewReplacer("{", `\{`, "}", `\}`)

func compilePattern(raw string) (pattern, error) {
	expr := braceEscaper.Replace(raw)
	// "**/x" also matches x at the root.
	if rest, ok := strings.CutPrefix(expr, "**/"); ok {
		expr = "{" + rest + ",**/" + rest + "}"
	}

	g, err := glob.Compile(expr, '/')
	if err != nil {
		return pattern{}, err
	}

	p := pattern{raw: raw, g: g}
	if !strings.Contains(raw, "**") {
		p.depth = strings.Count(raw, "/") + 1
	}
	return p, nil
}

// Matcher decides which filenames are excluded from linking.
type Matcher struct {
	globs []glob.Glob
}

// NewMatcher compiles filename patterns. Invalid patterns are reported and
// the valid ones are kept.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	var errs []error
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("exclude pattern %q: %w", p, err))
			continue
		}
		m.globs = append(m.globs, g)
	}
	return m, errors.Join(errs...)
}

// Match reports whether name matches any exclusion pattern.
func (m *Matcher) Match(name string) bool {
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Candidates returns the slash-separated paths of regular files under
// repoPath that match any of patterns and are not excluded by name. Files
// inside .git are never returned.
func Candidates(repoPath string, patterns []string, exclude *Matcher) ([]string, error) {
	var compiled []pattern
	maxDepth := 0
	for _, raw := range patterns {
		p, err := compilePattern(raw)
		if err != nil {
			continue
		}
		compiled = append(compiled, p)
		if p.depth == 0 {
			maxDepth = -1
		} else if maxDepth >= 0 && p.depth > maxDepth {
			maxDepth = p.depth
		}
	}
	if len(compiled) == 0 {
		return nil, nil
	}

	var matches []string
	err := filepath.WalkDir(repoPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == repoPath {
				return err
			}
			return nil // unreadable subtree
		}
		if p == repoPath {
			return nil
		}
		if d.Name() == ".git" {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(repoPath, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/") + 1

		if d.IsDir() {
			if maxDepth > 0 && depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		// Stat follows links so a linked regular file still counts.
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		if exclude != nil && exclude.Match(path.Base(rel)) {
			return nil
		}
		for _, pat := range compiled {
			if pat.match(rel, depth) {
				matches = append(matches, rel)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", repoPath, err)
	}

	return matches, nil
}

// Provision links every ignored file of the repository at repoPath into
// worktreePath, skipping files whose name matches exclude and paths that
// already exist in the worktree. It returns the relative paths it linked.
// A failure on one file does not stop the others.
func Provision(ctx context.Context, repoPath, worktreePath string, exclude []string) ([]string, error) {
	l := log.FromContext(ctx)

	patterns, err := ParseIgnoreFile(filepath.Join(repoPath, IgnoreFile))
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	matcher, err := NewMatcher(exclude)
	if err != nil {
		l.Printf("Warning: %v\n", err)
	}

	files, err := Candidates(repoPath, patterns, matcher)
	if err != nil {
		return nil, err
	}

	var linked []string
	var errs []error
	for _, rel := range files {
		src := filepath.Join(repoPath, filepath.FromSlash(rel))
		dst := filepath.Join(worktreePath, filepath.FromSlash(rel))

		if _, err := os.Lstat(dst); err == nil {
			l.Debug("symlink target exists", "path", rel)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			errs = append(errs, fmt.Errorf("create directory for %s: %w", rel, err))
			continue
		}
		if err := os.Symlink(src, dst); err != nil {
			errs = append(errs, fmt.Errorf("link %s: %w", rel, err))
			continue
		}
		l.Debug("linked ignored file", "path", rel)
		linked = append(linked, rel)
	}

	return linked, errors.Join(errs...)
}
