package task

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/tasktree/internal/git"
	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/pool"
	"github.com/raphi011/tasktree/internal/symlink"
)

// DefaultBaseBranch is used when neither the caller nor the manager names one.
const DefaultBaseBranch = "main"

// Manager creates, lists and removes tasks.
type Manager struct {
	ReposDir       string   // canonical repositories
	TasksDir       string   // one directory per task
	BaseBranch     string   // branch new worktrees start from
	SymlinkExclude []string // filename globs never linked into worktrees

	// Settings, when set, supplies per-repository overrides of BaseBranch
	// and SymlinkExclude.
	Settings func(repoPath string) RepoSettings
}

// RepoSettings are the effective settings for one canonical repository.
type RepoSettings struct {
	BaseBranch     string
	SymlinkExclude []string
}

func (m *Manager) baseBranch(base string) string {
	if base != "" {
		return base
	}
	if m.BaseBranch != "" {
		return m.BaseBranch
	}
	return DefaultBaseBranch
}

// settingsFor resolves base and symlink exclusions for repoPath. An explicit
// base wins over the repository's setting, which wins over the manager's.
func (m *Manager) settingsFor(repoPath, base string) RepoSettings {
	rs := RepoSettings{BaseBranch: base, SymlinkExclude: m.SymlinkExclude}
	if m.Settings != nil {
		repo := m.Settings(repoPath)
		if rs.BaseBranch == "" {
			rs.BaseBranch = repo.BaseBranch
		}
		rs.SymlinkExclude = repo.SymlinkExclude
	}
	rs.BaseBranch = m.baseBranch(rs.BaseBranch)
	return rs
}

func (m *Manager) repoPath(repo string) string {
	return filepath.Join(m.ReposDir, filepath.FromSlash(repo))
}

func (m *Manager) taskPath(name string) string {
	return filepath.Join(m.TasksDir, filepath.FromSlash(name))
}

// AvailableRepos lists every canonical repository under the repos root.
func (m *Manager) AvailableRepos() []string {
	return FindRepos(m.ReposDir)
}

// ReposNotInTask lists available repositories that have no worktree in t.
func (m *Manager) ReposNotInTask(t *Task) []string {
	var repos []string
	for _, repo := range m.AvailableRepos() {
		if _, ok := t.Worktree(repo); !ok {
			repos = append(repos, repo)
		}
	}
	return repos
}

// checkRepo validates repo and verifies the canonical repository exists.
func (m *Manager) checkRepo(repo string) error {
	if err := ValidateName(repo); err != nil {
		return err
	}
	if !git.IsRepo(m.repoPath(repo)) {
		return &RepoNotFoundError{Name: repo, Suggestions: Suggest(repo, m.AvailableRepos())}
	}
	return nil
}

// CreateTask creates the task directory and one worktree per repository, all
// on a branch named after the task and started from base (the manager's base
// branch when empty).
//
// The name and every repository are checked before anything is created. The
// worktrees are then created concurrently; a failure for one repository does
// not stop the others and all failures are returned joined. The returned task
// reflects what exists on disk afterwards.
func (m *Manager) CreateTask(ctx context.Context, name string, repos []string, base string) (*Task, error) {
	if err := ValidateTaskName(name); err != nil {
		return nil, err
	}
	repos = dedupe(repos)
	for _, repo := range repos {
		if err := m.checkRepo(repo); err != nil {
			return nil, err
		}
	}

	path := m.taskPath(name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create task directory: %w", err)
	}

	t := &Task{Name: name, Path: path}
	err := m.createWorktrees(ctx, t, repos, base)
	t.Worktrees = Discover(path)
	return t, err
}

// AddRepo adds worktrees for repos to an existing task and refreshes its
// worktree list from disk. Repositories already in the task are left as is.
func (m *Manager) AddRepo(ctx context.Context, t *Task, repos []string, base string) error {
	repos = dedupe(repos)
	for _, repo := range repos {
		if err := m.checkRepo(repo); err != nil {
			return err
		}
	}

	err := m.createWorktrees(ctx, t, repos, base)
	t.Worktrees = Discover(t.Path)
	return err
}

func (m *Manager) createWorktrees(ctx context.Context, t *Task, repos []string, base string) error {
	errs := pool.Run(ctx, pool.NetworkLimit, repos, func(ctx context.Context, repo string) error {
		return m.createWorktree(ctx, t, repo, base)
	})
	return errors.Join(errs...)
}

// createWorktree adds the worktree for repo to t. It is a no-op when the
// worktree directory already exists.
func (m *Manager) createWorktree(ctx context.Context, t *Task, repo, base string) error {
	l := log.FromContext(ctx)

	repoPath := m.repoPath(repo)
	if !git.IsRepo(repoPath) {
		return &RepoNotFoundError{Name: repo}
	}

	wtPath := filepath.Join(t.Path, filepath.FromSlash(repo))
	if _, err := os.Stat(wtPath); err == nil {
		l.Debug("worktree exists", "repo", repo, "path", wtPath)
		return nil
	}

	rs := m.settingsFor(repoPath, base)
	base = rs.BaseBranch
	reset := git.BranchExists(ctx, repoPath, t.Name)

	// Freshness only: an offline or diverged canonical repo still gets a worktree.
	if err := git.Fetch(ctx, repoPath, base); err != nil {
		l.Debug("fetch failed", "repo", repo, "error", err)
	}
	if err := git.PullFastForward(ctx, repoPath, base); err != nil {
		l.Debug("pull failed", "repo", repo, "error", err)
	}

	if err := git.AddWorktree(ctx, repoPath, wtPath, t.Name, base, reset); err != nil {
		return fmt.Errorf("%s: %w", repo, err)
	}

	linked, err := symlink.Provision(ctx, repoPath, wtPath, rs.SymlinkExclude)
	if err != nil {
		l.Printf("Warning: %s: %v\n", repo, err)
	}
	if len(linked) > 0 {
		l.Debug("linked ignored files", "repo", repo, "count", len(linked))
	}

	return nil
}

// ListTasks returns every task under the tasks root, sorted by name, with its
// worktrees discovered. Hidden directories are skipped. A missing tasks root
// yields no tasks.
func (m *Manager) ListTasks() ([]*Task, error) {
	entries, err := os.ReadDir(m.TasksDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read tasks directory: %w", err)
	}

	var tasks []*Task
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(m.TasksDir, e.Name())
		tasks = append(tasks, &Task{
			Name:      e.Name(),
			Path:      path,
			Worktrees: Discover(path),
		})
	}
	return tasks, nil
}

// GetTask loads the task called name.
func (m *Manager) GetTask(name string) (*Task, error) {
	if err := ValidateTaskName(name); err != nil {
		return nil, err
	}

	path := m.taskPath(name)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}

	return &Task{Name: name, Path: path, Worktrees: Discover(path)}, nil
}

// FinishTask removes every worktree of t from its canonical repository,
// deletes the task branch there and removes the task directory. It does not
// check safety; see [Manager.CheckSafety].
func (m *Manager) FinishTask(ctx context.Context, t *Task) error {
	for _, wt := range t.Worktrees {
		m.removeWorktree(ctx, wt, t.Name)
	}

	if err := os.RemoveAll(t.Path); err != nil {
		return fmt.Errorf("remove task directory: %w", err)
	}
	return nil
}

// removeWorktree unregisters wt from its canonical repository and deletes
// branch there. Each git step is attempted regardless of the others.
func (m *Manager) removeWorktree(ctx context.Context, wt Worktree, branch string) {
	l := log.FromContext(ctx)

	mainRepo := m.CanonicalRepo(ctx, wt)
	if mainRepo == "" {
		l.Debug("no canonical repository", "worktree", wt.Name)
		return
	}

	if wt.Exists() {
		if err := git.RemoveWorktree(ctx, mainRepo, wt.Path); err != nil {
			l.Debug("remove worktree failed", "worktree", wt.Name, "error", err)
		}
	}
	// Covers directories already deleted out of band.
	if err := git.PruneWorktrees(ctx, mainRepo); err != nil {
		l.Debug("prune failed", "repo", mainRepo, "error", err)
	}
	if err := git.DeleteBranch(ctx, mainRepo, branch); err != nil {
		l.Debug("delete branch failed", "repo", mainRepo, "branch", branch, "error", err)
	}
}

// CanonicalRepo asks the worktree for its common git directory, falling back
// to the repository of the same name under the repos root. Returns "" when
// neither is available.
func (m *Manager) CanonicalRepo(ctx context.Context, wt Worktree) string {
	if wt.Exists() {
		if p, err := git.MainRepoPath(ctx, wt.Path); err == nil {
			return p
		}
	}
	if p := m.repoPath(wt.Name); git.IsRepo(p) {
		return p
	}
	return ""
}

func dedupe(names []string) []string {
	var out []string
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
