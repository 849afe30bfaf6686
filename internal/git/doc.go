// Package git provides git operations via shell commands.
//
// All operations shell out to the git CLI through the cmd package, each with
// an explicit deadline taken from [Timeouts] attached to the context
// ([WithTimeouts]). Read-only queries use the read deadline, branch checks the
// branch deadline and anything touching a remote the network deadline. A
// deadline that expires surfaces as [cmd.ErrTimeout], never as a hang.
//
// # Status
//
//   - [GetStatus]: branch, staged/modified/untracked files, ahead/behind
//   - [ParsePorcelain]: classification of "git status --porcelain" lines
//   - [GetDefaultBranch], [IsMerged]: merge-safety queries
//
// Advisory queries degrade instead of failing: ahead/behind counts default to
// zero and [IsMerged] answers false whenever ancestry cannot be determined.
//
// # Worktree Operations
//
//   - [AddWorktree]: create a worktree on a new (or reset) branch
//   - [RemoveWorktree], [PruneWorktrees], [DeleteBranch]: independent cleanup steps
//   - [MainRepoPath]: locate the canonical repository from a worktree
//
// # Remote Operations
//
//   - [Fetch], [PullFastForward]: refresh a base branch before branching off it
//   - [Push], [Pull]: per-worktree synchronization
package git
