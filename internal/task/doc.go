// Package task manages tasks: named units of work, each a directory under the
// tasks root holding one git worktree per repository, all checked out on a
// branch named after the task.
//
// The task directory is the only record of a task. Listing and lookup
// rediscover worktrees from disk every time, and no index file is kept.
//
// # Layout
//
//	<repos>/<repo>/          canonical repository (repo may be nested, e.g. backend/api)
//	<tasks>/<task>/<repo>/   worktree on branch <task>
//
// # Safety
//
// [Manager.CheckSafety] reports worktrees that are dirty, ahead of their
// upstream or not merged into the default branch. The report is a snapshot:
// nothing stops the state from changing between the check and a following
// [Manager.FinishTask]. Callers that gate removal on the report accept that
// window.
//
// # Concurrency
//
// Fan-out operations ([PushAll], [PullAll], [Task.RefreshStatuses],
// [Manager.CheckSafety]) run one git process per worktree through a bounded
// pool and block until every unit has finished or timed out. A failing unit
// never cancels its siblings.
package task
