// Package cmd runs external commands with a deadline and classifies how they
// finished.
//
// Every invocation yields a [Result] whose [Outcome] is one of success,
// non-zero exit, timeout or launch failure. Callers that only care about
// success use [Result.Err], which returns an [*Error] carrying the
// command's diagnostic output (stderr, falling back to stdout):
//
//	res := cmd.Exec(ctx, repoPath, 5*time.Second, "git", "status", "--porcelain")
//	if errors.Is(res.Err(), cmd.ErrTimeout) {
//	    // deadline exceeded, the process was killed
//	}
//
// Each execution is echoed through the context logger in verbose mode.
//
// # Design Notes
//
// tasktree shells out to the git CLI rather than using Go git libraries, so
// the user's SSH keys, credential helpers and config apply unchanged.
package cmd
