package git

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/raphi011/tasktree/internal/cmd"
)

// stagedCodes are porcelain status letters that mark a tracked change.
const stagedCodes = "MADRCT"

// Status is a point-in-time snapshot of a worktree's git state.
type Status struct {
	Branch    string   `json:"branch"`
	Staged    []string `json:"staged"`
	Modified  []string `json:"modified"`
	Untracked []string `json:"untracked"`
	Ahead     int      `json:"ahead"`
	Behind    int      `json:"behind"`
	// Error is set only when branch or file status could not be determined.
	Error string `json:"error,omitempty"`
}

// IsDirty reports whether there are any staged, modified or untracked files.
func (s Status) IsDirty() bool {
	return len(s.Staged) > 0 || len(s.Modified) > 0 || len(s.Untracked) > 0
}

// ChangedFiles returns the number of staged, modified and untracked files.
func (s Status) ChangedFiles() int {
	return len(s.Staged) + len(s.Modified) + len(s.Untracked)
}

// Change is a single file entry for display.
type Change struct {
	Code string `json:"code"`
	File string `json:"file"`
}

// Changes lists every changed file with a two-letter code:
// "A " for staged, " M" for modified and "??" for untracked.
func (s Status) Changes() []Change {
	changes := make([]Change, 0, s.ChangedFiles())
	for _, f := range s.Staged {
		changes = append(changes, Change{Code: "A ", File: f})
	}
	for _, f := range s.Modified {
		changes = append(changes, Change{Code: " M", File: f})
	}
	for _, f := range s.Untracked {
		changes = append(changes, Change{Code: "??", File: f})
	}
	return changes
}

// GetStatus computes the status of the worktree at path.
// A missing path yields an empty Status. Failures of the branch or file
// status queries are recorded in Status.Error; ahead/behind is best-effort.
func GetStatus(ctx context.Context, path string) Status {
	var status Status

	if _, err := os.Stat(path); err != nil {
		return status
	}

	res := execGit(ctx, path, readTimeout(ctx), "branch", "--show-current")
	if err := res.Err(); err != nil {
		status.Error = describeFailure(err, "git operation timed out", "git error", "failed to get branch")
		return status
	}
	status.Branch = strings.TrimSpace(string(res.Stdout))

	res = execGit(ctx, path, readTimeout(ctx), "status", "--porcelain")
	if err := res.Err(); err != nil {
		status.Error = describeFailure(err, "git status timed out", "git status failed", "unknown error")
		return status
	}
	status.Staged, status.Modified, status.Untracked = ParsePorcelain(string(res.Stdout))

	// Not critical: no upstream yet, or an unreachable remote, leaves zeros.
	status.Ahead, status.Behind, _ = aheadBehind(ctx, path)

	return status
}

// describeFailure renders a query failure for Status.Error.
func describeFailure(err error, timedOut, prefix, fallback string) string {
	if errors.Is(err, cmd.ErrTimeout) {
		return timedOut
	}
	msg := fallback
	var cmdErr *cmd.Error
	if errors.As(err, &cmdErr) && cmdErr.Msg != "" {
		msg = cmdErr.Msg
	}
	return prefix + ": " + msg
}

// ParsePorcelain classifies "git status --porcelain" output into staged,
// modified and untracked file lists. A line whose index column holds a change
// letter counts as staged only, even if the worktree column also changed.
func ParsePorcelain(out string) (staged, modified, untracked []string) {
	for line := range strings.SplitSeq(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 4 {
			continue
		}

		code := line[:2]
		file := porcelainPath(line[3:])

		switch {
		case code == "??":
			untracked = append(untracked, file)
		case strings.IndexByte(stagedCodes, code[0]) >= 0:
			staged = append(staged, file)
		case strings.IndexByte(stagedCodes, code[1]) >= 0:
			modified = append(modified, file)
		}
	}
	return staged, modified, untracked
}

// porcelainPath extracts the current path from a porcelain entry,
// following renames ("old -> new") and unquoting C-style quoted names.
func porcelainPath(s string) string {
	if i := strings.Index(s, " -> "); i >= 0 {
		s = s[i+len(" -> "):]
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if unquoted, err := strconv.Unquote(s); err == nil {
			return unquoted
		}
	}
	return s
}

// aheadBehind returns how many commits HEAD is ahead of and behind its upstream.
func aheadBehind(ctx context.Context, path string) (int, int, error) {
	out, err := outputGit(ctx, path, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return 0, 0, err
	}
	return parseAheadBehind(string(out))
}

// parseAheadBehind parses "<ahead>\t<behind>".
func parseAheadBehind(out string) (int, int, error) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, errors.New("unexpected rev-list output: " + strconv.Quote(out))
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}
