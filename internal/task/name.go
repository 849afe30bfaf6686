package task

import (
	"fmt"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9._/\-]+$`)

// ValidateName checks a task or repository name before it touches the
// filesystem or a git command line. Names are limited to letters, digits,
// '.', '_', '/' and '-', must not start with '-' (git would read them as a
// flag) and must not contain empty, "." or ".." path segments.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("%w: %q starts with '-'", ErrInvalidName, name)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q may only contain letters, digits, '.', '_', '/' and '-'", ErrInvalidName, name)
	}
	for seg := range strings.SplitSeq(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q has an empty or relative path segment", ErrInvalidName, name)
		}
	}
	return nil
}

// ValidateTaskName checks a task name: ValidateName plus no segment starting
// with '.', since hidden directories under the tasks root hold tasktree's own
// state and are never listed as tasks.
//
// A name with '/' nests the task directory. Listing only looks one level
// below the tasks root, so "feature/x" shows up as task "feature" with
// worktrees under "x/"; use GetTask with the full name to address it.
func ValidateTaskName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	for seg := range strings.SplitSeq(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return fmt.Errorf("%w: %q has a hidden path segment", ErrInvalidName, name)
		}
	}
	return nil
}
