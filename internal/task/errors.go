package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

var (
	// ErrInvalidName is returned for task or repository names outside the
	// allowed character set.
	ErrInvalidName = errors.New("invalid name")
	// ErrRepoNotFound is matched by errors.Is for a missing canonical repository.
	ErrRepoNotFound = errors.New("repository not found")
	// ErrTaskNotFound is returned when no task directory exists for a name.
	ErrTaskNotFound = errors.New("task not found")
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// RepoNotFoundError names a missing repository and the closest available ones.
type RepoNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *RepoNotFoundError) Error() string {
	msg := fmt.Sprintf("repository not found: %s", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *RepoNotFoundError) Is(target error) bool {
	return target == ErrRepoNotFound
}

// Suggest returns up to three candidates that fuzzy-match name, best first.
func Suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	var out []string
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
