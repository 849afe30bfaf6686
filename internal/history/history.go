// Package history tracks recently accessed tasks.
// This enables `tasktree path` with no arguments to return to the last task.
package history

import (
	"cmp"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/raphi011/tasktree/internal/storage"
)

// maxEntries bounds the history file.
const maxEntries = 50

// Entry records accesses to one task.
type Entry struct {
	Task        string    `json:"task"`
	LastAccess  time.Time `json:"last_access"`
	AccessCount int       `json:"access_count"`
}

// History holds entries, most recent first.
type History struct {
	Entries []Entry `json:"entries"`
}

// Path returns the history file for the tasks root.
func Path(tasksDir string) string {
	return filepath.Join(storage.StateDir(tasksDir), "history.json")
}

// Load reads the history from path. A missing or corrupted file yields an
// empty history.
func Load(path string) (*History, error) {
	var h History
	if err := storage.LoadJSON(path, &h); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		// Corrupted - start fresh
		return &History{}, nil
	}
	return &h, nil
}

// Save writes the history to path atomically.
func (h *History) Save(path string) error {
	return storage.SaveJSON(path, h)
}

// record bumps the entry for task to the front, adding it if needed.
func (h *History) record(task string, now time.Time) {
	e := Entry{Task: task}
	if i := slices.IndexFunc(h.Entries, func(e Entry) bool { return e.Task == task }); i >= 0 {
		e = h.Entries[i]
		h.Entries = slices.Delete(h.Entries, i, i+1)
	}
	e.LastAccess = now
	e.AccessCount++

	// Most recent first.
	h.Entries = slices.Insert(h.Entries, 0, e)
	if len(h.Entries) > maxEntries {
		h.Entries = h.Entries[:maxEntries]
	}
}

// remove drops the entry for task. Reports whether one existed.
func (h *History) remove(task string) bool {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool { return e.Task == task })
	return len(h.Entries) != n
}

// MostRecent returns the most recently accessed task, or "".
func (h *History) MostRecent() string {
	if len(h.Entries) == 0 {
		return ""
	}
	return h.Entries[0].Task
}

// Frequent returns task names ordered by access count, then recency.
func (h *History) Frequent() []string {
	entries := slices.Clone(h.Entries)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.AccessCount, a.AccessCount)
	})
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Task
	}
	return names
}

// RecordAccess saves task as the most recently accessed one.
func RecordAccess(path, task string) error {
	h, err := Load(path)
	if err != nil {
		return err
	}
	h.record(task, time.Now())
	return h.Save(path)
}

// Forget removes task from the history, typically after it was finished.
func Forget(path, task string) error {
	h, err := Load(path)
	if err != nil {
		return err
	}
	if !h.remove(task) {
		return nil
	}
	return h.Save(path)
}

// GetMostRecent returns the most recently accessed task.
// Returns empty string if no history exists.
func GetMostRecent(path string) (string, error) {
	h, err := Load(path)
	if err != nil {
		return "", err
	}
	return h.MostRecent(), nil
}
