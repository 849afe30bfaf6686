package symlink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ParseIgnore reads gitignore-style lines and returns the patterns that name
// linkable files. Comments, blank lines, negations (!) and directory-only
// patterns (trailing /) are dropped. A leading / is removed since every
// pattern is matched relative to the repository root anyway.
func ParseIgnore(r io.Reader) ([]string, error) {
	var patterns []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "!"):
			continue
		case strings.HasSuffix(line, "/"):
			continue
		}

		line = strings.TrimPrefix(line, "/")
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore patterns: %w", err)
	}

	return patterns, nil
}

// ParseIgnoreFile parses the ignore file at path. A missing file yields no
// patterns and no error.
func ParseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return ParseIgnore(f)
}
