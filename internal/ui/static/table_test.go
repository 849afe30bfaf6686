package static

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := ansi.Strip(RenderTable([]string{"TASK", "REPOS"}, [][]string{
		{"PROJ-1", "api"},
		{"PROJ-22", "api, web"},
	}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "TASK") || !strings.Contains(lines[0], "REPOS") {
		t.Errorf("header = %q", lines[0])
	}
	// Columns are aligned: REPOS starts at the same offset in every line.
	col := strings.Index(lines[0], "REPOS")
	if strings.Index(lines[1], "api") != col || strings.Index(lines[2], "api, web") != col {
		t.Errorf("columns not aligned:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	t.Parallel()

	if out := RenderTable([]string{"TASK"}, nil); out != "" {
		t.Errorf("RenderTable(no rows) = %q, want empty", out)
	}
}
