// Package static provides non-interactive terminal output components.
//
// This package renders task tables, per-worktree status, safety reports
// and push/pull results. Output is styled with the active theme from the
// styles package; callers write it through a color-profile-aware writer so
// pipes receive plain text.
package static

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/tasktree/internal/ui/styles"
)

// RenderTable lays out headers and rows as borderless, left-aligned columns
// separated by two spaces. Column widths come from lipgloss/table. Returns ""
// when there are no rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	header := styles.Bold.PaddingRight(2)

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	return t.String() + "\n"
}
