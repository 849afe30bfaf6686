package main

import (
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"
)

// commandAliases maps test name prefixes that don't spell a command.
var commandAliases = map[string]string{
	"Root":        "tasktree",
	"Version":     "tasktree",
	"HookFlags":   "tasktree",
	"HookOptions": "tasktree",
	"IsConfigCmd": "tasktree config",
	"Config":      "tasktree config",
}

// commands are the tasktree subcommands recognized as test name prefixes.
var commands = []string{
	"create", "add", "list", "status", "check", "finish",
	"push", "pull", "repos", "path", "notes", "config",
}

var anchorRe = regexp.MustCompile(`[^a-z0-9-]`)

// RenderMarkdown writes the test documentation as markdown.
func RenderMarkdown(w io.Writer, packages []TestPackage) error {
	return renderMarkdown(w, packages, time.Now())
}

func renderMarkdown(w io.Writer, packages []TestPackage, now time.Time) error {
	fmt.Fprintf(w, "# Test Documentation\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", now.Format("2006-01-02"))

	commandMap := make(map[string][]TestFunc)
	for _, pkg := range packages {
		for _, file := range pkg.Files {
			for _, test := range file.Tests {
				group := extractCommand(test.Name, pkg.Name)
				commandMap[group] = append(commandMap[group], test)
			}
		}
	}
	groups := slices.Sorted(maps.Keys(commandMap))

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Command | Tests |\n")
	fmt.Fprintf(w, "|---------|-------|\n")

	total := 0
	for _, group := range groups {
		n := len(commandMap[group])
		fmt.Fprintf(w, "| [%s](#%s) | %d |\n", group, toAnchor(group), n)
		total += n
	}
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", total)

	for _, group := range groups {
		renderCommandSection(w, group, commandMap[group])
	}

	return nil
}

func renderCommandSection(w io.Writer, group string, tests []TestFunc) {
	fmt.Fprintf(w, "## %s\n\n", group)
	fmt.Fprintf(w, "| Test | Scenario | Expected |\n")
	fmt.Fprintf(w, "|------|----------|----------|\n")

	for _, test := range tests {
		scenario, expected := test.Scenario, test.Expected
		if scenario == "" {
			scenario = extractDescription(test.Doc, test.Name)
		}
		fmt.Fprintf(w, "| `%s` | %s | %s |\n", test.Name, escapeCell(scenario), escapeCell(expected))
	}
	fmt.Fprintf(w, "\n")
}

// extractCommand groups a test by the command its name starts with.
// Tests in cmd/ packages map to "tasktree <command>"; tests elsewhere are
// grouped by their package directory.
//   - TestFinish_ForceDirty -> tasktree finish
//   - TestPath_MostRecent -> tasktree path
//   - TestParsePorcelain in internal/git -> internal/git
func extractCommand(testName, pkg string) string {
	name := strings.TrimPrefix(testName, "Test")
	prefix, _, _ := strings.Cut(name, "_")

	if !strings.HasPrefix(filepathSlash(pkg), "cmd/") {
		return filepathSlash(pkg)
	}
	if mapped, ok := commandAliases[prefix]; ok {
		return mapped
	}
	if lower := strings.ToLower(prefix); slices.Contains(commands, lower) {
		return "tasktree " + lower
	}
	return "tasktree (helpers)"
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// extractDescription gets the first line of the doc comment as description.
// It strips the test function name from the beginning if present.
func extractDescription(doc string, testName string) string {
	for line := range strings.SplitSeq(doc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, testName+" ")
		return strings.ToUpper(line[:1]) + line[1:]
	}
	return "_No documentation_"
}

// escapeCell escapes pipes for a markdown table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// toAnchor converts a heading to a markdown anchor.
func toAnchor(heading string) string {
	anchor := strings.ToLower(strings.ReplaceAll(heading, " ", "-"))
	return anchorRe.ReplaceAllString(anchor, "")
}
