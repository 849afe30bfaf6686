package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Hook triggers.
const (
	TriggerCreate = "create"
	TriggerFinish = "finish"
	TriggerAll    = "all"
)

// ValidTriggers lists the accepted values of a hook's "on" list.
var ValidTriggers = []string{TriggerCreate, TriggerFinish, TriggerAll}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validateGlobs checks that all patterns compile.
func validateGlobs(patterns []string, field string) error {
	for i, pat := range patterns {
		if _, err := glob.Compile(pat); err != nil {
			return fmt.Errorf("invalid %s[%d] %q: %w", field, i, pat, err)
		}
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
