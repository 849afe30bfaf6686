// Package prompt provides simple interactive prompts.
//
// Prompts render on stderr so stdout stays reserved for command output, and
// refuse to run without a terminal ([ErrNotInteractive]) instead of blocking
// on a pipe. Callers decide the non-interactive fallback.
package prompt
