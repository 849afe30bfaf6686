package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/tasktree/internal/log"
)

// ErrTimeout is matched by errors.Is for commands that exceeded their deadline.
var ErrTimeout = errors.New("timed out")

// Outcome classifies how a command finished.
type Outcome int

const (
	// OutcomeSuccess means the command exited with status 0.
	OutcomeSuccess Outcome = iota
	// OutcomeExit means the command ran and exited non-zero.
	OutcomeExit
	// OutcomeTimeout means the deadline expired before the command finished.
	OutcomeTimeout
	// OutcomeLaunch means the command could not be started.
	OutcomeLaunch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeExit:
		return "exit"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeLaunch:
		return "launch failure"
	}
	return "unknown"
}

// Result is the captured outcome of one command execution.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Outcome  Outcome
	Duration time.Duration
	err      error
}

// OK reports whether the command exited with status 0.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Message returns the trimmed diagnostic text: stderr, falling back to stdout.
func (r Result) Message() string {
	if msg := strings.TrimSpace(string(r.Stderr)); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(r.Stdout))
}

// Err returns nil on success and an *Error otherwise.
func (r Result) Err() error {
	return r.err
}

// Error describes a failed command.
type Error struct {
	Command  string
	Outcome  Outcome
	ExitCode int
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	switch e.Outcome {
	case OutcomeTimeout:
		return fmt.Sprintf("%s: timed out", e.Command)
	case OutcomeLaunch:
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

func (e *Error) Unwrap() error {
	if e.Outcome == OutcomeTimeout {
		return ErrTimeout
	}
	return e.Err
}

// Exec runs name with args in dir. A positive timeout bounds the run on top of
// any deadline already carried by ctx. Failures never panic or block past the
// deadline; they are reported through the returned Result.
func Exec(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := log.FromContext(ctx).Command(dir, name, args...)

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	// Don't wait on grandchildren (ssh, credential helpers) holding the pipes open.
	c.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	runErr := c.Run()

	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	done(res.Duration)

	if runErr == nil {
		return res
	}

	cmdLine := strings.TrimSpace(name + " " + strings.Join(args, " "))
	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.Outcome = OutcomeTimeout
		res.ExitCode = -1
	case errors.As(runErr, &exitErr):
		res.Outcome = OutcomeExit
		res.ExitCode = exitErr.ExitCode()
	default:
		res.Outcome = OutcomeLaunch
		res.ExitCode = -1
	}

	res.err = &Error{
		Command:  cmdLine,
		Outcome:  res.Outcome,
		ExitCode: res.ExitCode,
		Msg:      res.Message(),
		Err:      runErr,
	}
	return res
}

// RunContext executes a command in dir, returning the diagnostic output as
// the error message if it fails.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	return Exec(ctx, dir, 0, name, args...).Err()
}

// OutputContext executes a command in dir and returns its stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	res := Exec(ctx, dir, 0, name, args...)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Stdout, nil
}
