// Package command is the execution substrate for hostpath: it runs shell
// command strings, captures their output, and translates failures into
// classified errors.
//
// Production code goes through the package-level Default executor; tests swap
// it for a fake that records the command string and returns scripted output.
package command

import (
	"bytes"
	"context"
	"fmt"
	osexec "os/exec"
	"strings"
)

// Executor runs a shell command string and returns its captured stdout with
// surrounding whitespace stripped. On non-zero exit the returned error is a
// *Error carrying the exit status and captured stderr.
type Executor interface {
	Run(ctx context.Context, cmd string) (string, error)
}

// Default is the executor used by hosts and the rsync transport. It is a
// package-level seam so tests can substitute a fake.
var Default Executor = ShellExecutor{}

// ShellExecutor runs commands through /bin/sh -c, the closest analogue of a
// shell-interpreted command string.
type ShellExecutor struct{}

var _ Executor = ShellExecutor{}

// Run executes cmd and captures stdout and stderr separately.
func (ShellExecutor) Run(ctx context.Context, cmd string) (string, error) {
	c := osexec.CommandContext(ctx, "/bin/sh", "-c", cmd)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	out := strings.TrimSpace(stdout.String())
	if err == nil {
		return out, nil
	}

	exitCode := -1
	if c.ProcessState != nil {
		exitCode = c.ProcessState.ExitCode()
	}
	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return out, &Error{
		Cmd:      cmd,
		ExitCode: exitCode,
		Stdout:   out,
		Stderr:   stderr.String(),
		Err:      err,
	}
}

// Error represents a failed command execution. It carries the exit status and
// the captured output so callers can classify the failure from stderr text.
type Error struct {
	// Cmd is the command string that was executed.
	Cmd string

	// ExitCode is the exit code returned by the command, -1 if it never ran.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// Err is the underlying error from the execution.
	Err error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed with exit code %d: %s", e.Cmd, e.ExitCode, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("command %q failed with exit code %d: %v", e.Cmd, e.ExitCode, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
