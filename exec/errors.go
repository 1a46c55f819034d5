package exec

import (
	"errors"
	"fmt"
)

// ExecError represents an error that occurred during command execution.
type ExecError struct {
	// Command is the full command that was executed (including arguments)
	Command []string

	// Dir is the working directory the command was run in, if any
	Dir string

	// ExitCode is the exit code returned by the command, or -1 if it never ran
	ExitCode int

	// StartFailed is true when the process could not be started at all,
	// e.g. the executable is missing or the working directory does not exist.
	StartFailed bool

	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Err is the underlying error from the execution
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.StartFailed {
		return fmt.Sprintf("command %v could not be started: %v", e.Command, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("command %v failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %v failed with exit code %d", e.Command, e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// IsStartFailure reports whether err means a command never ran.
//
// Errors that are not an *ExecError are treated as start failures: an executor
// that cannot say the process ran gives no exit status to classify.
func IsStartFailure(err error) bool {
	if err == nil {
		return false
	}
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		return true
	}
	return execErr.StartFailed
}
