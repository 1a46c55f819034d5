package exec

import (
	"context"
	"io"
	"time"
)

//go:generate go run github.com/matryer/moq@latest -out mocks/executor.go -pkg mocks . Executor

// Executor is the main interface for executing commands.
// It provides a fluent API for configuring and running commands.
//
// Local settings (the With* methods) apply to the next Run only. An Executor is
// not safe for concurrent use; call Clone to get an independent copy per goroutine.
type Executor interface {
	// WithEnv sets environment variables for the next run.
	// These override any global environment variables with the same name.
	WithEnv(env map[string]string) Executor

	// WithDir sets the working directory for the next run.
	WithDir(dir string) Executor

	// WithContext sets the context for the next run.
	// The process is killed if the context is canceled while it runs.
	WithContext(ctx context.Context) Executor

	// WithDisableColors sets NO_COLOR=1, TERM=dumb and similar variables.
	WithDisableColors() Executor

	// WithTimeout bounds the next run. A zero duration means no timeout.
	WithTimeout(timeout time.Duration) Executor

	// WithInheritEnv inherits environment variables from the parent process.
	WithInheritEnv() Executor

	// WithStdout sets the writer that receives stdout when passthrough is enabled.
	WithStdout(w io.Writer) Executor

	// WithStderr sets the writer that receives stderr when passthrough is enabled.
	WithStderr(w io.Writer) Executor

	// WithPassthrough streams output to the stdout/stderr writers while also
	// capturing it.
	WithPassthrough() Executor

	// Run executes the command given by args and waits for it to finish.
	//
	// A non-nil error is always an *ExecError. When the process could not be
	// started, ExecError.StartFailed is true and the returned Result is nil.
	// When the process ran and exited unsuccessfully, both the Result and the
	// error carry its exit code and output.
	Run(args ...string) (*Result, error)

	// Clone creates an independent copy of the executor with the same global
	// configuration.
	Clone() Executor
}

// Result represents the result of a completed command.
type Result struct {
	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Combined is stdout and stderr interleaved in write order
	Combined string

	// ExitCode is the exit code returned by the command
	ExitCode int

	// Duration is the wall time between start and exit
	Duration time.Duration
}

// Success reports whether the command exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// DefaultWaitDelay is how long Run waits for output to drain after the
// process is killed or exits before closing its pipes.
const DefaultWaitDelay = 5 * time.Second

// Option configures a Command with global settings at creation time.
// Global settings apply to every run and can be overridden per run.
type Option func(*Command)

// WithEnv returns an Option that sets global environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		for k, v := range env {
			c.config.globalEnv[k] = v
		}
	}
}

// WithDir returns an Option that sets the global working directory.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.config.globalDir = dir
	}
}

// WithContext returns an Option that sets the default context.
func WithContext(ctx context.Context) Option {
	return func(c *Command) {
		c.baseCtx = ctx
	}
}

// WithDisableColors returns an Option that globally disables color output.
func WithDisableColors() Option {
	return func(c *Command) {
		c.config.globalDisableColors = true
	}
}

// WithTimeout returns an Option that sets a global timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Command) {
		c.baseTimeout = timeout
	}
}

// WithWaitDelay returns an Option that bounds how long Run waits on output
// pipes after the process is killed. Zero waits until every holder of the
// pipes exits.
func WithWaitDelay(d time.Duration) Option {
	return func(c *Command) {
		c.baseWaitDelay = d
	}
}

// WithInheritEnv returns an Option that globally enables environment inheritance.
func WithInheritEnv() Option {
	return func(c *Command) {
		c.config.globalInheritEnv = true
	}
}

// WithStdout returns an Option that sets the global stdout writer.
func WithStdout(w io.Writer) Option {
	return func(c *Command) {
		c.baseStdout = w
	}
}

// WithStderr returns an Option that sets the global stderr writer.
func WithStderr(w io.Writer) Option {
	return func(c *Command) {
		c.baseStderr = w
	}
}

// WithPassthrough returns an Option that globally enables output passthrough.
func WithPassthrough() Option {
	return func(c *Command) {
		c.config.globalPassthrough = true
	}
}
