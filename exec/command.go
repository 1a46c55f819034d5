package exec

import (
	"context"
	"io"
	"os"
	osexec "os/exec"
	"time"
)

// Command is the concrete implementation of the Executor interface.
type Command struct {
	config *config

	baseCtx       context.Context
	baseTimeout   time.Duration
	baseWaitDelay time.Duration
	baseStdout    io.Writer
	baseStderr    io.Writer

	ctx     context.Context
	timeout *time.Duration
	stdout  io.Writer
	stderr  io.Writer
}

// New creates a new Command with the given options.
// Options set global defaults that can be overridden per run.
func New(opts ...Option) *Command {
	cmd := &Command{
		config:        newConfig(),
		baseCtx:       context.Background(),
		baseWaitDelay: DefaultWaitDelay,
		baseStdout:    os.Stdout,
		baseStderr:    os.Stderr,
	}

	for _, opt := range opts {
		opt(cmd)
	}

	return cmd
}

// WithEnv sets environment variables for the next run.
func (c *Command) WithEnv(env map[string]string) Executor {
	for k, v := range env {
		c.config.localEnv[k] = v
	}
	return c
}

// WithDir sets the working directory for the next run.
func (c *Command) WithDir(dir string) Executor {
	c.config.localDir = dir
	return c
}

// WithContext sets the context for the next run.
func (c *Command) WithContext(ctx context.Context) Executor {
	c.ctx = ctx
	return c
}

// WithDisableColors disables color output for the next run.
func (c *Command) WithDisableColors() Executor {
	c.config.localDisableColors = boolPtr(true)
	return c
}

// WithTimeout sets a timeout for the next run.
func (c *Command) WithTimeout(timeout time.Duration) Executor {
	c.timeout = &timeout
	return c
}

// WithInheritEnv enables environment inheritance for the next run.
func (c *Command) WithInheritEnv() Executor {
	c.config.localInheritEnv = boolPtr(true)
	return c
}

// WithStdout sets the stdout writer for the next run.
func (c *Command) WithStdout(w io.Writer) Executor {
	c.stdout = w
	return c
}

// WithStderr sets the stderr writer for the next run.
func (c *Command) WithStderr(w io.Writer) Executor {
	c.stderr = w
	return c
}

// WithPassthrough enables output passthrough for the next run.
func (c *Command) WithPassthrough() Executor {
	c.config.localPassthrough = boolPtr(true)
	return c
}

// Run executes the command and waits for it to exit.
//
// Starting and waiting are separate steps so that a missing executable or an
// unusable working directory (StartFailed) is never confused with a command
// that ran and failed.
func (c *Command) Run(args ...string) (*Result, error) {
	defer c.reset()

	if len(args) == 0 {
		return nil, &ExecError{
			Command:     args,
			ExitCode:    -1,
			StartFailed: true,
			Err:         osexec.ErrNotFound,
		}
	}

	ctx := c.effectiveContext()
	if timeout := c.effectiveTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)
	// A killed process may leave children holding its output pipes.
	cmd.WaitDelay = c.baseWaitDelay

	if dir := c.config.effectiveDir(); dir != "" {
		cmd.Dir = dir
	}

	if c.config.effectiveInheritEnv() {
		cmd.Env = os.Environ()
	}
	for k, v := range c.config.effectiveEnv() {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdoutCapture, stderrCapture *outputCapture
	if c.config.effectivePassthrough() {
		stdoutCapture = newOutputCapture(c.effectiveStdout())
		stderrCapture = newOutputCapture(c.effectiveStderr())
	} else {
		stdoutCapture = newOutputCapture(nil)
		stderrCapture = newOutputCapture(nil)
	}
	combined := newCombinedWriter()

	cmd.Stdout = newMultiWriter(stdoutCapture.Writer(), combined)
	cmd.Stderr = newMultiWriter(stderrCapture.Writer(), combined)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &ExecError{
			Command:     args,
			Dir:         cmd.Dir,
			ExitCode:    -1,
			StartFailed: true,
			Err:         err,
		}
	}

	err := cmd.Wait()

	result := &Result{
		Stdout:   stdoutCapture.String(),
		Stderr:   stderrCapture.String(),
		Combined: combined.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if err != nil {
		return result, &ExecError{
			Command:  args,
			Dir:      cmd.Dir,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}

	return result, nil
}

// Clone creates a copy of the executor with the same global configuration.
func (c *Command) Clone() Executor {
	return &Command{
		config:        c.config.clone(),
		baseCtx:       c.baseCtx,
		baseTimeout:   c.baseTimeout,
		baseWaitDelay: c.baseWaitDelay,
		baseStdout:    c.baseStdout,
		baseStderr:    c.baseStderr,
	}
}

func (c *Command) effectiveContext() context.Context {
	if c.ctx != nil {
		return c.ctx
	}
	return c.baseCtx
}

func (c *Command) effectiveTimeout() time.Duration {
	if c.timeout != nil {
		return *c.timeout
	}
	return c.baseTimeout
}

func (c *Command) effectiveStdout() io.Writer {
	if c.stdout != nil {
		return c.stdout
	}
	return c.baseStdout
}

func (c *Command) effectiveStderr() io.Writer {
	if c.stderr != nil {
		return c.stderr
	}
	return c.baseStderr
}

// reset clears local configuration so it does not carry over to the next run.
func (c *Command) reset() {
	c.config.resetLocal()
	c.ctx = nil
	c.timeout = nil
	c.stdout = nil
	c.stderr = nil
}
