package exec

import (
	"context"
	"io"
	"time"
)

// CommandWrapper wraps an Executor and prepends a fixed command name to every
// Run, which suits tools invoked repeatedly with different arguments (git).
// CommandWrapper implements Executor, so it can stand in for one anywhere.
type CommandWrapper struct {
	executor Executor
	cmd      string
}

// NewWrapper creates a CommandWrapper that runs cmd via executor.
// The executor can be any Executor implementation, including mocks.
func NewWrapper(executor Executor, cmd string) *CommandWrapper {
	return &CommandWrapper{
		executor: executor,
		cmd:      cmd,
	}
}

// Name returns the wrapped command name.
func (w *CommandWrapper) Name() string {
	return w.cmd
}

func (w *CommandWrapper) WithEnv(env map[string]string) Executor {
	w.executor = w.executor.WithEnv(env)
	return w
}

func (w *CommandWrapper) WithDir(dir string) Executor {
	w.executor = w.executor.WithDir(dir)
	return w
}

func (w *CommandWrapper) WithContext(ctx context.Context) Executor {
	w.executor = w.executor.WithContext(ctx)
	return w
}

func (w *CommandWrapper) WithDisableColors() Executor {
	w.executor = w.executor.WithDisableColors()
	return w
}

func (w *CommandWrapper) WithTimeout(timeout time.Duration) Executor {
	w.executor = w.executor.WithTimeout(timeout)
	return w
}

func (w *CommandWrapper) WithInheritEnv() Executor {
	w.executor = w.executor.WithInheritEnv()
	return w
}

func (w *CommandWrapper) WithStdout(out io.Writer) Executor {
	w.executor = w.executor.WithStdout(out)
	return w
}

func (w *CommandWrapper) WithStderr(out io.Writer) Executor {
	w.executor = w.executor.WithStderr(out)
	return w
}

func (w *CommandWrapper) WithPassthrough() Executor {
	w.executor = w.executor.WithPassthrough()
	return w
}

// Run executes the wrapped command with args appended after its name.
func (w *CommandWrapper) Run(args ...string) (*Result, error) {
	fullArgs := make([]string, 0, len(args)+1)
	fullArgs = append(fullArgs, w.cmd)
	fullArgs = append(fullArgs, args...)
	return w.executor.Run(fullArgs...)
}

// Clone creates an independent copy of the wrapper.
func (w *CommandWrapper) Clone() Executor {
	return &CommandWrapper{
		executor: w.executor.Clone(),
		cmd:      w.cmd,
	}
}
