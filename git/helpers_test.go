package git

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/reposync/exec"
	"github.com/jmgilman/reposync/exec/mocks"
)

// invocation is one git run seen by fakeGit.
type invocation struct {
	Dir  string
	Args []string
}

func (i invocation) String() string {
	return strings.Join(i.Args, " ")
}

// fakeGit hands out a fresh mock executor per Clone so concurrent operations
// each see their own working directory.
type fakeGit struct {
	mu      sync.Mutex
	calls   []invocation
	handler func(inv invocation) (*exec.Result, error)
}

func (f *fakeGit) invocations() []invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]invocation(nil), f.calls...)
}

func (f *fakeGit) commands() []string {
	var out []string
	for _, inv := range f.invocations() {
		out = append(out, inv.String())
	}
	return out
}

// executor returns a mock that records each Run and answers with handler.
func (f *fakeGit) executor() *mocks.ExecutorMock {
	var dir string
	var m *mocks.ExecutorMock
	m = &mocks.ExecutorMock{
		CloneFunc: func() exec.Executor {
			return f.executor()
		},
		WithContextFunc: func(ctx context.Context) exec.Executor {
			return m
		},
		WithDirFunc: func(d string) exec.Executor {
			dir = d
			return m
		},
		WithEnvFunc: func(env map[string]string) exec.Executor {
			return m
		},
		WithDisableColorsFunc: func() exec.Executor {
			return m
		},
		WithInheritEnvFunc: func() exec.Executor {
			return m
		},
		WithTimeoutFunc: func(timeout time.Duration) exec.Executor {
			return m
		},
		WithStdoutFunc: func(w io.Writer) exec.Executor {
			return m
		},
		WithStderrFunc: func(w io.Writer) exec.Executor {
			return m
		},
		WithPassthroughFunc: func() exec.Executor {
			return m
		},
		RunFunc: func(args ...string) (*exec.Result, error) {
			inv := invocation{Dir: dir, Args: append([]string(nil), args...)}
			f.mu.Lock()
			f.calls = append(f.calls, inv)
			f.mu.Unlock()
			if f.handler == nil {
				return &exec.Result{}, nil
			}
			return f.handler(inv)
		},
	}
	return m
}

// exitWith builds the outcome of a git process that ran and exited with code.
func exitWith(inv invocation, code int, stderr string) (*exec.Result, error) {
	result := &exec.Result{ExitCode: code, Stderr: stderr}
	return result, &exec.ExecError{
		Command:  inv.Args,
		Dir:      inv.Dir,
		ExitCode: code,
		Stderr:   stderr,
	}
}

// spawnFailure builds the outcome of a git process that never started.
func spawnFailure(inv invocation) (*exec.Result, error) {
	return nil, &exec.ExecError{
		Command:     inv.Args,
		Dir:         inv.Dir,
		ExitCode:    -1,
		StartFailed: true,
		Err:         io.ErrUnexpectedEOF,
	}
}

// newTestSyncer creates a Syncer over a fake git and an in-memory filesystem.
func newTestSyncer(t *testing.T, fake *fakeGit, opts ...Option) (*Syncer, billy.Filesystem) {
	t.Helper()

	fs := memfs.New()
	all := append([]Option{WithExecutor(fake.executor()), WithFilesystem(fs)}, opts...)
	s, err := New(all...)
	require.NoError(t, err)

	return s, fs
}

// newTestRepo creates a descriptor whose lock lives in a real temp dir and
// whose working copy path is only meaningful on the test filesystem.
func newTestRepo(t *testing.T, name string) *Descriptor {
	t.Helper()

	return &Descriptor{
		Name:     name,
		URL:      "https://example.com/org/" + name + ".git",
		Path:     "/srv/repos/" + name,
		LockFile: filepath.Join(t.TempDir(), name+".lock"),
	}
}
