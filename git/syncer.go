package git

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/reposync/errors"
	"github.com/jmgilman/reposync/exec"
	"github.com/jmgilman/reposync/lock"
)

const (
	opClone    = "clone"
	opFetch    = "fetch"
	opCheckout = "checkout"
	opClean    = "clean"
	opHead     = "head"
	opWithLock = "with_lock"
)

// Option configures a Syncer.
type Option func(*Syncer) error

// Syncer runs git operations on repositories, each inside the repository's
// exclusive lock.
//
// A Syncer is safe for concurrent use. Operations on repositories with
// different lock paths run in parallel; operations sharing a lock path are
// serialized, across processes as well as goroutines.
type Syncer struct {
	executor exec.Executor
	binary   string
	git      *exec.CommandWrapper
	fs       billy.Filesystem
	metrics  *Metrics
	env      map[string]string
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a Syncer that runs the git found on PATH.
//
// Example:
//
//	syncer, err := git.New()
//	if err != nil {
//	    return err
//	}
//	repo := git.NewDescriptor("https://github.com/org/repo.git", "/var/lib/reposync")
//	if err := syncer.Sync(ctx, repo, "main"); err != nil {
//	    return err
//	}
func New(opts ...Option) (*Syncer, error) {
	s := &Syncer{
		executor: exec.New(exec.WithInheritEnv()),
		binary:   "git",
		fs:       osfs.New("/"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.git = exec.NewWrapper(s.executor, s.binary)
	return s, nil
}

// WithExecutor sets the executor used to run git.
// This is primarily useful for testing with a mock executor.
func WithExecutor(executor exec.Executor) Option {
	return func(s *Syncer) error {
		if executor == nil {
			err := errors.New(errors.CodeInvalidInput, "executor cannot be nil")
			return errors.WithContext(err, "field", "executor")
		}
		s.executor = executor
		return nil
	}
}

// WithGitBinary sets the git executable name or path.
func WithGitBinary(binary string) Option {
	return func(s *Syncer) error {
		if binary == "" {
			err := errors.New(errors.CodeInvalidInput, "git binary cannot be empty")
			return errors.WithContext(err, "field", "binary")
		}
		s.binary = binary
		return nil
	}
}

// WithFilesystem sets the filesystem used to inspect working copies.
// Relative paths are made absolute against the current directory and then
// resolved from the filesystem's root, so it must be rooted at "/" to agree
// with the paths git is given.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(s *Syncer) error {
		if fs == nil {
			err := errors.New(errors.CodeInvalidInput, "filesystem cannot be nil")
			return errors.WithContext(err, "field", "filesystem")
		}
		s.fs = fs
		return nil
	}
}

// WithMetrics records operation outcomes and lock wait times to m.
func WithMetrics(m *Metrics) Option {
	return func(s *Syncer) error {
		s.metrics = m
		return nil
	}
}

// WithEnv sets extra environment variables for every git invocation.
func WithEnv(env map[string]string) Option {
	return func(s *Syncer) error {
		s.env = make(map[string]string, len(env))
		for k, v := range env {
			s.env[k] = v
		}
		return nil
	}
}

// WithPassthrough streams git output to stdout and stderr while it is still
// captured for error reporting.
func WithPassthrough(stdout, stderr io.Writer) Option {
	return func(s *Syncer) error {
		s.stdout = stdout
		s.stderr = stderr
		return nil
	}
}

// acquire takes the repository lock for op and records how long that took.
func (s *Syncer) acquire(ctx context.Context, op string, repo Repo) (*lock.Lock, error) {
	start := time.Now()
	l, err := lock.Acquire(ctx, repo.LockPath())
	s.metrics.observeWait(op, time.Since(start))
	if err != nil {
		return nil, errors.WithContext(err, "operation", op)
	}
	return l, nil
}

// command returns a fresh git invocation bound to ctx and dir.
func (s *Syncer) command(ctx context.Context, dir string) exec.Executor {
	cmd := s.git.Clone().WithContext(ctx)
	if dir != "" {
		cmd = cmd.WithDir(dir)
	}
	if len(s.env) > 0 {
		cmd = cmd.WithEnv(s.env)
	}
	if s.stdout != nil || s.stderr != nil {
		if s.stdout != nil {
			cmd = cmd.WithStdout(s.stdout)
		}
		if s.stderr != nil {
			cmd = cmd.WithStderr(s.stderr)
		}
		cmd = cmd.WithPassthrough()
	}
	return cmd
}

// isDir reports whether path exists and is a directory.
func (s *Syncer) isDir(path string) bool {
	info, err := s.fs.Stat(absPath(path))
	return err == nil && info.IsDir()
}

// absPath resolves path against the current directory, as git does, so that
// it names the same location on a filesystem rooted at "/".
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func logger(ctx context.Context, op string, repo Repo) *clog.Logger {
	return clog.FromContext(ctx).With("operation", op, "path", repo.CloneTo())
}

// WithLock runs fn while holding repo's lock. Code in fn may assume no other
// Syncer, in this or another process, touches the working copy.
func (s *Syncer) WithLock(ctx context.Context, repo Repo, fn func() error) (err error) {
	defer func() { s.metrics.record(opWithLock, err) }()

	l, err := s.acquire(ctx, opWithLock, repo)
	if err != nil {
		return err
	}
	defer l.Release()

	return fn()
}

// Sync brings repo to ref: clone if missing, fetch, clean, then check out ref.
// The checkout is skipped when ref is empty. Each step takes the lock on its
// own, so another process may run between steps.
func (s *Syncer) Sync(ctx context.Context, repo Repo, ref string) error {
	if err := s.CloneRepo(ctx, repo); err != nil {
		return err
	}
	if err := s.FetchRepo(ctx, repo); err != nil {
		return err
	}
	if err := s.Clean(ctx, repo); err != nil {
		return err
	}
	if ref == "" {
		return nil
	}
	return s.Checkout(ctx, repo, ref)
}
