package lock

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/gofrs/flock"

	"github.com/jmgilman/reposync/errors"
)

// DefaultRetryDelay is how often a cancellable acquisition polls the lock file.
const DefaultRetryDelay = 50 * time.Millisecond

// Lock is an exclusive, cross-process hold on a lock file.
//
// A Lock is only obtained through Acquire or TryAcquire. Once released it
// cannot be locked again; acquire a new one instead. Callers must release it on
// every exit path, normally with:
//
//	l, err := lock.Acquire(ctx, path)
//	if err != nil {
//	    return err
//	}
//	defer l.Release()
type Lock struct {
	mu   sync.Mutex
	path string
	fl   *flock.Flock
	log  *clog.Logger
}

// Acquire creates or opens the lock file at path and blocks until it holds an
// exclusive lock on it. Missing parent directories are created.
//
// With a context that can never be canceled (context.Background) this is a
// single blocking lock call. With a cancellable context the file is polled
// every DefaultRetryDelay until the lock is obtained or ctx is done.
//
// Errors carry errors.CodeLockFailed, or errors.CodeCanceled when ctx ended
// the wait.
func Acquire(ctx context.Context, path string) (*Lock, error) {
	log := clog.FromContext(ctx).With("path", path)
	log.Info("acquiring lock")

	fl, err := open(path)
	if err != nil {
		return nil, err
	}

	if ctx.Done() == nil {
		if err := fl.Lock(); err != nil {
			return nil, lockError(err, path, "failed to acquire lock")
		}
		return &Lock{path: path, fl: fl, log: log}, nil
	}

	locked, err := fl.TryLockContext(ctx, DefaultRetryDelay)
	if ctxErr := ctx.Err(); ctxErr != nil && !locked {
		e := errors.Wrap(ctxErr, errors.CodeCanceled, "gave up waiting for lock")
		return nil, errors.WithContext(e, "path", path)
	}
	if err != nil {
		return nil, lockError(err, path, "failed to acquire lock")
	}
	if !locked {
		return nil, lockError(nil, path, "failed to acquire lock")
	}

	return &Lock{path: path, fl: fl, log: log}, nil
}

// TryAcquire attempts to take the lock without waiting. It returns a nil Lock
// and false when another holder has it.
func TryAcquire(ctx context.Context, path string) (*Lock, bool, error) {
	fl, err := open(path)
	if err != nil {
		return nil, false, err
	}

	locked, err := fl.TryLock()
	if err != nil {
		return nil, false, lockError(err, path, "failed to try lock")
	}
	if !locked {
		return nil, false, nil
	}

	return &Lock{path: path, fl: fl, log: clog.FromContext(ctx).With("path", path)}, true, nil
}

// Release gives up the hold so the next waiting or future acquirer can take it.
//
// Only the first call does anything; later calls, and calls on a nil Lock,
// return nil. An unlock failure is still reported, and the Lock is considered
// released regardless.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fl == nil {
		return nil
	}

	fl := l.fl
	l.fl = nil

	if err := fl.Unlock(); err != nil {
		return lockError(err, l.path, "failed to release lock")
	}

	if l.log != nil {
		l.log.Debug("released lock")
	}
	return nil
}

// Held reports whether the lock has not been released yet.
func (l *Lock) Held() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fl != nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// open prepares a flock handle for path, creating parent directories.
func open(path string) (*flock.Flock, error) {
	if path == "" {
		return nil, errors.New(errors.CodeLockFailed, "lock path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, lockError(err, path, "failed to create lock directory")
	}

	return flock.New(path), nil
}

func lockError(err error, path, message string) error {
	var e errors.PlatformError
	if err == nil {
		e = errors.New(errors.CodeLockFailed, message)
	} else {
		e = errors.Wrap(err, errors.CodeLockFailed, message)
	}
	return errors.WithContext(e, "path", path)
}
