// Package lock provides an exclusive lock on a file that holds across processes.
//
// It is the synchronization primitive behind repository operations: every
// process that agrees on a lock file path is serialized against every other,
// whether the contenders are goroutines, workers, or separate programs.
//
// The lock uses the platform's advisory file lock (flock on Unix, LockFileEx on
// Windows) via github.com/gofrs/flock. The lock file is only a token; its
// content is never read.
//
// # Lifecycle
//
//	l, err := lock.Acquire(ctx, "/var/lib/reposync/locks/nixpkgs.lock")
//	if err != nil {
//	    return err // errors.CodeLockFailed
//	}
//	defer l.Release()
//
//	// ... exclusive work ...
//
//	l.Release() // early release is fine; the deferred call becomes a no-op
//
// The operating system drops the hold when the process exits, and the file
// handle's finalizer drops it if a Lock becomes unreachable without being
// released. Neither is a substitute for the deferred Release.
package lock
