// Package git keeps local working copies of remote repositories in sync by
// running the git CLI under a per-repository, cross-process lock.
//
// # Core Types
//
// Repo is the contract a managed repository satisfies: where to clone from,
// where the working copy lives, extra clone arguments, and which lock file
// guards it. Descriptor is the stock implementation and derives the working
// copy and lock paths from the repository URL.
//
// Syncer runs the operations. Every operation acquires the repository's lock
// (see package lock), does its work, and releases the lock before mapping the
// result:
//
//	CloneRepo  git clone <extra...> <from> <to>  (skipped if <to> is a directory)
//	FetchRepo  git fetch origin
//	Checkout   git checkout <ref>
//	Clean      git am --abort; git merge --abort; git reset --hard
//
// Sync chains them, and WithLock runs caller code inside the same exclusive
// window. Head reads the checked-out commit with go-git without starting git.
//
// # Errors
//
// All errors are errors.PlatformError values:
//
//   - CodeLockFailed: the lock file could not be created or locked. No git
//     process was started.
//   - CodeSpawnFailed: git could not be started (missing binary, missing
//     working directory).
//   - CodeCloneFailed, CodeFetchFailed, CodeCheckoutFailed: git ran and exited
//     unsuccessfully. The context holds operation, exit_code and stderr.
//     IsOperationFailed and FailedOperation identify these.
//
// Clean never returns the third kind.
//
// # Testing
//
// WithExecutor accepts any exec.Executor, including exec/mocks.ExecutorMock,
// and WithFilesystem accepts a memfs so the working copy check can be driven
// without touching disk.
package git
