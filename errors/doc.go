// Package errors provides structured errors for repository synchronization.
//
// Every failure surfaced by the lock and git packages is a PlatformError: it
// carries an ErrorCode naming what went wrong, a classification telling the
// caller whether a retry could help, and context metadata (lock path, exit
// code, stderr). PlatformError remains compatible with the standard library
// errors package (errors.Is, errors.As, errors.Unwrap).
//
// # Codes used by repository operations
//
//   - CodeLockFailed: the lock file could not be created or exclusively obtained
//   - CodeSpawnFailed: git could not be started at all
//   - CodeCloneFailed, CodeFetchFailed, CodeCheckoutFailed: git ran and exited
//     with a non-success status
//   - CodeCanceled: the caller's context ended the operation
//
// # Quick Start
//
//	err := errors.New(errors.CodeInvalidInput, "reference must not be empty")
//
//	if err := f.Lock(); err != nil {
//	    return errors.Wrap(err, errors.CodeLockFailed, "failed to lock repository")
//	}
//
//	err = errors.WithContext(err, "path", lockPath)
//
//	if errors.IsRetryable(err) {
//	    // fetch failures are retryable by default
//	}
//
// Errors render as "[CODE] message: cause" and encode to JSON via ToJSON or
// json.Marshal.
package errors
