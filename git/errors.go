package git

import (
	"context"
	stderrors "errors"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/jmgilman/reposync/errors"
	"github.com/jmgilman/reposync/exec"
)

// operationCodes maps each git operation to the code returned when git ran
// and exited unsuccessfully.
var operationCodes = map[string]errors.ErrorCode{
	opClone:    errors.CodeCloneFailed,
	opFetch:    errors.CodeFetchFailed,
	opCheckout: errors.CodeCheckoutFailed,
}

// IsOperationFailed reports whether err means git ran to completion and exited
// with a non-success status, as opposed to a lock or spawn failure.
func IsOperationFailed(err error) bool {
	return FailedOperation(err) != ""
}

// FailedOperation returns the operation ("clone", "fetch" or "checkout") whose
// git invocation exited unsuccessfully, or "" when err is not such a failure.
func FailedOperation(err error) string {
	code := errors.GetCode(err)
	for op, c := range operationCodes {
		if code == c {
			return op
		}
	}
	return ""
}

// spawnError reports that git could not be started for op. A start refused
// because ctx is already done is reported as CodeCanceled.
func spawnError(ctx context.Context, op string, err error, args []string) error {
	code, message := errors.CodeSpawnFailed, "failed to start git"
	if ctx.Err() != nil {
		code, message = errors.CodeCanceled, op+" canceled"
	}
	wrapped := errors.Wrap(err, code, message)

	fields := map[string]interface{}{
		"operation": op,
		"command":   strings.Join(args, " "),
	}
	var execErr *exec.ExecError
	if stderrors.As(err, &execErr) && execErr.Dir != "" {
		fields["dir"] = execErr.Dir
	}

	return errors.WithContextMap(wrapped, fields)
}

// operationError maps the outcome of a completed git run for op. It returns
// nil when the run succeeded.
func operationError(ctx context.Context, op string, err error, result *exec.Result) error {
	if err == nil {
		return nil
	}

	code := operationCodes[op]
	if ctx.Err() != nil {
		code = errors.CodeCanceled
	}

	wrapped := errors.Wrap(err, code, op+" failed")

	fields := map[string]interface{}{
		"operation": op,
		"exit_code": exitCode(err, result),
	}
	if stderr := stderrOf(err, result); stderr != "" {
		fields["stderr"] = strings.TrimSpace(stderr)
	}

	return errors.WithContextMap(wrapped, fields)
}

// classifyOpenError maps go-git errors raised while reading a working copy.
func classifyOpenError(err error, path string) error {
	var wrapped errors.PlatformError
	switch {
	case stderrors.Is(err, gogit.ErrRepositoryNotExists):
		wrapped = errors.Wrap(err, errors.CodeNotFound, "repository does not exist")
	case stderrors.Is(err, plumbing.ErrReferenceNotFound):
		wrapped = errors.Wrap(err, errors.CodeNotFound, "reference not found")
	default:
		wrapped = errors.Wrap(err, errors.CodeInternal, "failed to read repository")
	}
	return errors.WithContext(wrapped, "path", path)
}

func exitCode(err error, result *exec.Result) int {
	if result != nil {
		return result.ExitCode
	}
	var execErr *exec.ExecError
	if stderrors.As(err, &execErr) {
		return execErr.ExitCode
	}
	return -1
}

func stderrOf(err error, result *exec.Result) string {
	if result != nil && result.Stderr != "" {
		return result.Stderr
	}
	var execErr *exec.ExecError
	if stderrors.As(err, &execErr) {
		return execErr.Stderr
	}
	return ""
}
