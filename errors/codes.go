package errors

// ErrorCode represents a specific error condition.
// Codes are strings so they read well in logs and serialize naturally to JSON.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a resource already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates a resource state conflict that prevents the operation.
	CodeConflict ErrorCode = "CONFLICT"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Locking errors.

	// CodeLockFailed indicates a lock file could not be created, opened or
	// exclusively obtained.
	CodeLockFailed ErrorCode = "LOCK_FAILED"

	// Execution errors.

	// CodeSpawnFailed indicates an external executable could not be started.
	// The command never ran, so it produced no exit status.
	CodeSpawnFailed ErrorCode = "SPAWN_FAILED"

	// CodeExecutionFailed indicates a general execution failure.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// Repository operation errors. Each is returned only after git ran to
	// completion and exited with a non-success status.

	// CodeCloneFailed indicates git clone exited unsuccessfully.
	CodeCloneFailed ErrorCode = "CLONE_FAILED"

	// CodeFetchFailed indicates git fetch exited unsuccessfully.
	CodeFetchFailed ErrorCode = "FETCH_FAILED"

	// CodeCheckoutFailed indicates git checkout exited unsuccessfully.
	CodeCheckoutFailed ErrorCode = "CHECKOUT_FAILED"

	// Infrastructure errors.

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeCanceled indicates the caller canceled the operation.
	CodeCanceled ErrorCode = "CANCELED"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
