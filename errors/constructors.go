package errors

import (
	"errors"
	"fmt"
)

// New creates a PlatformError with the given code and message.
// The classification comes from the code's default mapping.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidInput, "reference must not be empty")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a PlatformError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message while preserving the original error
// for errors.Is and errors.As.
//
// If err already carries a PlatformError, its classification is preserved.
// Returns nil if err is nil.
//
// Example:
//
//	if err := f.Lock(); err != nil {
//	    return errors.Wrap(err, errors.CodeLockFailed, "failed to lock repository")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		classification = platformErr.Classification()
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		cause:          err,
	}
}

// Wrapf wraps an error with a formatted message.
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}
