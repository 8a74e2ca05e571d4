// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error code constants, uppercase and underscore-separated.
const (
	TaskNotFound     = "TASK_NOT_FOUND"
	ConfigNotFound   = "CONFIG_NOT_FOUND"
	ConfigExists     = "CONFIG_ALREADY_EXISTS"
	InvalidInput     = "INVALID_INPUT"
	InvalidStatus    = "INVALID_STATUS"
	InvalidPriority  = "INVALID_PRIORITY"
	InvalidDate      = "INVALID_DATE"
	InvalidProgress  = "INVALID_PROGRESS"
	InvalidTaskID    = "INVALID_TASK_ID"
	InvalidConfigKey = "INVALID_CONFIG_KEY"
	NoChanges        = "NO_CHANGES"
	ConfirmationReq  = "CONFIRMATION_REQUIRED"
	FeatureDisabled  = "FEATURE_DISABLED"
	SessionLocked    = "SESSION_LOCKED"
	ExportFailed     = "EXPORT_FAILED"
	InternalError    = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Is matches any *Error carrying the same code, so callers can write
// errors.Is(err, clierr.New(clierr.TaskNotFound, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// SilentError signals an exit code without additional output.
// Used by batch deletes where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
