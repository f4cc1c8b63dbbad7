// Package errors provides structured error handling and exit code mapping for check-model-cached.
package errors

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	// ExitCached means the requested file is present in the local cache.
	ExitCached = 0
	// ExitNotCached means the requested file is not present in the local cache.
	ExitNotCached = 1
	// ExitUsage is the conventional code for command-line syntax errors.
	ExitUsage = 2
	// ExitFailure means the cache lookup itself failed.
	ExitFailure = 3
)

// Common error types used throughout the application.
var (
	// ErrFileSystem indicates a filesystem-related error
	ErrFileSystem = errors.New("filesystem error")
	// ErrValidation indicates a configuration or flag value failed validation
	ErrValidation = errors.New("validation error")
	// ErrUsage indicates the command line could not be parsed
	ErrUsage = errors.New("usage error")
)

// CommandError represents application-specific errors with additional context.
type CommandError struct {
	Operation string // The operation that failed
	Err       error  // The underlying error
	Context   string // Additional context
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s failed: %s (%s)", e.Operation, e.Err.Error(), e.Context)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Err.Error())
}

// Unwrap returns the underlying error for error wrapping compatibility.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError with the specified operation and error.
func NewCommandError(operation string, err error, context ...string) *CommandError {
	cmdErr := &CommandError{
		Operation: operation,
		Err:       err,
	}
	if len(context) > 0 {
		cmdErr.Context = context[0]
	}
	return cmdErr
}

// ExitError carries the process exit status a command wants to terminate with.
// Err may be nil when the status itself is the whole message (e.g. "not cached").
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for error wrapping compatibility.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and optional cause.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// NewUsageError creates an ExitError with ExitUsage wrapping ErrUsage.
func NewUsageError(format string, args ...any) *ExitError {
	return &ExitError{
		Code: ExitUsage,
		Err:  fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...)),
	}
}

// ExitCode maps an error returned by a command to a process exit status.
// nil maps to ExitCached, an ExitError to its own code, a usage error to ExitUsage
// and anything else to ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitCached
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if IsUsage(err) {
		return ExitUsage
	}
	return ExitFailure
}

// As finds the first error in the error chain that matches the target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsValidation checks if an error indicates validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsFileSystem checks if an error indicates a filesystem problem.
func IsFileSystem(err error) bool {
	return errors.Is(err, ErrFileSystem)
}

// IsUsage checks if an error indicates a command-line syntax problem.
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}

// UserFriendlyError converts technical errors to user-friendly messages.
func UserFriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsFileSystem(err):
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return fmt.Sprintf("Failed to %s: cache directory could not be read", cmdErr.Operation)
		}
		return "The cache directory could not be read"
	default:
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return fmt.Sprintf("Failed to %s: %s", cmdErr.Operation, cmdErr.Err.Error())
		}
		return err.Error()
	}
}
