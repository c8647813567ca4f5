// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so callers (tests, wrapper
// scripts) can distinguish failure classes without parsing error
// message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the user provided invalid input:
	// wrong argument count, unparseable values, a malformed manifest.
	// The user should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not
	// exist: missing config file, unknown backup archive, unknown
	// template name.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryPrecondition indicates the environment is missing
	// something the command needs, such as git on PATH.
	CategoryPrecondition ErrorCategory = "precondition"

	// CategoryConflict indicates the operation would clobber state it
	// does not own, such as replacing a file homeinit did not write.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, parse errors on data homeinit itself produced.
	CategoryInternal ErrorCategory = "internal"
)

// CommandError is a categorized error returned by command handlers.
// It wraps an inner error, preserving the full chain for errors.Is
// and errors.As while adding category metadata. Use the
// category-specific constructors (Validation, NotFound, etc.) rather
// than constructing CommandError directly.
type CommandError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category is not
// included in the string.
func (e *CommandError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the CommandError wrapper.
func (e *CommandError) Unwrap() error { return e.Err }

// Validation creates a validation error: the user provided bad input.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Precondition creates a precondition error: the environment is missing
// something the command needs.
func Precondition(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryPrecondition, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
