/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  The engine's failure surface is small because it does no I/O: a record can
  be missing, an input can be malformed, or a caller can ask for a template
  that does not exist. Everything is reported synchronously; nothing is
  retried.

SEE ALSO:
  - validate.go: Produces ValidationError at the data-entry boundary
  - notify.go: Returns ErrUnknownNotificationType
*/
package fmla

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRequestNotFound is returned when a leave request id does not exist.
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrNotificationNotFound is returned when a notification id does not exist.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrUnknownNotificationType is returned when a caller requests a
	// notification kind with no template. No partial notification is produced.
	ErrUnknownNotificationType = errors.New("unknown notification type")

	// ErrValidation is the base for all data-entry validation failures.
	ErrValidation = errors.New("validation failed")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError reports a malformed field on an incoming leave request.
// These are rejected at the data-entry boundary and never reach the engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound) || errors.Is(err, ErrNotificationNotFound)
}

// IsClientError reports whether the error is the caller's fault (bad input
// rather than an internal failure).
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrUnknownNotificationType)
}
