/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The split matters: unknown identifiers and malformed ranges are errors;
  business outcomes (insufficient balance, overlap, notice violation,
  ineligible type) are boolean or structured RESULTS, never errors.

ERROR CATEGORIES:
  1. Not-found errors - unknown leave type or user identifiers
  2. Range errors - end date before start date (calendar.ErrInvalidPeriod)
  3. Collaborator errors - holiday/record lookups failing (connectivity)

PROPAGATION:
  The engine performs no retries. Collaborator failures are wrapped in
  CollaboratorError so callers can distinguish "denied" from "unavailable"
  and apply their own retry policy.

USAGE:
  if leave.IsNotFound(err) { ... }
  if errors.Is(err, leave.ErrCollaboratorUnavailable) { ... }

SEE ALSO:
  - calendar/holiday.go: ErrInvalidPeriod
  - engine.go: Where these errors are produced
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/warp/leave-engine/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrLeaveTypeNotFound is returned when a leave-type ID does not resolve.
	ErrLeaveTypeNotFound = errors.New("leave type not found")

	// ErrUserNotFound is returned when a user ID does not resolve.
	ErrUserNotFound = errors.New("user not found")

	// ErrCollaboratorUnavailable is returned when a holiday or record
	// lookup fails for infrastructure reasons. Retry policy belongs to
	// the calling layer.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

// ErrInvalidPeriod is re-exported so engine callers need only this package.
var ErrInvalidPeriod = calendar.ErrInvalidPeriod

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError identifies which record failed to resolve.
type NotFoundError struct {
	Kind string // "leave_type" or "user"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	switch e.Kind {
	case "user":
		return ErrUserNotFound
	default:
		return ErrLeaveTypeNotFound
	}
}

// CollaboratorError wraps a failed lookup with the collaborator's name.
type CollaboratorError struct {
	Collaborator string // "holiday_calendar", "record_store", ...
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return ErrCollaboratorUnavailable }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLeaveTypeNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return IsNotFound(err) || errors.Is(err, ErrInvalidPeriod)
}

// collaboratorErr wraps lookup failures, passing through errors that are
// already classified (not-found, invalid range).
func collaboratorErr(name string, err error) error {
	if err == nil {
		return nil
	}
	if IsClientError(err) {
		return err
	}
	return &CollaboratorError{Collaborator: name, Err: err}
}
