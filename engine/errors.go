/*
errors.go - Centralized error types for the attendance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The engine itself degrades malformed data into flags rather than errors
  (a bad shift window flags invalid_schedule, it never aborts a batch);
  the errors here cover the contracts the engine exposes to callers and
  stores.

USAGE:
  Callers can classify errors:

    if engine.IsNotFound(err) {
        // 404
    }

SEE ALSO:
  - split.go: invalid_schedule degradation (flag, not error)
  - payroll.go: per-employee fault isolation
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrTemplateNotFound is returned when a referenced schedule template doesn't exist.
	ErrTemplateNotFound = errors.New("schedule template not found")

	// ErrInvalidTimestamp is returned at the ingestion boundary when an event
	// timestamp cannot be parsed. Events inside the engine are always valid.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidRange is returned when a date range is malformed (end before start).
	ErrInvalidRange = errors.New("invalid range: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TimestampError reports which raw timestamp failed to parse and for whom.
type TimestampError struct {
	EmployeeID EmployeeID
	Raw        string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("invalid timestamp %q for employee %s", e.Raw, e.EmployeeID)
}

func (e *TimestampError) Unwrap() error {
	return ErrInvalidTimestamp
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrTemplateNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTimestamp) ||
		errors.Is(err, ErrInvalidRange)
}
