/*
Package engine provides the core attendance and payroll computation engine.

PURPOSE:
  This package contains the deterministic logic that turns a raw, noisy
  stream of biometric clock events plus a rule-based schedule definition
  into daily attendance records and a regular/overtime payroll split.
  It is pure computation: the engine performs no I/O of its own and holds
  no mutable shared state, so callers can safely run it concurrently for
  many employees or weeks at once.

KEY CONCEPTS IN THIS FILE (types.go):
  - Event: A single clock punch (employee + wall-clock timestamp)
  - DailyAttendance: First-in / last-out reduction of one employee-day
  - DailySplit: DailyAttendance reconciled against the schedule
  - Flag: Additive anomaly markers (no_events, overtime, ...)

DESIGN PRINCIPLES:
  1. Determinism: Same inputs always yield the same records
  2. Visibility: An employee is never hidden by a flag or threshold;
     only the absence of events upstream removes a row
  3. Degradation: Malformed data flags a record, it never aborts a batch
  4. Precision: Integer seconds internally, decimal.Decimal at the edges

USAGE:
  att := engine.ComputeDaily(events)
  shifts := engine.ExpectedShifts(template, day)
  split := engine.Split(att, shifts, day, engine.SplitOptions{})

SEE ALSO:
  - normalize.go: Punch dedup
  - daily.go: Daily attendance calculation
  - split.go: Regular/overtime reconciliation
  - payroll.go: Weekly aggregation
*/
package engine

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// =============================================================================
// EVENT - A single clock punch
// =============================================================================

// Event is one clock-in or clock-out punch. The engine does not care about
// direction; attendance is derived from first and last punch of the day.
// Events are immutable once handed to the engine.
type Event struct {
	EmployeeID EmployeeID
	At         WallClock
}

// =============================================================================
// FLAGS - Additive anomaly markers, never visibility logic
// =============================================================================

type Flag string

const (
	FlagNoEvents        Flag = "no_events"        // Zero punches on the day
	FlagSinglePunch     Flag = "single_punch"     // Exactly one punch after dedup
	FlagShortDay        Flag = "short_day"        // Worked less than MinShiftSeconds
	FlagNoSchedule      Flag = "no_schedule"      // No template assigned
	FlagInvalidSchedule Flag = "invalid_schedule" // A shift window failed to parse
	FlagOvertime        Flag = "overtime"         // Worked beyond scheduled total
	FlagComputeError    Flag = "compute_error"    // Employee computation recovered from a fault
)

// HasFlag reports whether fs contains f.
func HasFlag(fs []Flag, f Flag) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

// appendFlag adds f unless already present, keeping flag lists set-like
// while preserving first-seen order for deterministic output.
func appendFlag(fs []Flag, f Flag) []Flag {
	if HasFlag(fs, f) {
		return fs
	}
	return append(fs, f)
}

// =============================================================================
// DAILY RECORDS - Computed fresh per (employee, date), never persisted
// =============================================================================

// DailyAttendance is the reduction of one employee-day's punch list.
// In/Out are nil when the day has no events.
type DailyAttendance struct {
	In            *WallClock
	Out           *WallClock
	WorkedSeconds int
	PunchCount    int
	Flags         []Flag
}

// DailySplit extends DailyAttendance with the regular/overtime
// reconciliation against the resolved schedule windows.
type DailySplit struct {
	DailyAttendance
	RegularSeconds  int
	OvertimeSeconds int
}

// =============================================================================
// TUNABLES - Explicit, never read from a hidden settings store
// =============================================================================

const (
	// DefaultDuplicateWindowSeconds collapses bounce punches: an event within
	// this many seconds of the previously kept event is dropped.
	DefaultDuplicateWindowSeconds = 60

	// MinShiftSeconds is the threshold below which a day is flagged short_day.
	MinShiftSeconds = 60 * 10
)
