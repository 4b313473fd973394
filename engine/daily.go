package engine

// =============================================================================
// DAILY ATTENDANCE CALCULATOR
// =============================================================================

// ComputeDaily reduces one employee-day's raw punch list to first-in,
// last-out, worked duration and anomaly flags.
//
// Attendance calculation NEVER hides an employee: visibility is driven only
// by the presence of events upstream. A day with zero events yields an
// explicit zero record flagged no_events; flags added here are informational
// and never suppress a row.
func ComputeDaily(events []Event) DailyAttendance {
	if len(events) == 0 {
		return DailyAttendance{
			Flags: []Flag{FlagNoEvents},
		}
	}

	cleaned := Normalize(events)

	firstIn := cleaned[0].At
	lastOut := cleaned[len(cleaned)-1].At
	punchCount := len(cleaned)

	// Punches carry full dates, so a shift crossing midnight still orders
	// correctly after normalization: the 00:10 out sorts after the 23:50 in.
	workedSeconds := lastOut.SecondsSince(firstIn)

	var flags []Flag
	if punchCount == 1 {
		flags = appendFlag(flags, FlagSinglePunch)
	}
	if workedSeconds < MinShiftSeconds {
		flags = appendFlag(flags, FlagShortDay)
	}

	return DailyAttendance{
		In:            &firstIn,
		Out:           &lastOut,
		WorkedSeconds: workedSeconds,
		PunchCount:    punchCount,
		Flags:         flags,
	}
}
