package engine

// =============================================================================
// REGULAR/OVERTIME SPLITTER
// =============================================================================

// SplitOptions carries the explicit fallbacks the caller chooses to inject.
// Nothing in here is read from a hidden settings store.
type SplitOptions struct {
	// DefaultWindow, when set, stands in for a schedule on days where no
	// template is assigned. The day is still flagged no_schedule so reports
	// can tell an assumed window from a real one.
	DefaultWindow *ShiftWindow
}

// Split reconciles a day's worked duration against the resolved schedule
// windows, producing regular vs. overtime seconds.
//
// This is a duration-based reconciliation: total scheduled seconds vs. total
// worked seconds. It is order-insensitive and deliberately does not verify
// that worked time falls inside the scheduled windows; the punctuality audit
// handles window placement separately.
//
// Rules:
//   - No shifts: all worked time is regular, flagged no_schedule. If the
//     caller injected a DefaultWindow it is resolved for the day and used
//     as the scheduled total, keeping the no_schedule flag.
//   - Invalid windows contribute nothing and flag invalid_schedule; the
//     remaining windows still count.
//   - regular = min(worked, scheduled); overtime = max(0, worked-scheduled).
//   - Break minutes subtract from regular, floored at 0. Grace minutes are
//     carried in the model but consumed only by late/early detection.
func Split(daily DailyAttendance, shifts []ResolvedShift, day WallClock, opts SplitOptions) DailySplit {
	split := DailySplit{DailyAttendance: daily}
	split.Flags = append([]Flag{}, daily.Flags...)

	if len(shifts) == 0 {
		split.Flags = appendFlag(split.Flags, FlagNoSchedule)
		if opts.DefaultWindow != nil {
			fallback := resolveShift(ScheduleRule{}, *opts.DefaultWindow, day)
			if fallback.Invalid {
				split.Flags = appendFlag(split.Flags, FlagInvalidSchedule)
			} else {
				shifts = []ResolvedShift{fallback}
			}
		}
		if len(shifts) == 0 {
			split.RegularSeconds = daily.WorkedSeconds
			split.OvertimeSeconds = 0
			return split
		}
	}

	scheduledSeconds := 0
	breakMinutes := 0
	validWindows := 0
	for _, sh := range shifts {
		if sh.Invalid {
			split.Flags = appendFlag(split.Flags, FlagInvalidSchedule)
			continue
		}
		validWindows++
		scheduledSeconds += sh.ScheduledSeconds()
		breakMinutes += sh.BreakMinutes
	}

	// Every window malformed: a schedule exists but says nothing usable.
	// Count all worked time as regular rather than inventing overtime
	// against a zero-length schedule.
	if validWindows == 0 {
		split.RegularSeconds = daily.WorkedSeconds
		split.OvertimeSeconds = 0
		return split
	}

	worked := daily.WorkedSeconds
	regular := worked
	if scheduledSeconds < regular {
		regular = scheduledSeconds
	}
	overtime := worked - scheduledSeconds
	if overtime < 0 {
		overtime = 0
	}
	if overtime > 0 {
		split.Flags = appendFlag(split.Flags, FlagOvertime)
	}

	if breakMinutes > 0 {
		regular -= breakMinutes * 60
		if regular < 0 {
			regular = 0
		}
	}

	split.RegularSeconds = regular
	split.OvertimeSeconds = overtime
	return split
}
