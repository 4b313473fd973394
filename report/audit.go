package report

import (
	"time"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// PUNCTUALITY AUDIT - The consumer of shift grace minutes
// =============================================================================

// Punctuality flags. These live in the audit layer, not the engine: the
// regular/overtime split is duration-based and does not care where inside
// the day the time was worked; this report does.
const (
	FlagLate       engine.Flag = "late"
	FlagEarlyLeave engine.Flag = "early_leave"
)

// PunctualityResult describes how one employee-day lined up against its
// earliest scheduled start and latest scheduled end.
type PunctualityResult struct {
	Late         bool
	EarlyLeave   bool
	LateSeconds  int
	EarlySeconds int
	Flags        []engine.Flag
}

// AuditPunctuality compares first-in/last-out against the day's resolved
// shift windows, allowing each boundary its window's grace minutes.
//
// With split shifts the earliest start and the latest end bound the day;
// gaps between windows are the schedule's business, not a punctuality
// fault. Days without punches or without a usable schedule audit clean:
// those cases already carry no_events / no_schedule / invalid_schedule
// flags from the engine.
func AuditPunctuality(daily engine.DailyAttendance, shifts []engine.ResolvedShift) PunctualityResult {
	var res PunctualityResult

	if daily.In == nil || daily.Out == nil {
		return res
	}

	first, last, ok := dayBounds(shifts)
	if !ok {
		return res
	}

	lateBy := daily.In.Sub(first.Start.Add(time.Duration(first.GraceMinutes) * time.Minute))
	if lateBy > 0 {
		res.Late = true
		res.LateSeconds = int(lateBy.Seconds())
		res.Flags = append(res.Flags, FlagLate)
	}

	earlyBy := last.End.Add(-time.Duration(last.GraceMinutes) * time.Minute).Sub(*daily.Out)
	if earlyBy > 0 {
		res.EarlyLeave = true
		res.EarlySeconds = int(earlyBy.Seconds())
		res.Flags = append(res.Flags, FlagEarlyLeave)
	}
	return res
}

// dayBounds picks the earliest-starting and latest-ending valid windows.
func dayBounds(shifts []engine.ResolvedShift) (first, last engine.ResolvedShift, ok bool) {
	for _, sh := range shifts {
		if sh.Invalid {
			continue
		}
		if !ok {
			first, last = sh, sh
			ok = true
			continue
		}
		if sh.Start.Before(first.Start) {
			first = sh
		}
		if sh.End.After(last.End) {
			last = sh
		}
	}
	return first, last, ok
}
