package engine

import "fmt"

// =============================================================================
// WEEK CONVENTIONS - Four fixed weekly boundary definitions
// =============================================================================

// WeekSpec defines a week-boundary convention: which weekday starts the
// week (Mon=0 convention) and how many days the reporting week spans.
type WeekSpec struct {
	Key          string
	StartWeekday int
	LengthDays   int
}

// The four conventions used interchangeably across reports. Different
// payroll cycles in the field genuinely use different week boundaries,
// so all reports take the convention as a parameter.
var weekSpecs = map[string]WeekSpec{
	"mon_sat": {Key: "mon_sat", StartWeekday: 0, LengthDays: 6},
	"sat_fri": {Key: "sat_fri", StartWeekday: 5, LengthDays: 7},
	"sun_sat": {Key: "sun_sat", StartWeekday: 6, LengthDays: 7},
	"mon_fri": {Key: "mon_fri", StartWeekday: 0, LengthDays: 5},
}

// WeekSpecFor maps one of the four convention keys to its WeekSpec.
// Unrecognized keys fall back to mon_sat.
func WeekSpecFor(key string) WeekSpec {
	if spec, ok := weekSpecs[key]; ok {
		return spec
	}
	return weekSpecs["mon_sat"]
}

// WeekSpecKeys lists the supported convention keys in a stable order.
func WeekSpecKeys() []string {
	return []string{"mon_sat", "sat_fri", "sun_sat", "mon_fri"}
}

// StartFor returns the start of the week containing day under this
// convention: day - ((day.weekday - start_weekday) mod 7). Consecutive
// weeks under one convention are contiguous and never overlap.
func (ws WeekSpec) StartFor(day WallClock) WallClock {
	d := day.DateOf()
	offset := (d.Weekday() - ws.StartWeekday) % 7
	if offset < 0 {
		offset += 7
	}
	return d.AddDays(-offset)
}

// EndFor returns the last reported day of the week starting at start.
func (ws WeekSpec) EndFor(start WallClock) WallClock {
	return start.AddDays(ws.LengthDays - 1)
}

// Dates enumerates every reported date of the week containing day,
// in order. Reports iterate these so weeks are always fully populated.
func (ws WeekSpec) Dates(day WallClock) []WallClock {
	start := ws.StartFor(day)
	dates := make([]WallClock, ws.LengthDays)
	for i := range dates {
		dates[i] = start.AddDays(i)
	}
	return dates
}

// =============================================================================
// WEEK PICKER
// =============================================================================

// WeekRange is one selectable week for report pickers.
type WeekRange struct {
	Start WallClock
	End   WallClock
	Label string
}

// BuildWeekList enumerates weeks around anchor: back weeks into the past
// through fwd weeks into the future, oldest first.
func BuildWeekList(ws WeekSpec, anchor WallClock, back, fwd int) []WeekRange {
	base := ws.StartFor(anchor)
	var out []WeekRange
	for i := -back; i <= fwd; i++ {
		start := base.AddDays(i * 7)
		end := ws.EndFor(start)
		out = append(out, WeekRange{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("%s → %s", start.MonthLabel(), end.MonthLabel()),
		})
	}
	return out
}
