/*
Package report builds the presentation-level attendance reports on top of
the engine: weekly summaries with an anomaly roll-up, and the punctuality
audit that consumes shift grace minutes.

The package formats, it never recomputes: every number here comes from the
engine's daily/split records.
*/
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// WEEKLY SUMMARY - Per-employee day records plus a flat anomaly list
// =============================================================================

// DayRecord is one formatted employee-day in the weekly view.
type DayRecord struct {
	In      string
	Out     string
	Hours   decimal.Decimal
	Punches int
	Flags   []engine.Flag
}

// EmployeeWeek is one employee's week in the weekly view. Days is keyed by
// ISO date and only holds dates that had events; the payroll report is the
// one with fully populated weeks.
type EmployeeWeek struct {
	EmployeeID engine.EmployeeID
	Name       string
	Days       map[string]DayRecord
}

// Anomaly is one flagged employee-day, flattened for review queues.
type Anomaly struct {
	EmployeeID engine.EmployeeID
	Name       string
	Day        string
	In         string
	Out        string
	Hours      decimal.Decimal
	Punches    int
	Flags      []engine.Flag
}

// WeeklySummary is the weekly attendance view: per-employee day records and
// every flagged day collected into one list sorted by (day, employee).
type WeeklySummary struct {
	Employees []EmployeeWeek
	Anomalies []Anomaly
}

// BuildWeeklySummary reduces a week's raw events to the weekly view.
// Names supplies display names; missing entries fall back to the id.
func BuildWeeklySummary(events []engine.Event, names map[engine.EmployeeID]string) WeeklySummary {
	grouped := engine.GroupEvents(events)

	var summary WeeklySummary
	for empID, days := range grouped {
		name := names[empID]
		if name == "" {
			name = string(empID)
		}

		week := EmployeeWeek{
			EmployeeID: empID,
			Name:       name,
			Days:       make(map[string]DayRecord, len(days)),
		}

		for day, evs := range days {
			att := engine.ComputeDaily(evs)

			rec := DayRecord{
				Hours:   decimal.NewFromInt(int64(att.WorkedSeconds)).Div(decimal.NewFromInt(3600)).Round(2),
				Punches: att.PunchCount,
				Flags:   att.Flags,
			}
			if att.In != nil {
				rec.In = att.In.String()
			}
			if att.Out != nil {
				rec.Out = att.Out.String()
			}
			week.Days[day] = rec

			if len(rec.Flags) > 0 {
				summary.Anomalies = append(summary.Anomalies, Anomaly{
					EmployeeID: empID,
					Name:       name,
					Day:        day,
					In:         rec.In,
					Out:        rec.Out,
					Hours:      rec.Hours,
					Punches:    rec.Punches,
					Flags:      rec.Flags,
				})
			}
		}
		summary.Employees = append(summary.Employees, week)
	}

	sort.SliceStable(summary.Employees, func(i, j int) bool {
		return engine.EmployeeIDLess(summary.Employees[i].EmployeeID, summary.Employees[j].EmployeeID)
	})
	sort.SliceStable(summary.Anomalies, func(i, j int) bool {
		a, b := summary.Anomalies[i], summary.Anomalies[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return engine.EmployeeIDLess(a.EmployeeID, b.EmployeeID)
	})
	return summary
}
