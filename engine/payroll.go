/*
payroll.go - Week/payroll aggregation

PURPOSE:
  Folds per-day attendance and regular/overtime splits into per-employee
  weekly payroll records formatted for reporting: one cell per day
  (in/out/hours/overtime/flags) plus weekly totals.

DETERMINISM:
  - Employees sort numerically when their ids are numeric ("2" before
    "10"), and numeric ids sort before non-numeric ones.
  - Every requested date appears in every record, zero-valued when the
    day has no events. Weeks are never sparse.
  - Durations format as HH:MM via floor-rounding to the minute; decimal
    hour figures round to two places.

CONCURRENCY:
  Each employee's computation reads only its own slice of events and its
  own resolved schedule, so employees fan out across goroutines and land
  in pre-assigned result slots. A panic while computing one employee is
  recovered into a flagged zero-value record; it never takes down the
  batch.

SEE ALSO:
  - daily.go, split.go: The per-day computation being aggregated
  - week.go: Week-boundary conventions producing the date list
*/
package engine

import (
	"sort"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYROLL RECORDS
// =============================================================================

// DayCell is one formatted day inside a payroll record: the 5-column block
// (in/out/hours/overtime/flags) payroll exports render per date.
type DayCell struct {
	In          string
	Out         string
	Hours       string
	Overtime    string
	HoursDec    decimal.Decimal
	OvertimeDec decimal.Decimal
	Flags       []Flag
}

// PayrollRecord is one employee's week: per-day cells plus totals.
// Purely derived and recomputed on every request.
type PayrollRecord struct {
	EmployeeID           EmployeeID
	Name                 string
	IsActive             bool
	Days                 map[string]DayCell
	TotalRegularSeconds  int
	TotalOvertimeSeconds int
	TotalRegular         decimal.Decimal
	TotalOvertime        decimal.Decimal
	TotalAll             decimal.Decimal
}

// ScheduleLookup resolves the expected shifts for an employee on a date.
// It must be pure for the duration of one BuildPayroll call: the caller
// reads the schedule snapshot once and serves it from memory.
type ScheduleLookup func(EmployeeID, WallClock) []ResolvedShift

// Roster names the employees a payroll run must cover. Employees with no
// events in the period still get a fully zero-valued record; visibility is
// the roster's decision, never the engine's.
type RosterEntry struct {
	EmployeeID EmployeeID
	Name       string
	IsActive   bool
}

// PayrollInput bundles everything one payroll computation reads. All reads
// happen before BuildPayroll is called, so one run observes a consistent
// snapshot.
type PayrollInput struct {
	// Events grouped by employee and ISO date (see GroupEvents). Only
	// entries for WeekDates are consulted.
	Events map[EmployeeID]map[string][]Event

	// Roster, when non-empty, fixes which employees appear. When empty the
	// run covers exactly the employees present in Events.
	Roster []RosterEntry

	// Names supplies display names for employees discovered from Events
	// when no roster is given. Missing names fall back to the id.
	Names map[EmployeeID]string

	WeekDates []WallClock
	Schedule  ScheduleLookup
	Options   SplitOptions
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// BuildPayroll computes one PayrollRecord per employee over the given week
// dates. Employees are computed in parallel; the result order is the
// deterministic employee ordering regardless of scheduling.
func BuildPayroll(in PayrollInput) []PayrollRecord {
	roster := in.Roster
	if len(roster) == 0 {
		roster = rosterFromEvents(in.Events, in.Names)
	}
	sortRoster(roster)

	records := make([]PayrollRecord, len(roster))
	var wg sync.WaitGroup
	for i, entry := range roster {
		wg.Add(1)
		go func(slot int, entry RosterEntry) {
			defer wg.Done()
			records[slot] = computeEmployee(in, entry)
		}(i, entry)
	}
	wg.Wait()
	return records
}

// computeEmployee builds one employee's record. A fault computing any day
// degrades that employee to a flagged zero-value record instead of
// aborting the batch.
func computeEmployee(in PayrollInput, entry RosterEntry) (rec PayrollRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = zeroRecord(entry, in.WeekDates)
			for day, cell := range rec.Days {
				cell.Flags = appendFlag(cell.Flags, FlagComputeError)
				rec.Days[day] = cell
			}
		}
	}()

	rec = PayrollRecord{
		EmployeeID: entry.EmployeeID,
		Name:       entry.Name,
		IsActive:   entry.IsActive,
		Days:       make(map[string]DayCell, len(in.WeekDates)),
	}
	if rec.Name == "" {
		rec.Name = string(entry.EmployeeID)
	}

	days := in.Events[entry.EmployeeID]

	for _, date := range in.WeekDates {
		events := days[date.ISODate()]

		daily := ComputeDaily(events)

		var shifts []ResolvedShift
		if in.Schedule != nil {
			shifts = in.Schedule(entry.EmployeeID, date)
		}
		split := Split(daily, shifts, date, in.Options)

		rec.Days[date.ISODate()] = formatDayCell(split)
		rec.TotalRegularSeconds += split.RegularSeconds
		rec.TotalOvertimeSeconds += split.OvertimeSeconds
	}

	rec.TotalRegular = secondsToHours(rec.TotalRegularSeconds)
	rec.TotalOvertime = secondsToHours(rec.TotalOvertimeSeconds)
	rec.TotalAll = rec.TotalRegular.Add(rec.TotalOvertime)
	return rec
}

func formatDayCell(split DailySplit) DayCell {
	cell := DayCell{
		Hours:       FormatHHMM(split.RegularSeconds),
		Overtime:    FormatHHMM(split.OvertimeSeconds),
		HoursDec:    secondsToHours(split.RegularSeconds),
		OvertimeDec: secondsToHours(split.OvertimeSeconds),
		Flags:       split.Flags,
	}
	if cell.Flags == nil {
		cell.Flags = []Flag{}
	}
	if split.In != nil {
		cell.In = split.In.HHMM()
	}
	if split.Out != nil {
		cell.Out = split.Out.HHMM()
	}
	return cell
}

func zeroRecord(entry RosterEntry, weekDates []WallClock) PayrollRecord {
	rec := PayrollRecord{
		EmployeeID:    entry.EmployeeID,
		Name:          entry.Name,
		IsActive:      entry.IsActive,
		Days:          make(map[string]DayCell, len(weekDates)),
		TotalRegular:  decimal.Zero,
		TotalOvertime: decimal.Zero,
		TotalAll:      decimal.Zero,
	}
	if rec.Name == "" {
		rec.Name = string(entry.EmployeeID)
	}
	for _, date := range weekDates {
		rec.Days[date.ISODate()] = DayCell{
			Hours:       "00:00",
			Overtime:    "00:00",
			HoursDec:    decimal.Zero,
			OvertimeDec: decimal.Zero,
			Flags:       []Flag{},
		}
	}
	return rec
}

func secondsToHours(seconds int) decimal.Decimal {
	return decimal.NewFromInt(int64(seconds)).
		Div(decimal.NewFromInt(3600)).
		Round(2)
}

// =============================================================================
// EMPLOYEE ORDERING
// =============================================================================

func rosterFromEvents(events map[EmployeeID]map[string][]Event, names map[EmployeeID]string) []RosterEntry {
	roster := make([]RosterEntry, 0, len(events))
	for id := range events {
		roster = append(roster, RosterEntry{
			EmployeeID: id,
			Name:       names[id],
			IsActive:   true,
		})
	}
	return roster
}

// sortRoster orders numeric employee ids ascending numerically, then
// non-numeric ids lexically after all numeric ones ("2" before "10"
// before "A1").
func sortRoster(roster []RosterEntry) {
	sort.SliceStable(roster, func(i, j int) bool {
		return EmployeeIDLess(roster[i].EmployeeID, roster[j].EmployeeID)
	})
}

// EmployeeIDLess is the canonical employee ordering: numeric ids ascending
// numerically, non-numeric ids lexically after all numeric ones. Every
// surface that lists employees sorts with this.
func EmployeeIDLess(a, b EmployeeID) bool {
	an, aerr := strconv.Atoi(string(a))
	bn, berr := strconv.Atoi(string(b))
	switch {
	case aerr == nil && berr == nil:
		return an < bn
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
