/*
spec_test.go - Specification Tests for the Attendance Engine

PURPOSE:
  These tests serve as EXECUTABLE SPECIFICATIONS of the system design.
  Each test documents a specific behavior from DESIGN.md and validates
  that the implementation conforms to it.

ORGANIZATION:
  Tests are grouped by design area:
  1. Deduplication - Window semantics, idempotence
  2. Daily Attendance - First-in/last-out, zero records, flags
  3. Regular/Overtime Split - min/max reconciliation, degradation
  4. Week Conventions - Partition property across all four conventions
  5. Weekday Parsing - Equivalent spellings, additive parsing
  6. Payroll Aggregation - Dense weeks, deterministic ordering

READING THESE TESTS:
  Each test has:
  - A descriptive name that states the behavior
  - GIVEN/WHEN/THEN comments explaining the scenario
  - Clear assertions with explanatory messages

These tests are intentionally verbose for documentation purposes.
*/
package engine_test

import (
	"testing"
	"time"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

func at(hour, min, sec int) engine.WallClock {
	return engine.NewWallClock(2025, time.March, 10, hour, min, sec)
}

func punch(id string, w engine.WallClock) engine.Event {
	return engine.Event{EmployeeID: engine.EmployeeID(id), At: w}
}

func punches(id string, ws ...engine.WallClock) []engine.Event {
	out := make([]engine.Event, len(ws))
	for i, w := range ws {
		out[i] = punch(id, w)
	}
	return out
}

// =============================================================================
// DESIGN 1: DEDUPLICATION
// =============================================================================
// From DESIGN.md: "An event within the duplicate window of the previously
// kept event is dropped; the first event of each cluster survives."

func TestDesign_Dedupe_WithinWindow_Dropped(t *testing.T) {
	// GIVEN: Two punches 59 seconds apart (inside the 60s window)
	// WHEN: Deduplicating
	// THEN: Only the first survives

	events := punches("7", at(8, 0, 0), at(8, 0, 59))
	cleaned := engine.Normalize(events)

	if len(cleaned) != 1 {
		t.Fatalf("DESIGN VIOLATION: 59s-apart punches should collapse to 1, got %d", len(cleaned))
	}
	if !cleaned[0].At.Equal(at(8, 0, 0)) {
		t.Error("the FIRST punch of the cluster should survive")
	}
}

func TestDesign_Dedupe_ExactlyWindow_Dropped(t *testing.T) {
	// GIVEN: Two punches exactly 60 seconds apart
	// WHEN: Deduplicating
	// THEN: The second is dropped (window boundary is inclusive)

	events := punches("7", at(8, 0, 0), at(8, 1, 0))
	cleaned := engine.Normalize(events)

	if len(cleaned) != 1 {
		t.Errorf("DESIGN VIOLATION: boundary is inclusive, expected 1 punch, got %d", len(cleaned))
	}
}

func TestDesign_Dedupe_BeyondWindow_Kept(t *testing.T) {
	// GIVEN: Two punches 61 seconds apart
	// WHEN: Deduplicating
	// THEN: Both survive

	events := punches("7", at(8, 0, 0), at(8, 1, 1))
	cleaned := engine.Normalize(events)

	if len(cleaned) != 2 {
		t.Errorf("DESIGN VIOLATION: 61s-apart punches are distinct, expected 2, got %d", len(cleaned))
	}
}

func TestDesign_Dedupe_ComparesAgainstKeptEvent(t *testing.T) {
	// GIVEN: Punches at 0s, 50s, 100s (each 50s after the previous)
	// WHEN: Deduplicating with the 60s window
	// THEN: 0s kept, 50s dropped (within 60s of 0s), 100s kept
	//       (100s is measured against the KEPT 0s punch, not the dropped 50s)
	//
	// PURPOSE: A slow drift of punches must not collapse a whole day.

	events := punches("7", at(8, 0, 0), at(8, 0, 50), at(8, 1, 40))
	cleaned := engine.Normalize(events)

	if len(cleaned) != 2 {
		t.Fatalf("expected 2 punches after dedup, got %d", len(cleaned))
	}
	if !cleaned[1].At.Equal(at(8, 1, 40)) {
		t.Error("DESIGN VIOLATION: comparison must be against the last KEPT event")
	}
}

func TestDesign_Dedupe_Idempotent(t *testing.T) {
	// GIVEN: A noisy punch list
	// WHEN: Normalizing twice
	// THEN: Second pass changes nothing
	//
	// PURPOSE: Re-running a report over already-clean data is a no-op.

	events := punches("7",
		at(8, 0, 0), at(8, 0, 30), at(8, 0, 59),
		at(12, 15, 0),
		at(17, 30, 0), at(17, 30, 10),
	)

	once := engine.Normalize(events)
	twice := engine.Normalize(once)

	if len(once) != len(twice) {
		t.Fatalf("DESIGN VIOLATION: Normalize must be idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if !once[i].At.Equal(twice[i].At) {
			t.Errorf("punch %d changed on second pass", i)
		}
	}
}

func TestDesign_Dedupe_SortsBeforeScanning(t *testing.T) {
	// GIVEN: Punches arriving out of order (device flush reordering)
	// WHEN: Normalizing
	// THEN: Output is ascending by timestamp

	events := punches("7", at(17, 0, 0), at(8, 0, 0), at(12, 0, 0))
	cleaned := engine.Normalize(events)

	if len(cleaned) != 3 {
		t.Fatalf("expected 3 punches, got %d", len(cleaned))
	}
	for i := 1; i < len(cleaned); i++ {
		if cleaned[i].At.Before(cleaned[i-1].At) {
			t.Error("DESIGN VIOLATION: normalized punches must be ascending")
		}
	}
}

// =============================================================================
// DESIGN 2: DAILY ATTENDANCE
// =============================================================================
// From DESIGN.md: "A day with zero events yields an explicit zero record;
// flags are informational and never suppress a row."

func TestDesign_Daily_NoEvents_ZeroRecordWithFlag(t *testing.T) {
	// GIVEN: No punches for the day
	// WHEN: Computing daily attendance
	// THEN: Explicit zero record flagged no_events, never a missing row

	att := engine.ComputeDaily(nil)

	if att.In != nil || att.Out != nil {
		t.Error("DESIGN VIOLATION: zero record must have nil in/out")
	}
	if att.WorkedSeconds != 0 {
		t.Errorf("worked should be 0, got %d", att.WorkedSeconds)
	}
	if !engine.HasFlag(att.Flags, engine.FlagNoEvents) {
		t.Error("DESIGN VIOLATION: zero record must carry no_events")
	}
}

func TestDesign_Daily_FirstInLastOut(t *testing.T) {
	// GIVEN: Four punches 08:02, 12:00, 13:00, 17:30
	// WHEN: Computing daily attendance
	// THEN: in=08:02, out=17:30, worked = 9h28m; midday punches ignored

	att := engine.ComputeDaily(punches("7",
		at(8, 2, 0), at(12, 0, 0), at(13, 0, 0), at(17, 30, 0),
	))

	if att.In == nil || !att.In.Equal(at(8, 2, 0)) {
		t.Error("in should be the first punch")
	}
	if att.Out == nil || !att.Out.Equal(at(17, 30, 0)) {
		t.Error("out should be the last punch")
	}
	want := 9*3600 + 28*60
	if att.WorkedSeconds != want {
		t.Errorf("worked should be %d, got %d", want, att.WorkedSeconds)
	}
	if att.PunchCount != 4 {
		t.Errorf("punch count should be 4, got %d", att.PunchCount)
	}
}

func TestDesign_Daily_SinglePunch_FlaggedNotHidden(t *testing.T) {
	// GIVEN: Exactly one punch
	// WHEN: Computing daily attendance
	// THEN: Record is flagged single_punch (and short_day: 0s worked),
	//       worked is zero, the row still exists

	att := engine.ComputeDaily(punches("7", at(8, 0, 0)))

	if !engine.HasFlag(att.Flags, engine.FlagSinglePunch) {
		t.Error("DESIGN VIOLATION: single punch must be flagged")
	}
	if att.WorkedSeconds != 0 {
		t.Errorf("single punch yields 0 worked seconds, got %d", att.WorkedSeconds)
	}
	if att.In == nil || att.Out == nil {
		t.Error("single punch still records in and out (same instant)")
	}
}

func TestDesign_Daily_ShortDay_Flagged(t *testing.T) {
	// GIVEN: 9 minutes worked (under the 10-minute threshold)
	// WHEN: Computing daily attendance
	// THEN: Flagged short_day, duration preserved

	att := engine.ComputeDaily(punches("7", at(8, 0, 0), at(8, 9, 0)))

	if !engine.HasFlag(att.Flags, engine.FlagShortDay) {
		t.Error("DESIGN VIOLATION: sub-threshold day must be flagged short_day")
	}
	if att.WorkedSeconds != 9*60 {
		t.Errorf("worked should be 540, got %d", att.WorkedSeconds)
	}
}

func TestDesign_Daily_OvernightShift_CrossesMidnight(t *testing.T) {
	// GIVEN: In at 23:50, out at 00:10 the next day, grouped as one shift day
	// WHEN: Computing daily attendance
	// THEN: Worked is 20 minutes, not -23h40m or 23h40m

	in := engine.NewWallClock(2025, time.March, 10, 23, 50, 0)
	out := engine.NewWallClock(2025, time.March, 11, 0, 10, 0)

	att := engine.ComputeDaily(punches("7", in, out))

	if att.WorkedSeconds != 1200 {
		t.Errorf("DESIGN VIOLATION: overnight 23:50→00:10 should be 1200s, got %d", att.WorkedSeconds)
	}
}

// =============================================================================
// DESIGN 3: REGULAR/OVERTIME SPLIT
// =============================================================================
// From DESIGN.md: "regular = min(worked, scheduled);
// overtime = max(0, worked - scheduled)"

func splitDay() engine.WallClock {
	// 2025-03-10 is a Monday.
	return engine.NewDate(2025, time.March, 10)
}

func window(start, end string) engine.ShiftWindow {
	return engine.ShiftWindow{StartTime: start, EndTime: end}
}

func shiftsFor(day engine.WallClock, windows ...engine.ShiftWindow) []engine.ResolvedShift {
	tpl := &engine.ScheduleTemplate{
		ID:   1,
		Name: "test",
		Rules: []engine.ScheduleRule{
			{ID: 1, Weekdays: engine.ParseWeekdays("MTWRFSU"), Priority: 1, Shifts: windows},
		},
	}
	return engine.ExpectedShifts(tpl, day)
}

func TestDesign_Split_OvertimeBeyondSchedule(t *testing.T) {
	// GIVEN: 8h scheduled (09:00-17:00), 8h30m worked
	// WHEN: Splitting
	// THEN: regular=28800, overtime=1800, flagged overtime

	daily := engine.ComputeDaily(punches("7", at(9, 0, 0), at(17, 30, 0)))
	shifts := shiftsFor(splitDay(), window("09:00", "17:00"))

	split := engine.Split(daily, shifts, splitDay(), engine.SplitOptions{})

	if split.RegularSeconds != 28800 {
		t.Errorf("regular should be 28800, got %d", split.RegularSeconds)
	}
	if split.OvertimeSeconds != 1800 {
		t.Errorf("overtime should be 1800, got %d", split.OvertimeSeconds)
	}
	if !engine.HasFlag(split.Flags, engine.FlagOvertime) {
		t.Error("DESIGN VIOLATION: overtime must be flagged")
	}
}

func TestDesign_Split_UnderSchedule_NoOvertime(t *testing.T) {
	// GIVEN: 8h scheduled, 6h worked
	// WHEN: Splitting
	// THEN: regular=worked, overtime=0, no overtime flag

	daily := engine.ComputeDaily(punches("7", at(9, 0, 0), at(15, 0, 0)))
	shifts := shiftsFor(splitDay(), window("09:00", "17:00"))

	split := engine.Split(daily, shifts, splitDay(), engine.SplitOptions{})

	if split.RegularSeconds != 6*3600 {
		t.Errorf("regular should be 21600, got %d", split.RegularSeconds)
	}
	if split.OvertimeSeconds != 0 {
		t.Errorf("overtime should be 0, got %d", split.OvertimeSeconds)
	}
	if engine.HasFlag(split.Flags, engine.FlagOvertime) {
		t.Error("under-schedule day must not be flagged overtime")
	}
}

func TestDesign_Split_NoSchedule_AllRegular(t *testing.T) {
	// GIVEN: 4h worked, no schedule assigned
	// WHEN: Splitting
	// THEN: regular=14400, overtime=0, flagged no_schedule
	//
	// PURPOSE: Overtime is meaningless without a scheduled baseline.

	daily := engine.ComputeDaily(punches("7", at(9, 0, 0), at(13, 0, 0)))

	split := engine.Split(daily, nil, splitDay(), engine.SplitOptions{})

	if split.RegularSeconds != 14400 {
		t.Errorf("regular should be 14400, got %d", split.RegularSeconds)
	}
	if split.OvertimeSeconds != 0 {
		t.Errorf("overtime should be 0, got %d", split.OvertimeSeconds)
	}
	if !engine.HasFlag(split.Flags, engine.FlagNoSchedule) {
		t.Error("DESIGN VIOLATION: unscheduled day must be flagged no_schedule")
	}
}

func TestDesign_Split_DefaultWindow_UsedButStillFlagged(t *testing.T) {
	// GIVEN: No schedule, caller injects a 09:00-17:00 fallback, 9h worked
	// WHEN: Splitting
	// THEN: Fallback supplies the scheduled total (1h overtime appears)
	//       AND the day keeps the no_schedule flag

	daily := engine.ComputeDaily(punches("7", at(9, 0, 0), at(18, 0, 0)))
	fallback := window("09:00", "17:00")

	split := engine.Split(daily, nil, splitDay(), engine.SplitOptions{DefaultWindow: &fallback})

	if split.OvertimeSeconds != 3600 {
		t.Errorf("overtime against the fallback should be 3600, got %d", split.OvertimeSeconds)
	}
	if !engine.HasFlag(split.Flags, engine.FlagNoSchedule) {
		t.Error("DESIGN VIOLATION: assumed window must still be flagged no_schedule")
	}
}

func TestDesign_Split_InvalidWindow_FlaggedAndExcluded(t *testing.T) {
	// GIVEN: Two windows, one with unparseable times
	// WHEN: Splitting 8h worked
	// THEN: Valid window (4h) still counts, day flagged invalid_schedule

	daily := engine.ComputeDaily(punches("7", at(9, 0, 0), at(17, 0, 0)))
	shifts := shiftsFor(splitDay(), window("09:00", "13:00"), window("2pm", "6pm"))

	split := engine.Split(daily, shifts, splitDay(), engine.SplitOptions{})

	if !engine.HasFlag(split.Flags, engine.FlagInvalidSchedule) {
		t.Error("DESIGN VIOLATION: malformed window must flag invalid_schedule")
	}
	// Scheduled total is the valid 4h window; 4h overtime follows.
	if split.RegularSeconds != 4*3600 {
		t.Errorf("regular should count only the valid window (14400), got %d", split.RegularSeconds)
	}
	if split.OvertimeSeconds != 4*3600 {
		t.Errorf("overtime should be 14400, got %d", split.OvertimeSeconds)
	}
}

func TestDesign_Split_DigitPrefixedGarbage_IsInvalid(t *testing.T) {
	// GIVEN: A window whose end time is a digit-prefixed typo ("17:0x")
	// WHEN: Splitting 10h worked
	// THEN: The window is treated as malformed, not read as 17:00, so the
	//       day degrades to all-regular with invalid_schedule

	daily := engine.ComputeDaily(punches("7", at(8, 0, 0), at(18, 0, 0)))
	shifts := shiftsFor(splitDay(), window("09:00", "17:0x"))

	split := engine.Split(daily, shifts, splitDay(), engine.SplitOptions{})

	if !engine.HasFlag(split.Flags, engine.FlagInvalidSchedule) {
		t.Error("DESIGN VIOLATION: digit-prefixed garbage must flag invalid_schedule")
	}
	if split.RegularSeconds != 10*3600 {
		t.Errorf("regular should be all worked time (36000), got %d", split.RegularSeconds)
	}
	if split.OvertimeSeconds != 0 {
		t.Errorf("no overtime against a malformed schedule, got %d", split.OvertimeSeconds)
	}
}

func TestDesign_Split_AllWindowsInvalid_AllRegular(t *testing.T) {
	// GIVEN: A schedule whose every window is malformed
	// WHEN: Splitting 8h worked
	// THEN: All worked time is regular; no overtime is invented against a
	//       zero-length schedule

	daily := engine.ComputeDaily(punches("7", at(9, 0, 0), at(17, 0, 0)))
	shifts := shiftsFor(splitDay(), window("9am", "5pm"))

	split := engine.Split(daily, shifts, splitDay(), engine.SplitOptions{})

	if split.RegularSeconds != 8*3600 {
		t.Errorf("regular should be all worked time, got %d", split.RegularSeconds)
	}
	if split.OvertimeSeconds != 0 {
		t.Errorf("DESIGN VIOLATION: overtime should be 0, got %d", split.OvertimeSeconds)
	}
	if !engine.HasFlag(split.Flags, engine.FlagInvalidSchedule) {
		t.Error("day must be flagged invalid_schedule")
	}
}

func TestDesign_Split_SplitShift_WindowsSum(t *testing.T) {
	// GIVEN: A split shift 09:00-13:00 and 14:00-18:00 (8h scheduled total)
	// WHEN: Working 09:00-18:00 (9h straight through)
	// THEN: regular=8h, overtime=1h
	//
	// PURPOSE: Multiple windows on one day are split shifts, not a
	// conflict; their durations sum.

	daily := engine.ComputeDaily(punches("7", at(9, 0, 0), at(18, 0, 0)))
	shifts := shiftsFor(splitDay(), window("09:00", "13:00"), window("14:00", "18:00"))

	split := engine.Split(daily, shifts, splitDay(), engine.SplitOptions{})

	if split.RegularSeconds != 8*3600 {
		t.Errorf("regular should be 28800 (both windows), got %d", split.RegularSeconds)
	}
	if split.OvertimeSeconds != 3600 {
		t.Errorf("overtime should be 3600, got %d", split.OvertimeSeconds)
	}
}

// =============================================================================
// DESIGN 4: WEEK CONVENTIONS
// =============================================================================
// From DESIGN.md: "Consecutive weeks under one convention are contiguous
// and never overlap."

func TestDesign_Week_PartitionProperty_AllConventions(t *testing.T) {
	// GIVEN: 60 consecutive dates
	// WHEN: Mapping each to its week start under every convention
	// THEN: Each date's week start is stable, the date falls inside
	//       [start, start+6], and week starts advance in 7-day steps

	base := engine.NewDate(2025, time.January, 1)

	for _, key := range engine.WeekSpecKeys() {
		spec := engine.WeekSpecFor(key)

		var prevStart engine.WallClock
		for i := 0; i < 60; i++ {
			d := base.AddDays(i)
			start := spec.StartFor(d)

			if d.Before(start) || d.After(start.AddDays(6)) {
				t.Errorf("%s: %s outside its own week starting %s", key, d.ISODate(), start.ISODate())
			}
			if start.Weekday() != spec.StartWeekday {
				t.Errorf("%s: week start %s is not weekday %d", key, start.ISODate(), spec.StartWeekday)
			}
			// Idempotence: the start of a week is its own week start.
			if !spec.StartFor(start).Equal(start) {
				t.Errorf("%s: StartFor not idempotent at %s", key, start.ISODate())
			}
			if !prevStart.IsZero() && !start.Equal(prevStart) && !start.Equal(prevStart.AddDays(7)) {
				t.Errorf("%s: week start jumped from %s to %s", key, prevStart.ISODate(), start.ISODate())
			}
			prevStart = start
		}
	}
}

func TestDesign_Week_SaturdayStart(t *testing.T) {
	// GIVEN: The sat_fri convention and a Wednesday
	// WHEN: Resolving the week start
	// THEN: The preceding Saturday

	spec := engine.WeekSpecFor("sat_fri")
	wed := engine.NewDate(2025, time.March, 12)

	start := spec.StartFor(wed)
	if start.ISODate() != "2025-03-08" {
		t.Errorf("week start should be Sat 2025-03-08, got %s", start.ISODate())
	}
}

func TestDesign_Week_UnknownKey_FallsBackToMonSat(t *testing.T) {
	// GIVEN: An unrecognized convention key
	// WHEN: Resolving the convention
	// THEN: mon_sat is used (reports must never fail on a bad key)

	spec := engine.WeekSpecFor("bogus")
	if spec.Key != "mon_sat" {
		t.Errorf("fallback should be mon_sat, got %s", spec.Key)
	}
}

func TestDesign_Week_MonFri_FiveReportedDays(t *testing.T) {
	// GIVEN: The mon_fri convention
	// WHEN: Enumerating week dates
	// THEN: Exactly 5 dates, Monday through Friday

	spec := engine.WeekSpecFor("mon_fri")
	dates := spec.Dates(engine.NewDate(2025, time.March, 12))

	if len(dates) != 5 {
		t.Fatalf("mon_fri should report 5 days, got %d", len(dates))
	}
	if dates[0].ISODate() != "2025-03-10" || dates[4].ISODate() != "2025-03-14" {
		t.Errorf("week should span Mon 03-10 .. Fri 03-14, got %s .. %s",
			dates[0].ISODate(), dates[4].ISODate())
	}
}

// =============================================================================
// DESIGN 5: WEEKDAY PARSING
// =============================================================================
// From DESIGN.md: "Numeric lists, separated tokens, and compact runs are
// equivalent spellings of the same set."

func TestDesign_Weekdays_EquivalentSpellings(t *testing.T) {
	// GIVEN: The Mon-Fri set spelled four ways
	// WHEN: Parsing each
	// THEN: All yield {0,1,2,3,4}

	want := engine.ParseWeekdays("0,1,2,3,4")
	for _, spelled := range []string{
		"MON,TUE,WED,THU,FRI",
		"mon tue wed thu fri",
		"MTWRF",
		"0 1 2 3 4",
	} {
		got := engine.ParseWeekdays(spelled)
		if got != want {
			t.Errorf("DESIGN VIOLATION: %q should equal %q: got %v want %v",
				spelled, "0,1,2,3,4", got.Days(), want.Days())
		}
	}
}

func TestDesign_Weekdays_SingleLetterDisambiguation(t *testing.T) {
	// GIVEN: Compact run letters R and U
	// WHEN: Parsing
	// THEN: R=Thursday(3), U=Sunday(6); T and S stay Tuesday and Saturday

	set := engine.ParseWeekdays("TRSU")
	wantDays := []int{1, 3, 5, 6}
	got := set.Days()
	if len(got) != len(wantDays) {
		t.Fatalf("expected %v, got %v", wantDays, got)
	}
	for i := range wantDays {
		if got[i] != wantDays[i] {
			t.Errorf("expected %v, got %v", wantDays, got)
			break
		}
	}
}

func TestDesign_Weekdays_MalformedInput_NeverFails(t *testing.T) {
	// GIVEN: Garbage specifications
	// WHEN: Parsing
	// THEN: Empty set (a rule that never matches), never a panic or error

	for _, bad := range []string{"", "XYZ", "8,9", "???", "   "} {
		set := engine.ParseWeekdays(bad)
		if !set.IsEmpty() {
			t.Errorf("DESIGN VIOLATION: %q should parse to the empty set, got %v", bad, set.Days())
		}
	}
}

func TestDesign_Weekdays_UnknownTokensSkipped(t *testing.T) {
	// GIVEN: A list mixing valid and junk tokens
	// WHEN: Parsing
	// THEN: Valid tokens still land (parsing is additive, not all-or-nothing)

	set := engine.ParseWeekdays("MON,XX,FRI")
	if !set.Contains(0) || !set.Contains(4) {
		t.Error("valid tokens should survive junk neighbors")
	}
	if len(set.Days()) != 2 {
		t.Errorf("expected exactly {Mon,Fri}, got %v", set.Days())
	}
}

// =============================================================================
// DESIGN 6: PAYROLL AGGREGATION
// =============================================================================
// From DESIGN.md: "Every requested date appears in every record; employees
// sort numerically before lexically."

func TestDesign_Payroll_WeeksAreNeverSparse(t *testing.T) {
	// GIVEN: A roster employee with events on only one of six week dates
	// WHEN: Building payroll
	// THEN: All six dates appear, five of them zero-valued no_events cells

	spec := engine.WeekSpecFor("mon_sat")
	weekDates := spec.Dates(engine.NewDate(2025, time.March, 10))

	events := engine.GroupEvents(punches("7", at(9, 0, 0), at(17, 0, 0)))

	records := engine.BuildPayroll(engine.PayrollInput{
		Events:    events,
		Roster:    []engine.RosterEntry{{EmployeeID: "7", Name: "G. Abitbol", IsActive: true}},
		WeekDates: weekDates,
	})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if len(rec.Days) != 6 {
		t.Fatalf("DESIGN VIOLATION: all 6 week dates must appear, got %d", len(rec.Days))
	}
	empty := 0
	for _, d := range weekDates {
		cell, ok := rec.Days[d.ISODate()]
		if !ok {
			t.Fatalf("missing cell for %s", d.ISODate())
		}
		if engine.HasFlag(cell.Flags, engine.FlagNoEvents) {
			empty++
			if cell.Hours != "00:00" {
				t.Errorf("no_events cell should be zero-valued, got %q", cell.Hours)
			}
		}
	}
	if empty != 5 {
		t.Errorf("expected 5 empty days, got %d", empty)
	}
}

func TestDesign_Payroll_NumericBeforeLexicalOrdering(t *testing.T) {
	// GIVEN: Employee ids "10", "2", "A1"
	// WHEN: Building payroll
	// THEN: Order is 2, 10, A1 ("2" before "10"; numeric before alpha)

	roster := []engine.RosterEntry{
		{EmployeeID: "10"}, {EmployeeID: "A1"}, {EmployeeID: "2"},
	}
	records := engine.BuildPayroll(engine.PayrollInput{
		Roster:    roster,
		WeekDates: []engine.WallClock{engine.NewDate(2025, time.March, 10)},
	})

	got := []string{}
	for _, r := range records {
		got = append(got, string(r.EmployeeID))
	}
	want := []string{"2", "10", "A1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DESIGN VIOLATION: ordering should be %v, got %v", want, got)
		}
	}
}

func TestDesign_Payroll_TotalsSumTheWeek(t *testing.T) {
	// GIVEN: Two worked days, 8h scheduled each, one with 1h overtime
	// WHEN: Building payroll over both dates
	// THEN: TotalRegular=16.00 hours, TotalOvertime=1.00 hour

	mon := engine.NewDate(2025, time.March, 10)
	tue := engine.NewDate(2025, time.March, 11)

	tpl := &engine.ScheduleTemplate{
		ID: 1,
		Rules: []engine.ScheduleRule{
			{ID: 1, Weekdays: engine.ParseWeekdays("MTWRF"), Priority: 1,
				Shifts: []engine.ShiftWindow{window("09:00", "17:00")}},
		},
	}
	lookup := func(_ engine.EmployeeID, day engine.WallClock) []engine.ResolvedShift {
		return engine.ExpectedShifts(tpl, day)
	}

	events := engine.GroupEvents([]engine.Event{
		punch("7", engine.NewWallClock(2025, time.March, 10, 9, 0, 0)),
		punch("7", engine.NewWallClock(2025, time.March, 10, 17, 0, 0)),
		punch("7", engine.NewWallClock(2025, time.March, 11, 9, 0, 0)),
		punch("7", engine.NewWallClock(2025, time.March, 11, 18, 0, 0)),
	})

	records := engine.BuildPayroll(engine.PayrollInput{
		Events:    events,
		Roster:    []engine.RosterEntry{{EmployeeID: "7"}},
		WeekDates: []engine.WallClock{mon, tue},
		Schedule:  lookup,
	})

	rec := records[0]
	if rec.TotalRegularSeconds != 16*3600 {
		t.Errorf("total regular should be 57600s, got %d", rec.TotalRegularSeconds)
	}
	if rec.TotalOvertimeSeconds != 3600 {
		t.Errorf("total overtime should be 3600s, got %d", rec.TotalOvertimeSeconds)
	}
	if rec.TotalRegular.String() != "16" {
		t.Errorf("TotalRegular should be 16, got %s", rec.TotalRegular)
	}
	if rec.TotalOvertime.String() != "1" {
		t.Errorf("TotalOvertime should be 1, got %s", rec.TotalOvertime)
	}
	if rec.TotalAll.String() != "17" {
		t.Errorf("TotalAll should be 17, got %s", rec.TotalAll)
	}
}

func TestDesign_Payroll_RosterDrivesVisibility(t *testing.T) {
	// GIVEN: A roster employee with zero events all week
	// WHEN: Building payroll
	// THEN: The employee still gets a full zero-valued record
	//
	// PURPOSE: Visibility is the roster's decision, never the engine's.

	records := engine.BuildPayroll(engine.PayrollInput{
		Roster:    []engine.RosterEntry{{EmployeeID: "42", Name: "Ghost"}},
		WeekDates: engine.WeekSpecFor("mon_sat").Dates(engine.NewDate(2025, time.March, 10)),
	})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].TotalAll.String() != "0" {
		t.Errorf("ghost employee should total 0, got %s", records[0].TotalAll)
	}
	for day, cell := range records[0].Days {
		if !engine.HasFlag(cell.Flags, engine.FlagNoEvents) {
			t.Errorf("day %s should be flagged no_events", day)
		}
	}
}
