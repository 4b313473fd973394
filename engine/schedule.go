/*
schedule.go - Schedule templates, rules, and per-day resolution

PURPOSE:
  Models the rule-based work-schedule definition and resolves it into the
  ordered list of shift windows expected for an employee on a calendar day.

MODEL:
  ScheduleTemplate -> ScheduleRule (weekday mask + priority) -> ShiftWindow

  A rule matches a date when the date's weekday is in the rule's weekday
  set. ALL matching rules contribute their shifts: several rules or several
  shifts on the same day are split shifts, not a conflict. The single
  best-row-wins materialization some legacy reports used discarded that
  multiplicity; this resolver is the canonical, multiplicity-preserving
  path.

ORDERING:
  Rules evaluate in ascending (priority, rule id); the resolved list is
  ordered by (rule priority, shift start, shift id). The order is for
  presentation and determinism only - it never suppresses lower-priority
  matches.

SEE ALSO:
  - split.go: Consumes resolved shifts for the regular/overtime split
  - weekday.go: ParseWeekdays
*/
package engine

import (
	"fmt"
	"sort"
)

// =============================================================================
// SCHEDULE MODEL
// =============================================================================

// ShiftWindow is one scheduled start-end interval as stored: raw HH:MM
// strings plus grace and break allowances in minutes. end <= start denotes
// an overnight shift wrapping to the next day.
type ShiftWindow struct {
	ID           int64
	StartTime    string
	EndTime      string
	GraceMinutes int
	BreakMinutes int
}

// ScheduleRule binds a weekday set to an ordered list of shift windows.
type ScheduleRule struct {
	ID       int64
	Weekdays WeekdaySet
	Priority int
	Shifts   []ShiftWindow
}

// ScheduleTemplate is a named bundle of rules assigned to zero or more
// employees.
type ScheduleTemplate struct {
	ID    int64
	Name  string
	Rules []ScheduleRule
}

// ResolvedShift is a ShiftWindow resolved to absolute wall-clock datetimes
// for a concrete day. Invalid marks a window whose raw times did not parse;
// it stays in the list so the splitter can flag invalid_schedule, but
// contributes nothing to the scheduled total.
type ResolvedShift struct {
	RuleID       int64
	ShiftID      int64
	Priority     int
	Start        WallClock
	End          WallClock
	GraceMinutes int
	BreakMinutes int
	Invalid      bool
}

// ScheduledSeconds returns the window's duration in seconds, 0 for invalid
// or degenerate windows.
func (rs ResolvedShift) ScheduledSeconds() int {
	if rs.Invalid {
		return 0
	}
	sec := rs.End.SecondsSince(rs.Start)
	if sec < 0 {
		return 0
	}
	return sec
}

// =============================================================================
// RESOLVER
// =============================================================================

// ExpectedShifts returns the shift windows expected on day for the given
// template, resolved to absolute datetimes. A nil template means no schedule
// is assigned and yields an empty list (all worked time counts as regular
// downstream, flagged no_schedule).
//
// Pure function of (template, day): no side effects, stable ordering across
// repeated calls.
func ExpectedShifts(tpl *ScheduleTemplate, day WallClock) []ResolvedShift {
	if tpl == nil {
		return []ResolvedShift{}
	}

	weekday := day.Weekday()

	rules := make([]ScheduleRule, len(tpl.Rules))
	copy(rules, tpl.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		return rules[i].ID < rules[j].ID
	})

	var resolved []ResolvedShift
	for _, rule := range rules {
		if !rule.Weekdays.Contains(weekday) {
			continue
		}
		for _, sh := range rule.Shifts {
			resolved = append(resolved, resolveShift(rule, sh, day))
		}
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		a, b := resolved[i], resolved[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.ShiftID < b.ShiftID
	})
	return resolved
}

func resolveShift(rule ScheduleRule, sh ShiftWindow, day WallClock) ResolvedShift {
	rs := ResolvedShift{
		RuleID:       rule.ID,
		ShiftID:      sh.ID,
		Priority:     rule.Priority,
		GraceMinutes: sh.GraceMinutes,
		BreakMinutes: sh.BreakMinutes,
	}

	start, okStart := ParseClockTime(sh.StartTime)
	end, okEnd := ParseClockTime(sh.EndTime)
	if !okStart || !okEnd {
		rs.Invalid = true
		return rs
	}

	rs.Start = day.At(start)
	rs.End = day.At(end)
	if end.BeforeOrEqual(start) {
		// Overnight shift wraps to the next day.
		rs.End = rs.End.AddDays(1)
	}
	return rs
}

// =============================================================================
// WEEKLY GRID - Presentation helper for template administration
// =============================================================================

// WeekdayLabels are the display names indexed by the Mon=0 convention.
var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeeklyGrid expands a template into per-weekday "HH:MM – HH:MM" labels,
// suitable for a weekly grid view. Invalid windows render their raw text so
// bad data stays visible to the administrator.
func WeeklyGrid(tpl *ScheduleTemplate) map[string][]string {
	grid := make(map[string][]string, len(WeekdayLabels))
	for _, label := range WeekdayLabels {
		grid[label] = []string{}
	}
	if tpl == nil {
		return grid
	}

	rules := make([]ScheduleRule, len(tpl.Rules))
	copy(rules, tpl.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		return rules[i].ID < rules[j].ID
	})

	for _, rule := range rules {
		for wd := 0; wd <= 6; wd++ {
			if !rule.Weekdays.Contains(wd) {
				continue
			}
			label := WeekdayLabels[wd]
			for _, sh := range rule.Shifts {
				grid[label] = append(grid[label], fmt.Sprintf("%s – %s", sh.StartTime, sh.EndTime))
			}
		}
	}
	return grid
}
