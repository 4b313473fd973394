package engine

import (
	"strconv"
	"strings"
)

// =============================================================================
// WEEKDAY SET - Parsed schedule-rule day masks (Mon=0 ... Sun=6)
// =============================================================================

// WeekdaySet is a set of weekdays, Monday=0 through Sunday=6.
type WeekdaySet uint8

// Contains reports whether weekday wd (0..6) is in the set.
func (s WeekdaySet) Contains(wd int) bool {
	if wd < 0 || wd > 6 {
		return false
	}
	return s&(1<<uint(wd)) != 0
}

// Add returns the set with weekday wd included. Out-of-range values are ignored.
func (s WeekdaySet) Add(wd int) WeekdaySet {
	if wd < 0 || wd > 6 {
		return s
	}
	return s | (1 << uint(wd))
}

// IsEmpty reports whether no weekday is set. An empty set never matches.
func (s WeekdaySet) IsEmpty() bool { return s == 0 }

// Days returns the member weekdays in ascending order.
func (s WeekdaySet) Days() []int {
	var out []int
	for wd := 0; wd <= 6; wd++ {
		if s.Contains(wd) {
			out = append(out, wd)
		}
	}
	return out
}

func (s WeekdaySet) String() string {
	letters := []string{"M", "T", "W", "R", "F", "S", "U"}
	var b strings.Builder
	for wd := 0; wd <= 6; wd++ {
		if s.Contains(wd) {
			b.WriteString(letters[wd])
		}
	}
	return b.String()
}

// Token table for named weekdays. Single letters use R=Thursday and
// U=Sunday to disambiguate from Tuesday and Saturday.
var weekdayTokens = map[string]int{
	"MON": 0, "MO": 0, "M": 0,
	"TUE": 1, "TU": 1, "T": 1,
	"WED": 2, "WE": 2, "W": 2,
	"THU": 3, "TH": 3, "R": 3,
	"FRI": 4, "FR": 4, "F": 4,
	"SAT": 5, "SA": 5, "S": 5,
	"SUN": 6, "SU": 6, "U": 6,
}

// ParseWeekdays parses a free-form weekday specification into a WeekdaySet.
//
// Accepted shapes, tried in priority order:
//  1. Numeric lists: "0,1,2,3,4" or "0 1 2 3 4" (values outside 0..6 dropped)
//  2. Separated name tokens: "MON,TUE" / "Mon Tue" / "TH FR"
//  3. Compact single-letter runs: "MTWRFSU"
//
// Parsing is purely additive: unrecognized tokens are silently skipped and
// malformed input yields an empty set (a rule that never matches). This
// function never fails.
func ParseWeekdays(spec string) WeekdaySet {
	var set WeekdaySet

	s := strings.ToUpper(strings.TrimSpace(spec))
	if s == "" {
		return set
	}

	if strings.ContainsAny(s, "0123456789") {
		for _, tok := range splitWeekdayTokens(s) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				continue
			}
			set = set.Add(n)
		}
		return set
	}

	if strings.ContainsAny(s, ", \t") {
		for _, tok := range splitWeekdayTokens(s) {
			if wd, ok := weekdayTokens[tok]; ok {
				set = set.Add(wd)
			}
		}
		return set
	}

	// Compact run: each character stands alone.
	for _, ch := range s {
		if wd, ok := weekdayTokens[string(ch)]; ok {
			set = set.Add(wd)
		}
	}
	return set
}

func splitWeekdayTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
