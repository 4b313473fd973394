package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// WALL CLOCK - Timezone-naive local time (the engine's only time currency)
// =============================================================================

// WallClock is a local wall-clock datetime with no timezone attached.
// Device timestamps arrive in assorted shapes (space or 'T' separators,
// trailing 'Z' or numeric offsets); ParseWallClock is the single ingestion
// boundary that coerces all of them to naive local time. Inside the engine
// only WallClock values circulate.
type WallClock struct {
	t time.Time
}

// NewWallClock builds a wall-clock value from components.
func NewWallClock(year int, month time.Month, day, hour, min, sec int) WallClock {
	return WallClock{t: time.Date(year, month, day, hour, min, sec, 0, time.UTC)}
}

// NewDate builds a wall-clock value at midnight.
func NewDate(year int, month time.Month, day int) WallClock {
	return NewWallClock(year, month, day, 0, 0, 0)
}

// Today returns the current local date at midnight.
func Today() WallClock {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

var wallClockLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseWallClock parses a timestamp string into a WallClock.
// Timestamps carrying an offset or 'Z' are converted to local time and the
// offset is dropped. Returns ok=false for unparseable input; the caller
// decides whether that is a skip or a flag.
func ParseWallClock(s string) (WallClock, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WallClock{}, false
	}

	// Offset-carrying forms first: convert to local, then strip the zone.
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			lt := t.Local()
			return NewWallClock(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second()), true
		}
	}

	// Naive forms are taken as-is.
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return WallClock{t: t}, true
		}
	}
	return WallClock{}, false
}

// ParseEvent builds an Event from a raw timestamp at the ingestion
// boundary. An unparseable timestamp yields a *TimestampError so callers
// can report exactly which punch was rejected.
func ParseEvent(id EmployeeID, raw string) (Event, error) {
	at, ok := ParseWallClock(raw)
	if !ok {
		return Event{}, &TimestampError{EmployeeID: id, Raw: raw}
	}
	return Event{EmployeeID: id, At: at}, nil
}

// Comparison
func (w WallClock) Before(other WallClock) bool { return w.t.Before(other.t) }
func (w WallClock) After(other WallClock) bool  { return w.t.After(other.t) }
func (w WallClock) Equal(other WallClock) bool  { return w.t.Equal(other.t) }
func (w WallClock) IsZero() bool                { return w.t.IsZero() }

// Arithmetic
func (w WallClock) AddDays(n int) WallClock           { return WallClock{t: w.t.AddDate(0, 0, n)} }
func (w WallClock) Add(d time.Duration) WallClock     { return WallClock{t: w.t.Add(d)} }
func (w WallClock) Sub(other WallClock) time.Duration { return w.t.Sub(other.t) }
func (w WallClock) SecondsSince(other WallClock) int  { return int(w.t.Sub(other.t).Seconds()) }

// Properties
func (w WallClock) Year() int         { return w.t.Year() }
func (w WallClock) Month() time.Month { return w.t.Month() }
func (w WallClock) Day() int          { return w.t.Day() }

// Weekday returns the weekday with Monday=0 ... Sunday=6, the convention
// used by weekday sets and schedule rules throughout this system.
func (w WallClock) Weekday() int {
	return (int(w.t.Weekday()) + 6) % 7
}

// DateOf truncates to midnight of the same day.
func (w WallClock) DateOf() WallClock {
	return NewDate(w.t.Year(), w.t.Month(), w.t.Day())
}

// At combines this value's date with a clock time.
func (w WallClock) At(c ClockTime) WallClock {
	return NewWallClock(w.t.Year(), w.t.Month(), w.t.Day(), c.Hour, c.Minute, 0)
}

// Formatting
func (w WallClock) String() string     { return w.t.Format("2006-01-02 15:04:05") }
func (w WallClock) ISODate() string    { return w.t.Format("2006-01-02") }
func (w WallClock) HHMM() string       { return w.t.Format("15:04") }
func (w WallClock) DayLabel() string   { return w.t.Format("Mon 02/01") }
func (w WallClock) MonthLabel() string { return w.t.Format("Jan 02") }

// =============================================================================
// CLOCK TIME - HH:MM shift boundary
// =============================================================================

// ClockTime is a time of day with minute precision, used for shift window
// boundaries. Stored schedule rows carry "HH:MM" or "HH:MM:SS" strings;
// ParseClockTime is the only place those strings are interpreted.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM" or "HH:MM:SS". Seconds, when present, are
// discarded (shift boundaries are minute-grained). Returns ok=false for
// anything else.
func ParseClockTime(s string) (ClockTime, bool) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return ClockTime{}, false
	}

	// Every component must be entirely digits. Sscanf-style parsing would
	// accept "17:0x" as 17:00, turning a typo'd shift time into a plausible
	// schedule instead of an invalid one.
	h, ok := parseClockComponent(parts[0])
	if !ok {
		return ClockTime{}, false
	}
	m, ok := parseClockComponent(parts[1])
	if !ok {
		return ClockTime{}, false
	}
	if len(parts) == 3 {
		sec, ok := parseClockComponent(parts[2])
		if !ok || sec > 59 {
			return ClockTime{}, false
		}
	}
	if h > 23 || m > 59 {
		return ClockTime{}, false
	}
	return ClockTime{Hour: h, Minute: m}, true
}

func parseClockComponent(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// BeforeOrEqual reports c <= other in clock order.
func (c ClockTime) BeforeOrEqual(other ClockTime) bool {
	if c.Hour != other.Hour {
		return c.Hour < other.Hour
	}
	return c.Minute <= other.Minute
}

// =============================================================================
// DURATION FORMATTING
// =============================================================================

// FormatHHMM renders a duration in seconds as "HH:MM", floor-rounded to the
// minute. Negative inputs clamp to "00:00"; hours may exceed 24.
func FormatHHMM(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
