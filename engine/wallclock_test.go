package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// TIMESTAMP PARSING
// =============================================================================

func TestParseWallClock_NaiveForms(t *testing.T) {
	// All naive shapes devices emit must land on the same instant.
	want := engine.NewWallClock(2025, time.March, 10, 8, 2, 0)

	for _, raw := range []string{
		"2025-03-10 08:02:00",
		"2025-03-10T08:02:00",
		"2025-03-10 08:02",
		"2025-03-10T08:02",
		"  2025-03-10 08:02:00  ",
	} {
		got, ok := engine.ParseWallClock(raw)
		require.True(t, ok, "should parse %q", raw)
		assert.True(t, got.Equal(want), "%q should parse to %s, got %s", raw, want, got)
	}
}

func TestParseWallClock_DateOnly(t *testing.T) {
	got, ok := engine.ParseWallClock("2025-03-10")
	require.True(t, ok)
	assert.True(t, got.Equal(engine.NewDate(2025, time.March, 10)))
}

func TestParseWallClock_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "yesterday", "10/03/2025", "2025-13-40 99:99"} {
		_, ok := engine.ParseWallClock(raw)
		assert.False(t, ok, "%q should not parse", raw)
	}
}

func TestParseWallClock_OffsetStripped(t *testing.T) {
	// Offset-carrying timestamps are converted to local and the zone is
	// dropped; whatever the host zone, the result is a naive value.
	got, ok := engine.ParseWallClock("2025-03-10T08:02:00Z")
	require.True(t, ok)

	lt := time.Date(2025, time.March, 10, 8, 2, 0, 0, time.UTC).Local()
	want := engine.NewWallClock(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second())
	assert.True(t, got.Equal(want))
}

func TestParseEvent(t *testing.T) {
	e, err := engine.ParseEvent("7", "2025-03-10 09:00:00")
	require.NoError(t, err)
	assert.Equal(t, engine.EmployeeID("7"), e.EmployeeID)

	_, err = engine.ParseEvent("7", "garbage")
	require.Error(t, err)
	assert.True(t, engine.IsClientError(err), "bad timestamps classify as client errors")

	var tsErr *engine.TimestampError
	require.ErrorAs(t, err, &tsErr)
	assert.Equal(t, "garbage", tsErr.Raw)
	assert.Equal(t, engine.EmployeeID("7"), tsErr.EmployeeID)
}

// =============================================================================
// CLOCK TIME
// =============================================================================

func TestParseClockTime(t *testing.T) {
	ct, ok := engine.ParseClockTime("09:30")
	require.True(t, ok)
	assert.Equal(t, engine.ClockTime{Hour: 9, Minute: 30}, ct)

	// Seconds are accepted and discarded.
	ct, ok = engine.ParseClockTime("23:59:59")
	require.True(t, ok)
	assert.Equal(t, engine.ClockTime{Hour: 23, Minute: 59}, ct)

	for _, bad := range []string{"", "24:00", "09:60", "9h30", "five", "09"} {
		_, ok := engine.ParseClockTime(bad)
		assert.False(t, ok, "%q should not parse", bad)
	}
}

func TestParseClockTime_RejectsTrailingGarbage(t *testing.T) {
	// Components with trailing non-digits must fail, not parse as their
	// digit prefix. "17:0x" reading as 17:00 would turn a typo'd shift
	// time into a valid-looking schedule.
	for _, bad := range []string{"17:0x", "08a:30", "1x:30", "09:3o", "+9:30", "-1:30", "09:30:5x", "09: 30"} {
		_, ok := engine.ParseClockTime(bad)
		assert.False(t, ok, "%q should not parse", bad)
	}
}

// =============================================================================
// WEEKDAY CONVENTION
// =============================================================================

func TestWallClock_Weekday_MondayIsZero(t *testing.T) {
	// 2025-03-10 is a Monday, 2025-03-16 a Sunday.
	assert.Equal(t, 0, engine.NewDate(2025, time.March, 10).Weekday())
	assert.Equal(t, 3, engine.NewDate(2025, time.March, 13).Weekday())
	assert.Equal(t, 6, engine.NewDate(2025, time.March, 16).Weekday())
}

// =============================================================================
// DURATION FORMATTING
// =============================================================================

func TestFormatHHMM(t *testing.T) {
	assert.Equal(t, "00:00", engine.FormatHHMM(0))
	assert.Equal(t, "00:00", engine.FormatHHMM(-5))
	assert.Equal(t, "00:00", engine.FormatHHMM(59), "floor to the minute")
	assert.Equal(t, "00:01", engine.FormatHHMM(60))
	assert.Equal(t, "08:30", engine.FormatHHMM(8*3600+30*60))
	assert.Equal(t, "25:10", engine.FormatHHMM(25*3600+10*60), "hours may exceed 24")
}
