package availability

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

// Wednesday, 2025-06-11 15:00 UTC
var now = time.Date(2025, time.June, 11, 15, 0, 0, 0, time.UTC)

func TestToUTC(t *testing.T) {
	got, err := ToUTC("08:00:00", saoPaulo, now)
	require.NoError(t, err)
	assert.Equal(t, "11:00:00", got)

	got, err = ToUTC("22:30:15", saoPaulo, now)
	require.NoError(t, err)
	assert.Equal(t, "01:30:15", got, "wraps past midnight, date is discarded")
}

func TestToLocal(t *testing.T) {
	got, err := ToLocal("11:00:00", saoPaulo, now)
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", got)

	got, err = ToLocal("01:30:15", saoPaulo, now)
	require.NoError(t, err)
	assert.Equal(t, "22:30:15", got)
}

func TestRoundTrip(t *testing.T) {
	offsets := []int{-12, -9, -3, 0, 1, 5, 9, 14}
	clocks := []string{"00:00:00", "05:30:00", "08:00:00", "12:59:59", "18:00:00", "23:30:00", "23:59:59"}

	for _, hours := range offsets {
		loc := time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*60*60)
		for _, clock := range clocks {
			utc, err := ToUTC(clock, loc, now)
			require.NoError(t, err)

			back, err := ToLocal(utc, loc, now)
			require.NoError(t, err)
			assert.Equal(t, clock, back, "offset %d clock %s", hours, clock)
		}
	}
}

func TestToUTCRejectsMalformedClock(t *testing.T) {
	_, err := ToUTC("8am", saoPaulo, now)
	assert.Error(t, err)

	_, err = ToLocal("", saoPaulo, now)
	assert.Error(t, err)
}

func TestFor(t *testing.T) {
	window, err := For(Schedule{
		FromWeekDay: 1,
		ToWeekDay:   5,
		FromTime:    "11:00:00",
		ToTime:      "21:00:00",
	}, saoPaulo, now)
	require.NoError(t, err)

	assert.Equal(t, time.Monday, window.From.Weekday())
	assert.Equal(t, time.Friday, window.To.Weekday())
	assert.Equal(t, "08:00:00", window.From.Format(ClockLayout))
	assert.Equal(t, "18:00:00", window.To.Format(ClockLayout))
	assert.Equal(t, saoPaulo, window.From.Location())

	assert.Equal(t, Labels{
		FromDay:  "Monday",
		ToDay:    "Friday",
		FromTime: "08:00",
		ToTime:   "18:00",
	}, window.Labels())
}

func TestForKeepsStoredWeekdayAcrossMidnight(t *testing.T) {
	// 01:00 UTC is 22:00 the previous evening in BRT; the weekday must not move.
	window, err := For(Schedule{
		FromWeekDay: 1,
		ToWeekDay:   2,
		FromTime:    "01:00:00",
		ToTime:      "02:00:00",
	}, saoPaulo, now)
	require.NoError(t, err)

	assert.Equal(t, time.Monday, window.From.Weekday())
	assert.Equal(t, "22:00", window.Labels().FromTime)
}

func TestForRejectsInvalidSchedule(t *testing.T) {
	_, err := For(Schedule{FromWeekDay: 7, ToWeekDay: 1, FromTime: "08:00:00", ToTime: "09:00:00"}, saoPaulo, now)
	assert.Error(t, err)

	_, err = For(Schedule{FromWeekDay: 1, ToWeekDay: 2, FromTime: "bad", ToTime: "09:00:00"}, saoPaulo, now)
	assert.Error(t, err)
}
