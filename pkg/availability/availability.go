// Package availability converts a doctor's weekly availability between the
// clinic's wall clock and the UTC time of day that is persisted.
package availability

import (
	"fmt"
	"time"
)

// ClockLayout is the persisted time-of-day format.
const ClockLayout = "15:04:05"

const labelLayout = "15:04"

// Schedule is a weekly availability window as stored: weekdays 0 (Sunday)
// through 6 and UTC times of day.
type Schedule struct {
	FromWeekDay int
	ToWeekDay   int
	FromTime    string
	ToTime      string
}

// Window is a schedule expressed as two local instants within the current week.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Labels is a presentable version of a Window.
type Labels struct {
	FromDay  string `json:"fromDay"`
	ToDay    string `json:"toDay"`
	FromTime string `json:"fromTime"`
	ToTime   string `json:"toTime"`
}

// ToUTC interprets clock as a wall-clock time in loc on the day of now and
// returns the matching UTC time of day. The date is discarded.
func ToUTC(clock string, loc *time.Location, now time.Time) (string, error) {
	return shift(clock, loc, time.UTC, now)
}

// ToLocal is the inverse of ToUTC.
func ToLocal(clock string, loc *time.Location, now time.Time) (string, error) {
	return shift(clock, time.UTC, loc, now)
}

func shift(clock string, from, to *time.Location, now time.Time) (string, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return "", fmt.Errorf("invalid time of day %q: %w", clock, err)
	}

	day := now.In(from)
	at := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, from)
	return at.In(to).Format(ClockLayout), nil
}

// For places a stored schedule on the current week in loc. The weekdays are
// kept as stored and the times are converted back to local wall clock.
func For(s Schedule, loc *time.Location, now time.Time) (Window, error) {
	if s.FromWeekDay < 0 || s.FromWeekDay > 6 || s.ToWeekDay < 0 || s.ToWeekDay > 6 {
		return Window{}, fmt.Errorf("weekday out of range: %d-%d", s.FromWeekDay, s.ToWeekDay)
	}

	from, err := instant(s.FromWeekDay, s.FromTime, loc, now)
	if err != nil {
		return Window{}, err
	}
	to, err := instant(s.ToWeekDay, s.ToTime, loc, now)
	if err != nil {
		return Window{}, err
	}
	return Window{From: from, To: to}, nil
}

func instant(weekDay int, utcClock string, loc *time.Location, now time.Time) (time.Time, error) {
	clock, err := ToLocal(utcClock, loc, now)
	if err != nil {
		return time.Time{}, err
	}
	t, _ := time.Parse(ClockLayout, clock)

	local := now.In(loc)
	sunday := local.AddDate(0, 0, -int(local.Weekday()))
	day := sunday.AddDate(0, 0, weekDay)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

// Labels renders the window as weekday names and HH:mm clock times.
func (w Window) Labels() Labels {
	return Labels{
		FromDay:  w.From.Weekday().String(),
		ToDay:    w.To.Weekday().String(),
		FromTime: w.From.Format(labelLayout),
		ToTime:   w.To.Format(labelLayout),
	}
}
