package booking

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire and display format of a booking date.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrPastDate       = errors.New("date is before today")
	ErrBlockedWeekend = errors.New("date falls on a blocked weekend")
)

// IsBlockedWeekend reports whether no meetings are held on date: every
// Sunday, and the 2nd and 4th Saturday of the month. The week of the month
// is ceil(day/7), so days 8-14 are the 2nd week and 22-28 the 4th.
func IsBlockedWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Sunday:
		return true
	case time.Saturday:
		week := WeekOfMonth(date)
		return week == 2 || week == 4
	}
	return false
}

// WeekOfMonth returns ceil(day_of_month / 7), in 1..5.
func WeekOfMonth(date time.Time) int {
	return (date.Day() + 6) / 7
}

// ParseDate parses a YYYY-MM-DD calendar date. The result is midnight UTC
// so that weekday arithmetic does not depend on the local zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// CivilDate strips the clock and zone from t, keeping its calendar day.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateDate checks a date string against the selection rules: it must
// parse, be no earlier than the calendar day of now, and not be a blocked
// weekend.
func ValidateDate(s string, now time.Time) (time.Time, error) {
	date, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if date.Before(CivilDate(now)) {
		return date, ErrPastDate
	}
	if IsBlockedWeekend(date) {
		return date, ErrBlockedWeekend
	}
	return date, nil
}

// NextBookable returns the first date on or after from that is not a
// blocked weekend.
func NextBookable(from time.Time) time.Time {
	d := CivilDate(from)
	for IsBlockedWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
