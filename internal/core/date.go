package core

import (
	"fmt"
	"time"
)

// Date is a naive calendar date. The wrapped time is always midnight UTC so
// two dates compare with Equal/Before/After regardless of how they were built.
type Date struct {
	time.Time
}

// NewDate creates a date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q is not a valid date", ErrParse, s)
	}
	return Date{Time: t}, nil
}

// ParseDayMonth composes a "dd.mm." cell with an externally supplied year and
// parses the result as a calendar date. Impossible dates (e.g. "31.02.") fail.
func ParseDayMonth(s string, year int) (Date, error) {
	t, err := time.Parse("02.01.2006", fmt.Sprintf("%s%d", s, year))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q with year %d is not a valid date", ErrParse, s, year)
	}
	return Date{Time: t}, nil
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// ParseClock parses a wall time in "HH:MM" or "HH:MM:SS" form. The result is
// anchored to the zero reference day; only differences between two clock
// values are meaningful.
func ParseClock(s string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid time", ErrParse, s)
	}
	return t, nil
}
