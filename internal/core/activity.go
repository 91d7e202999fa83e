package core

import "time"

// Activity is one recorded unit of work: what was done, on which date, and
// over which time span. EndTime is nil while the span is open-ended.
//
// Whether EndTime falls on or after StartTime is not validated here; the
// ledger stores whatever the caller recorded.
type Activity struct {
	ID         ActivityID
	Date       Date
	StartTime  time.Time
	EndTime    *time.Time
	CategoryID CategoryID
	Task       string
}

// NewActivity creates an activity with a fresh random identifier.
func NewActivity(date Date, start time.Time, end *time.Time, categoryID CategoryID, task string) Activity {
	return Activity{
		ID:         NewActivityID(),
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		CategoryID: categoryID,
		Task:       task,
	}
}

// ActivityWithID rehydrates an activity from storage under its existing
// identifier.
func ActivityWithID(id ActivityID, date Date, start time.Time, end *time.Time, categoryID CategoryID, task string) Activity {
	return Activity{
		ID:         id,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		CategoryID: categoryID,
		Task:       task,
	}
}

// Duration returns EndTime-StartTime, or zero while the activity is open.
func (a Activity) Duration() time.Duration {
	if a.EndTime == nil {
		return 0
	}
	return a.EndTime.Sub(a.StartTime)
}

// Clone returns a value copy whose EndTime no longer aliases the receiver's.
func (a Activity) Clone() Activity {
	if a.EndTime != nil {
		end := *a.EndTime
		a.EndTime = &end
	}
	return a
}
