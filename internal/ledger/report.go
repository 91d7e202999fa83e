package ledger

import (
	"context"
	"fmt"
	"time"

	"workpulse/internal/core"
)

// DailyReport is a derived, immutable snapshot of one day's activities. It is
// never persisted.
type DailyReport struct {
	Date          core.Date
	Activities    []core.Activity
	TotalDuration time.Duration
}

// NewDailyReport aggregates the activities recorded on date. Activities keep
// repository iteration order; open-ended ones contribute zero duration.
func NewDailyReport(ctx context.Context, date core.Date, activities ActivityRepository) (DailyReport, error) {
	list, err := activities.GetByDate(ctx, date)
	if err != nil {
		return DailyReport{}, fmt.Errorf("daily report %s: %w", date, err)
	}

	var total time.Duration
	for _, a := range list {
		total += a.Duration()
	}

	return DailyReport{Date: date, Activities: list, TotalDuration: total}, nil
}

// DailyReport aggregates the activities recorded on date.
func (l *Ledger) DailyReport(ctx context.Context, date core.Date) (DailyReport, error) {
	return NewDailyReport(ctx, date, l.activities)
}

// DayCategoryDurations is one day's per-category duration breakdown.
type DayCategoryDurations struct {
	Date      core.Date
	Durations map[core.CategoryID]time.Duration
}

// WeeklyReport is a derived, immutable snapshot of a week's activities with
// per-category and per-day breakdowns.
type WeeklyReport struct {
	WeekStart     core.Date
	WeekEnd       core.Date
	Activities    []core.Activity
	TotalDuration time.Duration

	// DurationPerCategory sums durations over the whole window per category.
	DurationPerCategory map[core.CategoryID]time.Duration

	// DailyDurationsPerCategory holds one entry for each of the 7 days
	// starting at WeekStart, in order, including days with no activities.
	DailyDurationsPerCategory []DayCategoryDurations
}

// WeeklyReport aggregates the week starting at weekStart.
func (l *Ledger) WeeklyReport(ctx context.Context, weekStart core.Date) (WeeklyReport, error) {
	return NewWeeklyReport(ctx, weekStart, l.activities)
}

// NewWeeklyReport aggregates the week starting at weekStart. WeekEnd is
// weekStart+7 days and the underlying range query is inclusive of both ends,
// so an activity dated exactly WeekEnd shows up in Activities and the totals
// while the per-day breakdown covers only the first seven days.
func NewWeeklyReport(ctx context.Context, weekStart core.Date, activities ActivityRepository) (WeeklyReport, error) {
	weekEnd := weekStart.AddDays(7)

	list, err := activities.GetByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		return WeeklyReport{}, fmt.Errorf("weekly report %s: %w", weekStart, err)
	}

	var total time.Duration
	perCategory := make(map[core.CategoryID]time.Duration)
	for _, a := range list {
		total += a.Duration()
		perCategory[a.CategoryID] += a.Duration()
	}

	daily := make([]DayCategoryDurations, 0, 7)
	for offset := 0; offset < 7; offset++ {
		day := weekStart.AddDays(offset)
		durations := make(map[core.CategoryID]time.Duration)
		for _, a := range list {
			if a.Date.Equal(day.Time) {
				durations[a.CategoryID] += a.Duration()
			}
		}
		daily = append(daily, DayCategoryDurations{Date: day, Durations: durations})
	}

	return WeeklyReport{
		WeekStart:                 weekStart,
		WeekEnd:                   weekEnd,
		Activities:                list,
		TotalDuration:             total,
		DurationPerCategory:       perCategory,
		DailyDurationsPerCategory: daily,
	}, nil
}
