package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"workpulse/internal/core"
)

// Ledger records and serves activities through an injected repository.
type Ledger struct {
	activities ActivityRepository
}

// NewLedger creates a ledger over the given activity repository.
func NewLedger(activities ActivityRepository) *Ledger {
	return &Ledger{activities: activities}
}

// Record creates a new activity with a fresh identifier and persists it.
func (l *Ledger) Record(ctx context.Context, date core.Date, start time.Time, end *time.Time, categoryID core.CategoryID, task string) (core.Activity, error) {
	activity := core.NewActivity(date, start, end, categoryID, task)

	if err := l.activities.Add(ctx, activity); err != nil {
		return core.Activity{}, fmt.Errorf("record activity: %w", err)
	}

	slog.InfoContext(ctx, "Activity recorded",
		"id", activity.ID,
		"date", activity.Date,
		"category_id", activity.CategoryID)

	return activity, nil
}

// Update replaces the stored activity that carries the same identifier.
func (l *Ledger) Update(ctx context.Context, activity core.Activity) error {
	if err := l.activities.Update(ctx, activity); err != nil {
		return fmt.Errorf("update activity %s: %w", activity.ID, err)
	}
	return nil
}

// Delete removes the activity with the given identifier.
func (l *Ledger) Delete(ctx context.Context, id core.ActivityID) error {
	if err := l.activities.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete activity %s: %w", id, err)
	}
	return nil
}

// GetByID fetches a single activity.
func (l *Ledger) GetByID(ctx context.Context, id core.ActivityID) (core.Activity, error) {
	activity, err := l.activities.GetByID(ctx, id)
	if err != nil {
		return core.Activity{}, fmt.Errorf("get activity %s: %w", id, err)
	}
	return activity, nil
}

// Activities returns every recorded activity in repository order.
func (l *Ledger) Activities(ctx context.Context) ([]core.Activity, error) {
	return l.activities.GetAll(ctx)
}

// ActivitiesByDate returns the activities recorded on a single date.
func (l *Ledger) ActivitiesByDate(ctx context.Context, date core.Date) ([]core.Activity, error) {
	return l.activities.GetByDate(ctx, date)
}

// ActivitiesByDateRange returns the activities dated within [start, end].
func (l *Ledger) ActivitiesByDateRange(ctx context.Context, start, end core.Date) ([]core.Activity, error) {
	return l.activities.GetByDateRange(ctx, start, end)
}
