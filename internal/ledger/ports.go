// Package ledger holds the use cases of the activity ledger: recording and
// listing activities, category management, CSV import and time reports.
// Storage is reached only through the repository ports below.
package ledger

import (
	"context"

	"workpulse/internal/core"
)

// Ports for storage backends. Implementations must serialize mutating calls
// per instance (single writer at a time): the check-then-act inside
// GetOrCreateByName and an import's delete-then-insert sequence must not
// interleave with another writer. Reads may run concurrently but must never
// observe a half-applied mutation. Entities cross these interfaces as value
// copies; callers never mutate stored state except through Add/Update.
type (
	ActivityRepository interface {
		GetAll(ctx context.Context) ([]core.Activity, error)
		GetByID(ctx context.Context, id core.ActivityID) (core.Activity, error)
		GetByDate(ctx context.Context, date core.Date) ([]core.Activity, error)
		// GetByDateRange is inclusive on both ends.
		GetByDateRange(ctx context.Context, start, end core.Date) ([]core.Activity, error)
		// Add appends without any uniqueness check.
		Add(ctx context.Context, activity core.Activity) error
		// AddMany appends a batch; backends are free to chunk the inserts.
		AddMany(ctx context.Context, activities []core.Activity) error
		Update(ctx context.Context, activity core.Activity) error
		Delete(ctx context.Context, id core.ActivityID) error
		// DeleteByDateRange removes activities dated within [start, end] and
		// reports how many were removed.
		DeleteByDateRange(ctx context.Context, start, end core.Date) (int, error)
		DeleteAll(ctx context.Context) (int, error)
	}

	CategoryRepository interface {
		GetAll(ctx context.Context) ([]core.Category, error)
		GetByID(ctx context.Context, id core.CategoryID) (core.Category, error)
		Add(ctx context.Context, category core.Category) error
		Update(ctx context.Context, category core.Category) error
		Delete(ctx context.Context, id core.CategoryID) error
		// GetOrCreateByName returns the category whose name matches exactly,
		// creating and persisting it first if absent. The check and the
		// create are atomic with respect to concurrent callers on the same
		// backend instance.
		GetOrCreateByName(ctx context.Context, name string) (core.Category, error)
	}
)
