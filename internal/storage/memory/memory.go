// Package memory provides mutex-guarded, in-process repositories. They are
// the composition-time alternative to the relational backends and the
// fixture used throughout the tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"workpulse/internal/core"
	"workpulse/internal/ledger"
)

// ActivityRepository keeps activities in an ordered slice and serves queries
// by linear scan. All mutations take the write lock, so concurrent writers
// are serialized per instance.
type ActivityRepository struct {
	mu         sync.RWMutex
	activities []core.Activity
}

var _ ledger.ActivityRepository = (*ActivityRepository)(nil)

// NewActivityRepository creates an empty in-memory activity repository.
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) GetAll(ctx context.Context) ([]core.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Activity, 0, len(r.activities))
	for _, a := range r.activities {
		out = append(out, a.Clone())
	}
	return out, nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id core.ActivityID) (core.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.activities {
		if a.ID == id {
			return a.Clone(), nil
		}
	}
	return core.Activity{}, fmt.Errorf("%w: activity %s", core.ErrNotFound, id)
}

func (r *ActivityRepository) GetByDate(ctx context.Context, date core.Date) ([]core.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Activity
	for _, a := range r.activities {
		if a.Date.Equal(date.Time) {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

func (r *ActivityRepository) GetByDateRange(ctx context.Context, start, end core.Date) ([]core.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Activity
	for _, a := range r.activities {
		if !a.Date.Before(start.Time) && !a.Date.After(end.Time) {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

func (r *ActivityRepository) Add(ctx context.Context, activity core.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities = append(r.activities, activity.Clone())
	return nil
}

func (r *ActivityRepository) AddMany(ctx context.Context, activities []core.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range activities {
		r.activities = append(r.activities, a.Clone())
	}
	return nil
}

func (r *ActivityRepository) Update(ctx context.Context, activity core.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.activities {
		if a.ID == activity.ID {
			r.activities[i] = activity.Clone()
			return nil
		}
	}
	return fmt.Errorf("%w: activity %s", core.ErrNotFound, activity.ID)
}

func (r *ActivityRepository) Delete(ctx context.Context, id core.ActivityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.activities {
		if a.ID == id {
			r.activities = append(r.activities[:i], r.activities[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: activity %s", core.ErrNotFound, id)
}

func (r *ActivityRepository) DeleteByDateRange(ctx context.Context, start, end core.Date) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.activities[:0]
	deleted := 0
	for _, a := range r.activities {
		if !a.Date.Before(start.Time) && !a.Date.After(end.Time) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.activities = kept
	return deleted, nil
}

func (r *ActivityRepository) DeleteAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := len(r.activities)
	r.activities = nil
	return deleted, nil
}

// CategoryRepository keeps categories in an ordered slice. GetOrCreateByName
// holds the write lock across its check-then-act, so concurrent calls with
// the same name never create two categories.
type CategoryRepository struct {
	mu         sync.RWMutex
	categories []core.Category
}

var _ ledger.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates an empty in-memory category repository.
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]core.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id core.CategoryID) (core.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Category{}, fmt.Errorf("%w: category %s", core.ErrNotFound, id)
}

func (r *CategoryRepository) Add(ctx context.Context, category core.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories = append(r.categories, category)
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category core.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.categories {
		if c.ID == category.ID {
			r.categories[i] = category
			return nil
		}
	}
	return fmt.Errorf("%w: category %s", core.ErrNotFound, category.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id core.CategoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.categories {
		if c.ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: category %s", core.ErrNotFound, id)
}

func (r *CategoryRepository) GetOrCreateByName(ctx context.Context, name string) (core.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}

	category := core.NewCategory(name)
	r.categories = append(r.categories, category)
	return category, nil
}
