package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"workpulse/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testActivity(t *testing.T, date core.Date, categoryID core.CategoryID) core.Activity {
	t.Helper()
	start, err := core.ParseClock("09:00")
	if err != nil {
		t.Fatalf("parse clock: %v", err)
	}
	end := start.Add(2 * time.Hour)
	return core.NewActivity(date, start, &end, categoryID, "task")
}

func TestStore_ActivityRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	category, err := store.Categories().GetOrCreateByName(ctx, "Development")
	if err != nil {
		t.Fatalf("GetOrCreateByName: %v", err)
	}

	activity := testActivity(t, core.NewDate(2023, 10, 2), category.ID)
	if err := store.Activities().Add(ctx, activity); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := store.Activities().GetByID(ctx, activity.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != activity.ID || got.CategoryID != category.ID || got.Task != "task" {
		t.Errorf("GetByID = %+v, want %+v", got, activity)
	}
	if !got.Date.Equal(activity.Date.Time) {
		t.Errorf("date = %s, want %s", got.Date, activity.Date)
	}
	if got.Duration() != 2*time.Hour {
		t.Errorf("duration = %v, want 2h", got.Duration())
	}
}

func TestStore_OpenEndedActivity(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	category, err := store.Categories().GetOrCreateByName(ctx, "Development")
	if err != nil {
		t.Fatalf("GetOrCreateByName: %v", err)
	}

	start, err := core.ParseClock("09:00")
	if err != nil {
		t.Fatalf("parse clock: %v", err)
	}
	activity := core.NewActivity(core.NewDate(2023, 10, 2), start, nil, category.ID, "")
	if err := store.Activities().Add(ctx, activity); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := store.Activities().GetByID(ctx, activity.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.EndTime != nil {
		t.Errorf("EndTime = %v, want nil", got.EndTime)
	}
}

func TestStore_AddManyAndRangeQuery(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	category, err := store.Categories().GetOrCreateByName(ctx, "Development")
	if err != nil {
		t.Fatalf("GetOrCreateByName: %v", err)
	}

	var batch []core.Activity
	for day := 1; day <= 10; day++ {
		batch = append(batch, testActivity(t, core.NewDate(2023, 10, day), category.ID))
	}
	if err := store.Activities().AddMany(ctx, batch); err != nil {
		t.Fatalf("AddMany: %v", err)
	}

	got, err := store.Activities().GetByDateRange(ctx, core.NewDate(2023, 10, 3), core.NewDate(2023, 10, 7))
	if err != nil {
		t.Fatalf("GetByDateRange: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("range query returned %d activities, want 5 (both bounds inclusive)", len(got))
	}

	deleted, err := store.Activities().DeleteByDateRange(ctx, core.NewDate(2023, 10, 1), core.NewDate(2023, 10, 5))
	if err != nil {
		t.Fatalf("DeleteByDateRange: %v", err)
	}
	if deleted != 5 {
		t.Errorf("deleted %d activities, want 5", deleted)
	}

	remaining, err := store.Activities().GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(remaining) != 5 {
		t.Errorf("store holds %d activities, want 5", len(remaining))
	}
}

func TestStore_UpdateAndDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	activity := testActivity(t, core.NewDate(2023, 10, 2), core.NewCategoryID())
	if err := store.Activities().Update(ctx, activity); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
	if err := store.Activities().Delete(ctx, core.NewActivityID()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	category, err := store.Categories().GetOrCreateByName(ctx, "Development")
	if err != nil {
		t.Fatalf("GetOrCreateByName: %v", err)
	}
	for day := 1; day <= 3; day++ {
		if err := store.Activities().Add(ctx, testActivity(t, core.NewDate(2023, 10, day), category.ID)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	deleted, err := store.Activities().DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted %d activities, want 3", deleted)
	}
}

func TestStore_GetOrCreateByName_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first, err := store.Categories().GetOrCreateByName(ctx, "Meetings")
	if err != nil {
		t.Fatalf("GetOrCreateByName: %v", err)
	}
	second, err := store.Categories().GetOrCreateByName(ctx, "Meetings")
	if err != nil {
		t.Fatalf("GetOrCreateByName: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("same name resolved to two ids: %s and %s", first.ID, second.ID)
	}

	all, err := store.Categories().GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("store holds %d categories, want 1", len(all))
	}
}

func TestStore_CategoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	category, err := store.Categories().GetOrCreateByName(ctx, "Dev")
	if err != nil {
		t.Fatalf("GetOrCreateByName: %v", err)
	}

	renamed := core.CategoryWithID(category.ID, "Development")
	if err := store.Categories().Update(ctx, renamed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Categories().GetByID(ctx, category.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Development" {
		t.Errorf("Name = %q, want %q", got.Name, "Development")
	}

	if err := store.Categories().Delete(ctx, category.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Categories().GetByID(ctx, category.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrNotFound", err)
	}
}
