package ledger_test

import (
	"context"
	"errors"
	"testing"

	"workpulse/internal/core"
	"workpulse/internal/ledger"
	"workpulse/internal/storage/memory"
)

func TestCategories_Create(t *testing.T) {
	ctx := context.Background()
	categories := ledger.NewCategories(memory.NewCategoryRepository())

	created, err := categories.Create(ctx, "Development")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "Development" {
		t.Errorf("Name = %q, want %q", created.Name, "Development")
	}

	got, err := categories.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != created {
		t.Errorf("GetByID = %+v, want %+v", got, created)
	}
}

func TestCategories_Create_DuplicateName(t *testing.T) {
	ctx := context.Background()
	categories := ledger.NewCategories(memory.NewCategoryRepository())

	if _, err := categories.Create(ctx, "Development"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := categories.Create(ctx, "Development")
	if !errors.Is(err, core.ErrDuplicateName) {
		t.Errorf("second Create error = %v, want ErrDuplicateName", err)
	}
}

func TestCategories_GetOrCreate_Idempotent(t *testing.T) {
	ctx := context.Background()
	categories := ledger.NewCategories(memory.NewCategoryRepository())

	first, err := categories.GetOrCreate(ctx, "Meetings")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := categories.GetOrCreate(ctx, "Meetings")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("GetOrCreate returned two ids for one name: %s and %s", first.ID, second.ID)
	}
}

func TestCategories_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	categories := ledger.NewCategories(memory.NewCategoryRepository())

	created, err := categories.Create(ctx, "Dev")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	renamed := core.CategoryWithID(created.ID, "Development")
	if err := categories.Update(ctx, renamed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := categories.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Development" {
		t.Errorf("Name = %q, want %q", got.Name, "Development")
	}

	if err := categories.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := categories.GetByID(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrNotFound", err)
	}
}
