package ledger_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"workpulse/internal/core"
	"workpulse/internal/ledger"
	"workpulse/internal/storage/memory"
)

const csvHeader = "CW,Date,Check In,Check Out,PAM Category,Topic,Comment\n"

func newFixture() (*ledger.Ledger, *memory.ActivityRepository, *memory.CategoryRepository) {
	activities := memory.NewActivityRepository()
	categories := memory.NewCategoryRepository()
	return ledger.NewLedger(activities), activities, categories
}

func seedActivity(t *testing.T, repo *memory.ActivityRepository, date core.Date) core.Activity {
	t.Helper()
	start, err := core.ParseClock("09:00")
	if err != nil {
		t.Fatalf("parse clock: %v", err)
	}
	end := start.Add(time.Hour)
	activity := core.NewActivity(date, start, &end, core.NewCategoryID(), "seeded")
	if err := repo.Add(context.Background(), activity); err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return activity
}

func TestParseReplaceMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ledger.ReplaceMode
		wantErr bool
	}{
		{input: "", want: ledger.ReplaceNone},
		{input: "none", want: ledger.ReplaceNone},
		{input: "all", want: ledger.ReplaceAll},
		{input: "import-date-range", want: ledger.ReplaceImportDateRange},
		{input: "everything", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ledger.ParseReplaceMode(tt.input)
		if tt.wantErr {
			if !errors.Is(err, core.ErrParse) {
				t.Errorf("ParseReplaceMode(%q) error = %v, want ErrParse", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseReplaceMode(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseReplaceMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCSVImporter_Import(t *testing.T) {
	ctx := context.Background()
	categories := memory.NewCategoryRepository()
	importer := ledger.NewCSVImporter(categories, nil)

	csv := csvHeader +
		"40,02.10.,09:00,12:30,Development,Implement parser,\n" +
		"40,02.10.,13:00,,Meetings,Weekly sync,ran long\n"

	batch, err := importer.Import(ctx, strings.NewReader(csv), 2023)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("Import returned %d activities, want 2", len(batch))
	}

	first := batch[0]
	if !first.Date.Equal(core.NewDate(2023, 10, 2).Time) {
		t.Errorf("date = %s, want 2023-10-02", first.Date)
	}
	if got := first.Duration(); got != 3*time.Hour+30*time.Minute {
		t.Errorf("duration = %v, want 3h30m", got)
	}
	if first.Task != "Implement parser" {
		t.Errorf("task = %q, want %q", first.Task, "Implement parser")
	}

	if batch[1].EndTime != nil {
		t.Error("second activity should be open-ended")
	}

	// Both rows resolved their categories through get-or-create.
	all, err := categories.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("created %d categories, want 2", len(all))
	}
}

func TestCSVImporter_Import_Aliases(t *testing.T) {
	ctx := context.Background()
	categories := memory.NewCategoryRepository()
	importer := ledger.NewCSVImporter(categories, map[string]string{"Dev": "Development"})

	csv := csvHeader +
		"40,02.10.,09:00,10:00,Dev,a,\n" +
		"40,03.10.,09:00,10:00,Development,b,\n"

	batch, err := importer.Import(ctx, strings.NewReader(csv), 2023)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if batch[0].CategoryID != batch[1].CategoryID {
		t.Error("aliased and canonical labels resolved to different categories")
	}

	all, err := categories.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || all[0].Name != "Development" {
		t.Errorf("categories = %+v, want a single Development entry", all)
	}
}

func TestCSVImporter_Import_MalformedRowFailsBatch(t *testing.T) {
	ctx := context.Background()
	importer := ledger.NewCSVImporter(memory.NewCategoryRepository(), nil)

	csv := csvHeader +
		"40,02.10.,09:00,10:00,Development,ok,\n" +
		"40,31.02.,09:00,10:00,Development,bad date,\n"

	batch, err := importer.Import(ctx, strings.NewReader(csv), 2023)
	if !errors.Is(err, core.ErrParse) {
		t.Errorf("Import error = %v, want ErrParse", err)
	}
	if batch != nil {
		t.Errorf("Import returned %d activities alongside the error", len(batch))
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error %q does not name the offending row", err)
	}
}

func TestCSVImporter_Import_MissingColumn(t *testing.T) {
	ctx := context.Background()
	importer := ledger.NewCSVImporter(memory.NewCategoryRepository(), nil)

	csv := "CW,Date,Check In,Check Out,Topic,Comment\n"

	_, err := importer.Import(ctx, strings.NewReader(csv), 2023)
	if !errors.Is(err, core.ErrParse) {
		t.Errorf("Import error = %v, want ErrParse", err)
	}
}

func TestCSVImporter_Import_EmptyInput(t *testing.T) {
	importer := ledger.NewCSVImporter(memory.NewCategoryRepository(), nil)

	batch, err := importer.Import(context.Background(), strings.NewReader(""), 2023)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(batch) != 0 {
		t.Errorf("Import returned %d activities, want 0", len(batch))
	}
}

func TestLedger_Import_ReplaceNone(t *testing.T) {
	ctx := context.Background()
	l, activities, categories := newFixture()
	seedActivity(t, activities, core.NewDate(2023, 9, 30))

	csv := csvHeader + "40,01.10.,09:00,10:00,Development,a,\n"

	result, err := l.Import(ctx, ledger.NewCSVImporter(categories, nil), strings.NewReader(csv), 2023, ledger.ReplaceNone)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 1 || result.Deleted != 0 {
		t.Errorf("result = %+v, want 1 imported, 0 deleted", result)
	}

	all, err := activities.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ledger holds %d activities, want 2", len(all))
	}
}

func TestLedger_Import_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	l, activities, categories := newFixture()
	seedActivity(t, activities, core.NewDate(2023, 9, 30))
	seedActivity(t, activities, core.NewDate(2023, 10, 10))

	csv := csvHeader + "40,01.10.,09:00,10:00,Development,a,\n"

	result, err := l.Import(ctx, ledger.NewCSVImporter(categories, nil), strings.NewReader(csv), 2023, ledger.ReplaceAll)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 1 || result.Deleted != 2 {
		t.Errorf("result = %+v, want 1 imported, 2 deleted", result)
	}

	all, err := activities.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ledger holds %d activities, want 1", len(all))
	}
}

func TestLedger_Import_ReplaceImportDateRange(t *testing.T) {
	ctx := context.Background()
	l, activities, categories := newFixture()

	// Entry outside the imported span survives; the one inside is replaced.
	kept := seedActivity(t, activities, core.NewDate(2023, 9, 30))
	seedActivity(t, activities, core.NewDate(2023, 10, 10))

	csv := csvHeader +
		"40,01.10.,09:00,10:00,Development,a,\n" +
		"42,15.10.,09:00,10:00,Development,b,\n"

	result, err := l.Import(ctx, ledger.NewCSVImporter(categories, nil), strings.NewReader(csv), 2023, ledger.ReplaceImportDateRange)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 2 || result.Deleted != 1 {
		t.Errorf("result = %+v, want 2 imported, 1 deleted", result)
	}
	if result.From.String() != "2023-10-01" || result.To.String() != "2023-10-15" {
		t.Errorf("span = %s..%s, want 2023-10-01..2023-10-15", result.From, result.To)
	}

	all, err := activities.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ledger holds %d activities, want 3", len(all))
	}
	if _, err := activities.GetByID(ctx, kept.ID); err != nil {
		t.Errorf("activity outside the span was deleted: %v", err)
	}
}

func TestLedger_Import_EmptyBatchWithDateRange(t *testing.T) {
	ctx := context.Background()
	l, activities, categories := newFixture()
	seedActivity(t, activities, core.NewDate(2023, 9, 30))

	_, err := l.Import(ctx, ledger.NewCSVImporter(categories, nil), strings.NewReader(csvHeader), 2023, ledger.ReplaceImportDateRange)
	if !errors.Is(err, core.ErrNoActivitiesToImport) {
		t.Errorf("Import error = %v, want ErrNoActivitiesToImport", err)
	}

	all, err := activities.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ledger holds %d activities, want the seeded entry untouched", len(all))
	}
}

func TestLedger_Import_ParseFailureLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	l, activities, categories := newFixture()
	seedActivity(t, activities, core.NewDate(2023, 9, 30))

	csv := csvHeader + "40,31.02.,09:00,10:00,Development,bad,\n"

	_, err := l.Import(ctx, ledger.NewCSVImporter(categories, nil), strings.NewReader(csv), 2023, ledger.ReplaceAll)
	if !errors.Is(err, core.ErrParse) {
		t.Errorf("Import error = %v, want ErrParse", err)
	}

	all, err := activities.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ledger holds %d activities, want 1 (nothing deleted on parse failure)", len(all))
	}
}
