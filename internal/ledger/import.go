package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"workpulse/internal/core"
)

// ReplaceMode decides what happens to existing ledger entries before an
// import batch is inserted.
type ReplaceMode string

const (
	// ReplaceNone appends the batch without touching existing entries.
	ReplaceNone ReplaceMode = "none"

	// ReplaceAll deletes every existing activity first.
	ReplaceAll ReplaceMode = "all"

	// ReplaceImportDateRange deletes only the activities dated within the
	// [min, max] date span of the imported batch.
	ReplaceImportDateRange ReplaceMode = "import-date-range"
)

// ParseReplaceMode maps the textual form ("none", "all", "import-date-range")
// to a ReplaceMode. The empty string means ReplaceNone.
func ParseReplaceMode(s string) (ReplaceMode, error) {
	switch ReplaceMode(s) {
	case ReplaceNone, ReplaceAll, ReplaceImportDateRange:
		return ReplaceMode(s), nil
	case "":
		return ReplaceNone, nil
	default:
		return "", fmt.Errorf("%w: unknown replace mode %q", core.ErrParse, s)
	}
}

// Expected CSV header columns. Comment is read but ignored.
const (
	colWeek     = "CW"
	colDate     = "Date"
	colCheckIn  = "Check In"
	colCheckOut = "Check Out"
	colCategory = "PAM Category"
	colTopic    = "Topic"
)

// CSVImporter turns external CSV rows into activities, resolving category
// labels to stable identifiers via get-or-create. Aliases is an explicit
// configuration mapping of raw labels to canonical category names; labels
// without an alias are used as-is.
type CSVImporter struct {
	categories CategoryRepository
	aliases    map[string]string
}

// NewCSVImporter creates an importer over the given category repository.
func NewCSVImporter(categories CategoryRepository, aliases map[string]string) *CSVImporter {
	return &CSVImporter{categories: categories, aliases: aliases}
}

// Import parses every row of r, composing each date cell ("dd.mm.") with the
// supplied year. Any malformed row fails the whole batch with a
// core.ErrParse-wrapped error and no activities are returned. Resolving
// category names mutates shared category state even when a later row fails.
func (i *CSVImporter) Import(ctx context.Context, r io.Reader, year int) ([]core.Activity, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", core.ErrParse, err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var activities []core.Activity
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", core.ErrParse, row, err)
		}

		activity, err := i.parseRow(ctx, columns, record, year)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		activities = append(activities, activity)
	}

	return activities, nil
}

func (i *CSVImporter) parseRow(ctx context.Context, columns map[string]int, record []string, year int) (core.Activity, error) {
	date, err := core.ParseDayMonth(record[columns[colDate]], year)
	if err != nil {
		return core.Activity{}, err
	}

	start, err := core.ParseClock(record[columns[colCheckIn]])
	if err != nil {
		return core.Activity{}, err
	}

	var end *time.Time
	if out := record[columns[colCheckOut]]; out != "" {
		t, err := core.ParseClock(out)
		if err != nil {
			return core.Activity{}, err
		}
		end = &t
	}

	name := record[columns[colCategory]]
	if canonical, ok := i.aliases[name]; ok {
		name = canonical
	}
	category, err := i.categories.GetOrCreateByName(ctx, name)
	if err != nil {
		return core.Activity{}, fmt.Errorf("resolve category %q: %w", name, err)
	}

	return core.NewActivity(date, start, end, category.ID, record[columns[colTopic]]), nil
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[name] = idx
	}
	for _, required := range []string{colWeek, colDate, colCheckIn, colCheckOut, colCategory, colTopic} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", core.ErrParse, required)
		}
	}
	return columns, nil
}

// ImportResult reports what an import did to the ledger.
type ImportResult struct {
	Imported int
	Deleted  int

	// From and To span the dates of the imported batch; both are zero when
	// the batch was empty.
	From core.Date
	To   core.Date
}

// Import runs the full import pipeline: parse and reconcile the whole batch,
// apply the replace mode, then insert. Parsing is all-or-nothing; repository
// operations already issued are not rolled back if a later one fails.
func (l *Ledger) Import(ctx context.Context, importer *CSVImporter, r io.Reader, year int, mode ReplaceMode) (ImportResult, error) {
	batch, err := importer.Import(ctx, r, year)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Imported: len(batch)}
	if len(batch) > 0 {
		result.From, result.To = batchDateSpan(batch)
	}

	switch mode {
	case ReplaceNone:
	case ReplaceAll:
		deleted, err := l.activities.DeleteAll(ctx)
		if err != nil {
			return result, fmt.Errorf("replace all: %w", err)
		}
		result.Deleted = deleted
	case ReplaceImportDateRange:
		if len(batch) == 0 {
			return result, core.ErrNoActivitiesToImport
		}
		deleted, err := l.activities.DeleteByDateRange(ctx, result.From, result.To)
		if err != nil {
			return result, fmt.Errorf("replace date range %s..%s: %w", result.From, result.To, err)
		}
		result.Deleted = deleted
	default:
		return result, fmt.Errorf("%w: unknown replace mode %q", core.ErrParse, mode)
	}

	if err := l.activities.AddMany(ctx, batch); err != nil {
		return result, fmt.Errorf("insert imported activities: %w", err)
	}

	slog.InfoContext(ctx, "Import completed",
		"imported", result.Imported,
		"deleted", result.Deleted,
		"mode", mode)

	return result, nil
}

func batchDateSpan(batch []core.Activity) (core.Date, core.Date) {
	min, max := batch[0].Date, batch[0].Date
	for _, a := range batch[1:] {
		if a.Date.Before(min.Time) {
			min = a.Date
		}
		if a.Date.After(max.Time) {
			max = a.Date
		}
	}
	return min, max
}
