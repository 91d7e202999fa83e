// Package sheets defines the outbound port for report export.
package sheets

import (
	"context"
	"time"

	"workpulse/internal/core"
)

// ReportRow is one exported line: the duration booked on a category during a
// single day.
type ReportRow struct {
	Date     core.Date
	Category string
	Duration time.Duration
}

// ReportWriter appends report rows to an external sheet.
type ReportWriter interface {
	AppendReportRows(ctx context.Context, rows []ReportRow) error
}
