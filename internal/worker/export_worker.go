// Package worker pushes finished imports out to the configured report sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"

	"workpulse/internal/amqp"
	"workpulse/internal/core"
	"workpulse/internal/ledger"
	"workpulse/internal/sheets"
)

// ExportWorker turns import-completed events into appended report rows, one
// row per day and category touched by the import.
type ExportWorker struct {
	activities ledger.ActivityRepository
	categories ledger.CategoryRepository
	writer     sheets.ReportWriter
}

func NewExportWorker(activities ledger.ActivityRepository, categories ledger.CategoryRepository, writer sheets.ReportWriter) *ExportWorker {
	return &ExportWorker{
		activities: activities,
		categories: categories,
		writer:     writer,
	}
}

// Run consumes deliveries until the context is cancelled or the channel
// closes. Failed messages are nacked back onto the queue.
func (w *ExportWorker) Run(ctx context.Context, deliveries <-chan amqp091.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}

			msg, err := amqp.ImportCompletedMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Discarding malformed export message", "error", err)
				_ = delivery.Nack(false, false)
				continue
			}

			if err := w.HandleImportCompleted(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to export report", "error", err)
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

// HandleImportCompleted exports every week overlapping the import's date
// span.
func (w *ExportWorker) HandleImportCompleted(ctx context.Context, msg *amqp.ImportCompletedMessage) error {
	slog.InfoContext(ctx, "Processing import completed message",
		"imported", msg.Imported,
		"from", msg.From,
		"to", msg.To)

	if msg.Imported == 0 {
		return nil
	}

	from, err := core.ParseDate(msg.From)
	if err != nil {
		return fmt.Errorf("parse span start: %w", err)
	}
	to, err := core.ParseDate(msg.To)
	if err != nil {
		return fmt.Errorf("parse span end: %w", err)
	}

	names := make(map[core.CategoryID]string)

	var rows []sheets.ReportRow
	for week := WeekStart(from); !week.After(to.Time); week = week.AddDays(7) {
		report, err := ledger.NewWeeklyReport(ctx, week, w.activities)
		if err != nil {
			return err
		}

		for _, day := range report.DailyDurationsPerCategory {
			for categoryID, duration := range day.Durations {
				name, err := w.categoryName(ctx, names, categoryID)
				if err != nil {
					return err
				}
				rows = append(rows, sheets.ReportRow{
					Date:     day.Date,
					Category: name,
					Duration: duration,
				})
			}
		}
	}

	if err := w.writer.AppendReportRows(ctx, rows); err != nil {
		return fmt.Errorf("append report rows: %w", err)
	}

	slog.InfoContext(ctx, "Report rows exported", "rows", len(rows))
	return nil
}

func (w *ExportWorker) categoryName(ctx context.Context, cache map[core.CategoryID]string, id core.CategoryID) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	category, err := w.categories.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve category name: %w", err)
	}
	cache[id] = category.Name
	return category.Name, nil
}

// WeekStart returns the Monday on or before d.
func WeekStart(d core.Date) core.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}
