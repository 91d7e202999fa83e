// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"

	"workpulse/internal/ledger"
)

// EventPublisher is the optional outbound event hook. A nil publisher
// disables events without touching the request path.
type EventPublisher interface {
	PublishActivityRecorded(ctx context.Context, id, date string) error
	PublishImportCompleted(ctx context.Context, imported, deleted int, from, to string) error
}

type Server struct {
	http.Server

	ledger     *ledger.Ledger
	categories *ledger.Categories
	importer   *ledger.CSVImporter
	events     EventPublisher
	importYear int
}

// NewServer wires the API routes over the given use cases. events may be nil.
func NewServer(addr string, l *ledger.Ledger, c *ledger.Categories, importer *ledger.CSVImporter, events EventPublisher, importYear int) *Server {
	s := &Server{
		Server:     http.Server{Addr: addr},
		ledger:     l,
		categories: c,
		importer:   importer,
		events:     events,
		importYear: importYear,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /activities", s.handleRecordActivity)
	mux.HandleFunc("GET /activities", s.handleListActivities)
	mux.HandleFunc("GET /activities/{id}", s.handleGetActivity)
	mux.HandleFunc("PUT /activities/{id}", s.handleUpdateActivity)
	mux.HandleFunc("DELETE /activities/{id}", s.handleDeleteActivity)
	mux.HandleFunc("PUT /activities/import-csv", s.handleImportCSV)

	mux.HandleFunc("POST /categories", s.handleCreateCategory)
	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("PUT /categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /reports/daily", s.handleDailyReport)
	mux.HandleFunc("GET /reports/weekly", s.handleWeeklyReport)

	s.Handler = mux
	return s
}
