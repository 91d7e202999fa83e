package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"workpulse/internal/core"
	"workpulse/internal/ledger"
)

const clockFormat = "15:04:05"

// activityJSON is the wire form of an activity. Durations are reported in
// seconds.
type activityJSON struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	StartTime  string  `json:"start_time"`
	EndTime    *string `json:"end_time,omitempty"`
	CategoryID string  `json:"category_id"`
	Task       string  `json:"task"`
	DurationS  int64   `json:"duration_seconds"`
}

func toActivityJSON(a core.Activity) activityJSON {
	out := activityJSON{
		ID:         a.ID.String(),
		Date:       a.Date.String(),
		StartTime:  a.StartTime.Format(clockFormat),
		CategoryID: a.CategoryID.String(),
		Task:       a.Task,
		DurationS:  int64(a.Duration() / time.Second),
	}
	if a.EndTime != nil {
		end := a.EndTime.Format(clockFormat)
		out.EndTime = &end
	}
	return out
}

type activityRequest struct {
	Date       string  `json:"date"`
	StartTime  string  `json:"start_time"`
	EndTime    *string `json:"end_time"`
	CategoryID string  `json:"category_id"`
	Task       string  `json:"task"`
}

func (req activityRequest) parse() (core.Date, time.Time, *time.Time, core.CategoryID, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Date{}, time.Time{}, nil, core.CategoryID{}, err
	}
	start, err := core.ParseClock(req.StartTime)
	if err != nil {
		return core.Date{}, time.Time{}, nil, core.CategoryID{}, err
	}
	var end *time.Time
	if req.EndTime != nil && *req.EndTime != "" {
		t, err := core.ParseClock(*req.EndTime)
		if err != nil {
			return core.Date{}, time.Time{}, nil, core.CategoryID{}, err
		}
		end = &t
	}
	categoryID, err := core.ParseCategoryID(req.CategoryID)
	if err != nil {
		return core.Date{}, time.Time{}, nil, core.CategoryID{}, err
	}
	return date, start, end, categoryID, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, badRequest(err))
		return
	}

	date, start, end, categoryID, err := req.parse()
	if err != nil {
		writeError(w, r, err)
		return
	}

	activity, err := s.ledger.Record(r.Context(), date, start, end, categoryID, req.Task)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.events != nil {
		if err := s.events.PublishActivityRecorded(r.Context(), activity.ID.String(), activity.Date.String()); err != nil {
			// The activity is recorded; a lost event is not a request failure.
			slog.ErrorContext(r.Context(), "Failed to publish activity recorded event",
				"id", activity.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, toActivityJSON(activity))
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		activities []core.Activity
		err        error
	)
	switch {
	case q.Get("date") != "":
		var date core.Date
		if date, err = core.ParseDate(q.Get("date")); err == nil {
			activities, err = s.ledger.ActivitiesByDate(r.Context(), date)
		}
	case q.Get("from") != "" || q.Get("to") != "":
		var from, to core.Date
		if from, err = core.ParseDate(q.Get("from")); err == nil {
			if to, err = core.ParseDate(q.Get("to")); err == nil {
				activities, err = s.ledger.ActivitiesByDateRange(r.Context(), from, to)
			}
		}
	default:
		activities, err = s.ledger.Activities(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]activityJSON, 0, len(activities))
	for _, a := range activities {
		out = append(out, toActivityJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseActivityID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	activity, err := s.ledger.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityJSON(activity))
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseActivityID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, badRequest(err))
		return
	}

	date, start, end, categoryID, err := req.parse()
	if err != nil {
		writeError(w, r, err)
		return
	}

	activity := core.ActivityWithID(id, date, start, end, categoryID, req.Task)
	if err := s.ledger.Update(r.Context(), activity); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityJSON(activity))
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseActivityID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.ledger.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	year := s.importYear
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, badRequest(err))
			return
		}
		year = parsed
	}

	mode, err := ledger.ParseReplaceMode(r.URL.Query().Get("replace"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.ledger.Import(r.Context(), s.importer, r.Body, year, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.events != nil && result.Imported > 0 {
		if err := s.events.PublishImportCompleted(r.Context(),
			result.Imported, result.Deleted, result.From.String(), result.To.String()); err != nil {
			slog.ErrorContext(r.Context(), "Failed to publish import completed event", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"imported": result.Imported,
		"deleted":  result.Deleted,
	})
}

type categoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, badRequest(err))
		return
	}

	category, err := s.categories.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryJSON{ID: category.ID.String(), Name: category.Name})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryJSON{ID: c.ID.String(), Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseCategoryID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, badRequest(err))
		return
	}

	category := core.CategoryWithID(id, req.Name)
	if err := s.categories.Update(r.Context(), category); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryJSON{ID: category.ID.String(), Name: category.Name})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseCategoryID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type dailyReportJSON struct {
	Date          string         `json:"date"`
	Activities    []activityJSON `json:"activities"`
	TotalDuration int64          `json:"total_duration_seconds"`
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := s.ledger.DailyReport(r.Context(), date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := dailyReportJSON{
		Date:          report.Date.String(),
		Activities:    make([]activityJSON, 0, len(report.Activities)),
		TotalDuration: int64(report.TotalDuration / time.Second),
	}
	for _, a := range report.Activities {
		out.Activities = append(out.Activities, toActivityJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

type weeklyReportJSON struct {
	WeekStart           string           `json:"week_start"`
	WeekEnd             string           `json:"week_end"`
	Activities          []activityJSON   `json:"activities"`
	TotalDuration       int64            `json:"total_duration_seconds"`
	DurationPerCategory map[string]int64 `json:"duration_per_category_seconds"`
	DailyDurations      []dayDurations   `json:"daily_durations_per_category"`
}

type dayDurations struct {
	Date      string           `json:"date"`
	Durations map[string]int64 `json:"durations_seconds"`
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	weekStart, err := core.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := s.ledger.WeeklyReport(r.Context(), weekStart)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := weeklyReportJSON{
		WeekStart:           report.WeekStart.String(),
		WeekEnd:             report.WeekEnd.String(),
		Activities:          make([]activityJSON, 0, len(report.Activities)),
		TotalDuration:       int64(report.TotalDuration / time.Second),
		DurationPerCategory: make(map[string]int64, len(report.DurationPerCategory)),
	}
	for _, a := range report.Activities {
		out.Activities = append(out.Activities, toActivityJSON(a))
	}
	for id, d := range report.DurationPerCategory {
		out.DurationPerCategory[id.String()] = int64(d / time.Second)
	}
	for _, day := range report.DailyDurationsPerCategory {
		durations := make(map[string]int64, len(day.Durations))
		for id, d := range day.Durations {
			durations[id.String()] = int64(d / time.Second)
		}
		out.DailyDurations = append(out.DailyDurations, dayDurations{
			Date:      day.Date.String(),
			Durations: durations,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// badRequest tags a decode failure so writeError maps it to 400.
func badRequest(err error) error {
	return errorWithStatus{status: http.StatusBadRequest, err: err}
}

type errorWithStatus struct {
	status int
	err    error
}

func (e errorWithStatus) Error() string { return e.err.Error() }
func (e errorWithStatus) Unwrap() error { return e.err }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var tagged errorWithStatus
	switch {
	case errors.As(err, &tagged):
		status = tagged.status
	case errors.Is(err, core.ErrInvalidID),
		errors.Is(err, core.ErrParse),
		errors.Is(err, core.ErrNoActivitiesToImport):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateName):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
