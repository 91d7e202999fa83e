// Package sqlite implements the repository ports over a SQLite database
// using the pure-Go modernc driver. The schema is managed with embedded
// golang-migrate migrations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"workpulse/internal/core"
	"workpulse/internal/ledger"

	_ "modernc.org/sqlite"
)

const (
	dateFormat  = "2006-01-02"
	clockFormat = "15:04:05"

	// insertChunkSize bounds the rows per multi-row INSERT during imports.
	insertChunkSize = 100
)

// Store owns the database handle shared by both repositories. The mutex
// serializes mutating statements so a delete-then-insert sequence or a
// get-or-create cannot interleave with another writer on this instance.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Activities returns the activity repository view of the store.
func (s *Store) Activities() *ActivityRepository {
	return &ActivityRepository{store: s}
}

// Categories returns the category repository view of the store.
func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{store: s}
}

// ActivityRepository persists activities in the activities table.
type ActivityRepository struct {
	store *Store
}

var _ ledger.ActivityRepository = (*ActivityRepository)(nil)

const selectActivity = `SELECT id, date, start_time, end_time, category_id, task FROM activities`

func (r *ActivityRepository) GetAll(ctx context.Context) ([]core.Activity, error) {
	return r.query(ctx, selectActivity)
}

func (r *ActivityRepository) GetByID(ctx context.Context, id core.ActivityID) (core.Activity, error) {
	activities, err := r.query(ctx, selectActivity+` WHERE id = ?`, id.String())
	if err != nil {
		return core.Activity{}, err
	}
	if len(activities) == 0 {
		return core.Activity{}, fmt.Errorf("%w: activity %s", core.ErrNotFound, id)
	}
	return activities[0], nil
}

func (r *ActivityRepository) GetByDate(ctx context.Context, date core.Date) ([]core.Activity, error) {
	return r.query(ctx, selectActivity+` WHERE date = ?`, date.String())
}

func (r *ActivityRepository) GetByDateRange(ctx context.Context, start, end core.Date) ([]core.Activity, error) {
	return r.query(ctx, selectActivity+` WHERE date BETWEEN ? AND ?`, start.String(), end.String())
}

func (r *ActivityRepository) query(ctx context.Context, q string, args ...any) ([]core.Activity, error) {
	rows, err := r.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var activities []core.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func scanActivity(rows *sql.Rows) (core.Activity, error) {
	var (
		idStr, dateStr, startStr, categoryStr, task string
		endStr                                      sql.NullString
	)
	if err := rows.Scan(&idStr, &dateStr, &startStr, &endStr, &categoryStr, &task); err != nil {
		return core.Activity{}, fmt.Errorf("scan activity: %w", err)
	}

	id, err := core.ParseActivityID(idStr)
	if err != nil {
		return core.Activity{}, err
	}
	categoryID, err := core.ParseCategoryID(categoryStr)
	if err != nil {
		return core.Activity{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Activity{}, err
	}
	start, err := core.ParseClock(startStr)
	if err != nil {
		return core.Activity{}, err
	}

	activity := core.ActivityWithID(id, date, start, nil, categoryID, task)
	if endStr.Valid {
		end, err := core.ParseClock(endStr.String)
		if err != nil {
			return core.Activity{}, err
		}
		activity.EndTime = &end
	}
	return activity, nil
}

func activityArgs(a core.Activity) []any {
	var end any
	if a.EndTime != nil {
		end = a.EndTime.Format(clockFormat)
	}
	return []any{
		a.ID.String(),
		a.Date.String(),
		a.StartTime.Format(clockFormat),
		end,
		a.CategoryID.String(),
		a.Task,
	}
}

func (r *ActivityRepository) Add(ctx context.Context, activity core.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO activities (id, date, start_time, end_time, category_id, task) VALUES (?, ?, ?, ?, ?, ?)`,
		activityArgs(activity)...)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// AddMany inserts the batch in chunks of multi-row statements inside a
// single transaction.
func (r *ActivityRepository) AddMany(ctx context.Context, activities []core.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(activities); start += insertChunkSize {
		chunk := activities[start:min(start+insertChunkSize, len(activities))]

		var (
			sb   strings.Builder
			args []any
		)
		sb.WriteString(`INSERT INTO activities (id, date, start_time, end_time, category_id, task) VALUES `)
		for i, a := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?, ?, ?)")
			args = append(args, activityArgs(a)...)
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("insert activity batch: %w", err)
		}
	}

	return tx.Commit()
}

func (r *ActivityRepository) Update(ctx context.Context, activity core.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	args := activityArgs(activity)
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE activities SET date = ?, start_time = ?, end_time = ?, category_id = ?, task = ? WHERE id = ?`,
		args[1], args[2], args[3], args[4], args[5], args[0])
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return requireRow(res, "activity", activity.ID.String())
}

func (r *ActivityRepository) Delete(ctx context.Context, id core.ActivityID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res, err := r.store.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return requireRow(res, "activity", id.String())
}

func (r *ActivityRepository) DeleteByDateRange(ctx context.Context, start, end core.Date) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res, err := r.store.db.ExecContext(ctx,
		`DELETE FROM activities WHERE date BETWEEN ? AND ?`, start.String(), end.String())
	if err != nil {
		return 0, fmt.Errorf("delete activities by date range: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *ActivityRepository) DeleteAll(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res, err := r.store.db.ExecContext(ctx, `DELETE FROM activities`)
	if err != nil {
		return 0, fmt.Errorf("delete all activities: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CategoryRepository persists categories in the categories table.
type CategoryRepository struct {
	store *Store
}

var _ ledger.CategoryRepository = (*CategoryRepository)(nil)

func (r *CategoryRepository) GetAll(ctx context.Context) ([]core.Category, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT id, name FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var idStr, name string
		if err := rows.Scan(&idStr, &name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		id, err := core.ParseCategoryID(idStr)
		if err != nil {
			return nil, err
		}
		categories = append(categories, core.CategoryWithID(id, name))
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id core.CategoryID) (core.Category, error) {
	var name string
	err := r.store.db.QueryRowContext(ctx,
		`SELECT name FROM categories WHERE id = ?`, id.String()).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("%w: category %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("query category: %w", err)
	}
	return core.CategoryWithID(id, name), nil
}

func (r *CategoryRepository) Add(ctx context.Context, category core.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES (?, ?)`, category.ID.String(), category.Name)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category core.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res, err := r.store.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, category.Name, category.ID.String())
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, "category", category.ID.String())
}

func (r *CategoryRepository) Delete(ctx context.Context, id core.CategoryID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res, err := r.store.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "category", id.String())
}

// GetOrCreateByName runs the check and the insert under the store's writer
// lock and a transaction, so concurrent calls never create duplicate names.
func (r *CategoryRepository) GetOrCreateByName(ctx context.Context, name string) (core.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Category{}, fmt.Errorf("begin get-or-create: %w", err)
	}
	defer tx.Rollback()

	var idStr string
	err = tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, name).Scan(&idStr)
	switch {
	case err == nil:
		id, err := core.ParseCategoryID(idStr)
		if err != nil {
			return core.Category{}, err
		}
		return core.CategoryWithID(id, name), tx.Commit()
	case errors.Is(err, sql.ErrNoRows):
		category := core.NewCategory(name)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name) VALUES (?, ?)`, category.ID.String(), category.Name); err != nil {
			return core.Category{}, fmt.Errorf("insert category: %w", err)
		}
		return category, tx.Commit()
	default:
		return core.Category{}, fmt.Errorf("query category by name: %w", err)
	}
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", core.ErrNotFound, kind, id)
	}
	return nil
}
