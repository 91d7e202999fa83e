// Package postgres implements the repository ports over PostgreSQL using a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workpulse/internal/core"
	"workpulse/internal/ledger"
)

// insertChunkSize bounds the rows queued per pgx batch during imports.
const insertChunkSize = 100

const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS activities (
    id UUID PRIMARY KEY,
    date DATE NOT NULL,
    start_time TIME NOT NULL,
    end_time TIME,
    category_id UUID NOT NULL REFERENCES categories(id),
    task TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date);
`

// Store owns the pool shared by both repositories. Writer serialization is
// delegated to the database: every mutation runs in its own statement or
// transaction and get-or-create relies on the unique name constraint.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to url and ensures the schema exists.
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Activities returns the activity repository view of the store.
func (s *Store) Activities() *ActivityRepository {
	return &ActivityRepository{pool: s.pool}
}

// Categories returns the category repository view of the store.
func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{pool: s.pool}
}

// ActivityRepository persists activities in the activities table.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

var _ ledger.ActivityRepository = (*ActivityRepository)(nil)

const selectActivity = `SELECT id, date, start_time, end_time, category_id, task FROM activities`

func (r *ActivityRepository) GetAll(ctx context.Context) ([]core.Activity, error) {
	return r.query(ctx, selectActivity)
}

func (r *ActivityRepository) GetByID(ctx context.Context, id core.ActivityID) (core.Activity, error) {
	activities, err := r.query(ctx, selectActivity+` WHERE id = $1`, id.String())
	if err != nil {
		return core.Activity{}, err
	}
	if len(activities) == 0 {
		return core.Activity{}, fmt.Errorf("%w: activity %s", core.ErrNotFound, id)
	}
	return activities[0], nil
}

func (r *ActivityRepository) GetByDate(ctx context.Context, date core.Date) ([]core.Activity, error) {
	return r.query(ctx, selectActivity+` WHERE date = $1`, date.Time)
}

func (r *ActivityRepository) GetByDateRange(ctx context.Context, start, end core.Date) ([]core.Activity, error) {
	return r.query(ctx, selectActivity+` WHERE date BETWEEN $1 AND $2`, start.Time, end.Time)
}

func (r *ActivityRepository) query(ctx context.Context, q string, args ...any) ([]core.Activity, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var activities []core.Activity
	for rows.Next() {
		var (
			idStr, categoryStr, task string
			date, start              time.Time
			end                      *time.Time
		)
		if err := rows.Scan(&idStr, &date, &start, &end, &categoryStr, &task); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}

		id, err := core.ParseActivityID(idStr)
		if err != nil {
			return nil, err
		}
		categoryID, err := core.ParseCategoryID(categoryStr)
		if err != nil {
			return nil, err
		}

		activities = append(activities, core.ActivityWithID(
			id,
			core.NewDate(date.Year(), int(date.Month()), date.Day()),
			start,
			end,
			categoryID,
			task,
		))
	}
	return activities, rows.Err()
}

const insertActivity = `INSERT INTO activities (id, date, start_time, end_time, category_id, task) VALUES ($1, $2, $3, $4, $5, $6)`

func activityArgs(a core.Activity) []any {
	return []any{a.ID.String(), a.Date.Time, a.StartTime, a.EndTime, a.CategoryID.String(), a.Task}
}

func (r *ActivityRepository) Add(ctx context.Context, activity core.Activity) error {
	if _, err := r.pool.Exec(ctx, insertActivity, activityArgs(activity)...); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// AddMany queues the inserts in pgx batches of insertChunkSize rows, all
// inside one transaction.
func (r *ActivityRepository) AddMany(ctx context.Context, activities []core.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback(ctx)

	for start := 0; start < len(activities); start += insertChunkSize {
		chunk := activities[start:min(start+insertChunkSize, len(activities))]

		batch := &pgx.Batch{}
		for _, a := range chunk {
			batch.Queue(insertActivity, activityArgs(a)...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert activity batch: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *ActivityRepository) Update(ctx context.Context, activity core.Activity) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE activities SET date = $1, start_time = $2, end_time = $3, category_id = $4, task = $5 WHERE id = $6`,
		activity.Date.Time, activity.StartTime, activity.EndTime, activity.CategoryID.String(), activity.Task, activity.ID.String())
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: activity %s", core.ErrNotFound, activity.ID)
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id core.ActivityID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: activity %s", core.ErrNotFound, id)
	}
	return nil
}

func (r *ActivityRepository) DeleteByDateRange(ctx context.Context, start, end core.Date) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE date BETWEEN $1 AND $2`, start.Time, end.Time)
	if err != nil {
		return 0, fmt.Errorf("delete activities by date range: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *ActivityRepository) DeleteAll(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities`)
	if err != nil {
		return 0, fmt.Errorf("delete all activities: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// CategoryRepository persists categories in the categories table.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

var _ ledger.CategoryRepository = (*CategoryRepository)(nil)

func (r *CategoryRepository) GetAll(ctx context.Context) ([]core.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories`)
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
	err := r.pool.QueryRow(ctx, `SELECT name FROM categories WHERE id = $1`, id.String()).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Category{}, fmt.Errorf("%w: category %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("query category: %w", err)
	}
	return core.CategoryWithID(id, name), nil
}

func (r *CategoryRepository) Add(ctx context.Context, category core.Category) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2)`, category.ID.String(), category.Name); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category core.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`, category.Name, category.ID.String())
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", core.ErrNotFound, category.ID)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id core.CategoryID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", core.ErrNotFound, id)
	}
	return nil
}

// GetOrCreateByName leans on the unique name constraint: the upsert is a
// single atomic statement, so concurrent callers converge on one row.
func (r *CategoryRepository) GetOrCreateByName(ctx context.Context, name string) (core.Category, error) {
	candidate := core.NewCategory(name)

	var idStr string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2)
         ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
         RETURNING id`,
		candidate.ID.String(), name).Scan(&idStr)
	if err != nil {
		return core.Category{}, fmt.Errorf("get or create category: %w", err)
	}

	id, err := core.ParseCategoryID(idStr)
	if err != nil {
		return core.Category{}, err
	}
	return core.CategoryWithID(id, name), nil
}
