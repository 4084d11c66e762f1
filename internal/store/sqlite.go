package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"airquality-dashboard/internal/dataset"
)

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/delete-readings.sql
var deleteReadingsSQL string

//go:embed sql/get-readings.sql
var getReadingsSQL string

//go:embed sql/get-bounds.sql
var getBoundsSQL string

//go:embed sql/get-readings-count.sql
var getReadingsCountSQL string

// tsLayout is fixed-width UTC so that text order equals time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore serves the dataset from the readings table. The schema is
// expected to be migrated before use.
type SQLiteStore struct {
	db  *sql.DB
	loc *time.Location
}

// NewSQLiteStore returns a store over db. Timestamps read back are
// converted to loc so that calendar days match the loaded file.
func NewSQLiteStore(db *sql.DB, loc *time.Location) *SQLiteStore {
	if loc == nil {
		loc = time.UTC
	}
	return &SQLiteStore{db: db, loc: loc}
}

// Load replaces the table contents with readings in a single transaction.
func (s *SQLiteStore) Load(ctx context.Context, readings []dataset.Reading) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("rollback load", "error", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteReadingsSQL); err != nil {
		return fmt.Errorf("clear readings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertReadingSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			slog.Error("close insert statement", "error", closeErr)
		}
	}()

	for _, r := range readings {
		if _, err = stmt.ExecContext(ctx, formatTS(r.Time), nullable(r.PM25), nullable(r.WindSpeed)); err != nil {
			return fmt.Errorf("insert reading at %s: %w", r.Time.Format(time.RFC3339), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Bounds(ctx context.Context) (dataset.DateRange, error) {
	var lo, hi sql.NullString
	if err := s.db.QueryRowContext(ctx, getBoundsSQL).Scan(&lo, &hi); err != nil {
		return dataset.DateRange{}, fmt.Errorf("query bounds: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return dataset.DateRange{}, ErrEmpty
	}
	start, err := s.parseTS(lo.String)
	if err != nil {
		return dataset.DateRange{}, err
	}
	end, err := s.parseTS(hi.String)
	if err != nil {
		return dataset.DateRange{}, err
	}
	return dataset.NewDateRange(start, end), nil
}

func (s *SQLiteStore) Range(ctx context.Context, r dataset.DateRange) ([]dataset.Reading, error) {
	if r.Empty() {
		return []dataset.Reading{}, nil
	}
	from := formatTS(r.Start)
	to := formatTS(r.End.AddDate(0, 0, 1))

	rows, err := s.db.QueryContext(ctx, getReadingsSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close readings rows", "error", err)
		}
	}()

	out := make([]dataset.Reading, 0)
	for rows.Next() {
		var (
			ts       string
			pm, wind sql.NullFloat64
		)
		if err := rows.Scan(&ts, &pm, &wind); err != nil {
			return nil, err
		}
		t, err := s.parseTS(ts)
		if err != nil {
			return nil, err
		}
		out = append(out, dataset.Reading{Time: t, PM25: fromNull(pm), WindSpeed: fromNull(wind)})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, getReadingsCountSQL).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	var ok int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&ok); err != nil {
		return fmt.Errorf("sqlite ping: %w", err)
	}
	return nil
}

func (s *SQLiteStore) parseTS(v string) (time.Time, error) {
	t, err := time.Parse(tsLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", v, err)
	}
	return t.In(s.loc), nil
}

func formatTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
