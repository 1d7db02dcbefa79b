// Package readings persists timestamped pool temperatures in SQLite and
// answers per-pool queries over all time or the current local day.
package readings

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"pooltemps/internal/migrate"
)

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/get-readings.sql
var getReadingsSQL string

//go:embed sql/get-readings-since.sql
var getReadingsSinceSQL string

// legacyLayout is SQLite's CURRENT_TIMESTAMP text, used by older databases.
const legacyLayout = "2006-01-02 15:04:05"

// queryLayout matches strftime('%Y-%m-%dT%H:%M:%fZ') so bounds compare as text.
const queryLayout = "2006-01-02T15:04:05.000Z"

// Scope selects which rows Query returns.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeToday
)

func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeToday:
		return "today"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ParseScope accepts "all" and "today"; empty means today.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return ScopeToday, nil
	case "all":
		return ScopeAll, nil
	default:
		return ScopeToday, fmt.Errorf("invalid scope %q (allowed: today, all)", s)
	}
}

// Point is one stored reading.
type Point struct {
	ID          int64     `json:"id"`
	Time        time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
}

type Store interface {
	EnsureSchema(ctx context.Context) error
	Append(ctx context.Context, pool string, temperature float64) error
	Query(ctx context.Context, pool string, scope Scope) ([]Point, error)
}

type Option func(*sqliteStore)

// WithClock replaces time.Now as the source of "now" for ScopeToday.
func WithClock(now func() time.Time) Option {
	return func(s *sqliteStore) { s.now = now }
}

type sqliteStore struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// NewStore returns a Store backed by db. loc is the local zone whose
// midnight starts the day window; nil means UTC.
func NewStore(db *sql.DB, loc *time.Location, opts ...Option) Store {
	if loc == nil {
		loc = time.UTC
	}
	s := &sqliteStore{db: db, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sqliteStore) EnsureSchema(ctx context.Context) error {
	if _, err := migrate.Run(ctx, s.db); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaCreation, err)
	}
	return nil
}

func (s *sqliteStore) Append(ctx context.Context, pool string, temperature float64) error {
	if strings.TrimSpace(pool) == "" {
		return &StorageError{Op: "append", Pool: pool, Err: fmt.Errorf("%w: empty pool name", ErrInvalidReading)}
	}
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return &StorageError{Op: "append", Pool: pool, Err: fmt.Errorf("%w: temperature %v is not finite", ErrInvalidReading, temperature)}
	}
	if _, err := s.db.ExecContext(ctx, insertReadingSQL, pool, temperature); err != nil {
		return &StorageError{Op: "append", Pool: pool, Err: err}
	}
	return nil
}

func (s *sqliteStore) Query(ctx context.Context, pool string, scope Scope) ([]Point, error) {
	var (
		rows *sql.Rows
		err  error
	)
	switch scope {
	case ScopeAll:
		rows, err = s.db.QueryContext(ctx, getReadingsSQL, pool)
	case ScopeToday:
		start := StartOfDay(s.now(), s.loc)
		rows, err = s.db.QueryContext(ctx, getReadingsSinceSQL, pool, start.Format(queryLayout))
	default:
		return nil, fmt.Errorf("query %q: unknown scope %v", pool, scope)
	}
	if err != nil {
		return nil, &StorageError{Op: "query", Pool: pool, Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close readings rows", "error", err)
		}
	}()

	points, err := scanPoints(rows)
	if err != nil {
		return nil, &StorageError{Op: "query", Pool: pool, Err: err}
	}
	return points, nil
}

func scanPoints(rows *sql.Rows) ([]Point, error) {
	out := []Point{}
	for rows.Next() {
		var (
			p  Point
			ts sql.NullString
		)
		if err := rows.Scan(&p.ID, &ts, &p.Temperature); err != nil {
			return nil, err
		}
		if !ts.Valid {
			return nil, fmt.Errorf("reading %d has an unreadable timestamp", p.ID)
		}
		t, err := parseTimestamp(ts.String)
		if err != nil {
			return nil, err
		}
		p.Time = t
		out = append(out, p)
	}
	return out, rows.Err()
}

func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err == nil {
		return t.UTC(), nil
	}
	t, err2 := time.ParseInLocation(legacyLayout, ts, time.UTC)
	if err2 != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: RFC3339Nano: %w; legacy: %w", ts, err, err2)
	}
	return t, nil
}

// StartOfDay returns local midnight of now's calendar day in loc, as UTC.
// On DST transition days the UTC offset of midnight itself is used, so the
// window is 23 or 25 hours long.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}
