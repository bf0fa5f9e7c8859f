package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/spacephys/driftframe/internal/monitoring"
	"github.com/spacephys/driftframe/internal/timeutil"
)

// ErrRunNotFound is returned when a run id has no stored record.
var ErrRunNotFound = errors.New("run not found")

// Store persists rotation runs in SQLite.
type Store struct {
	*sql.DB
	clock timeutil.Clock
}

// RunRecord describes one rotation run. Samples is only populated on save.
type RunRecord struct {
	RunID        string
	Source       string
	WindowStart  time.Time
	WindowEnd    time.Time
	SampleCount  int
	InvalidCount int
	CreatedAt    time.Time
	Samples      []SampleRow
}

// SampleRow is one rotated sample. NaN values are stored as NULL and read
// back as NaN.
type SampleRow struct {
	Index           int
	Time            time.Time
	Lat             float64
	Lon             float64
	AltKm           float64
	East            float64
	North           float64
	Up              float64
	HorizontalSpeed float64
	Status          string
}

// Open opens (creating if needed) the database at path, applies pragmas and
// runs pending migrations.
func Open(path string) (*Store, error) {
	return OpenWithClock(path, timeutil.RealClock{})
}

// OpenWithClock is Open with an injected clock for run timestamps.
func OpenWithClock(path string, clock timeutil.Clock) (*Store, error) {
	s, err := openStore(path, clock)
	if err != nil {
		return nil, err
	}
	if err := s.MigrateUp(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// openStore opens path and applies pragmas without touching the schema.
func openStore(path string, clock timeutil.Clock) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return &Store{DB: sqlDB, clock: clock}, nil
}

// SaveRun stores rec and its samples in one transaction and returns the run
// id. An empty RunID gets a fresh UUID and any other RunID must parse as one;
// a zero CreatedAt uses the store clock.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) (string, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	} else if _, err := uuid.Parse(rec.RunID); err != nil {
		return "", fmt.Errorf("run id %q: %w", rec.RunID, err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.clock.Now()
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, source, window_start, window_end, sample_count, invalid_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Source,
		timeutil.FormatRecord(rec.WindowStart), timeutil.FormatRecord(rec.WindowEnd),
		rec.SampleCount, rec.InvalidCount, timeutil.FormatRecord(rec.CreatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", rec.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rotated_samples (run_id, idx, t, lat, lon, alt_km, v_east, v_north, v_up, h_speed, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rec.Samples {
		_, err := stmt.ExecContext(ctx,
			rec.RunID, row.Index, timeutil.FormatRecord(row.Time),
			nullFloat(row.Lat), nullFloat(row.Lon), nullFloat(row.AltKm),
			nullFloat(row.East), nullFloat(row.North), nullFloat(row.Up),
			nullFloat(row.HorizontalSpeed), row.Status,
		)
		if err != nil {
			return "", fmt.Errorf("insert sample %d of run %s: %w", row.Index, rec.RunID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run %s: %w", rec.RunID, err)
	}
	monitoring.Logf("db: saved run %s (%d samples)", rec.RunID, len(rec.Samples))
	return rec.RunID, nil
}

// ListRuns returns every stored run, newest first, without samples.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT run_id, source, window_start, window_end, sample_count, invalid_count, created_at
		FROM runs
		ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var start, end, created string
		if err := rows.Scan(&rec.RunID, &rec.Source, &start, &end, &rec.SampleCount, &rec.InvalidCount, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if rec.WindowStart, err = timeutil.ParseRecord(start); err != nil {
			return nil, fmt.Errorf("run %s window_start: %w", rec.RunID, err)
		}
		if rec.WindowEnd, err = timeutil.ParseRecord(end); err != nil {
			return nil, fmt.Errorf("run %s window_end: %w", rec.RunID, err)
		}
		if rec.CreatedAt, err = timeutil.ParseRecord(created); err != nil {
			return nil, fmt.Errorf("run %s created_at: %w", rec.RunID, err)
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// LoadSamples returns the samples of runID in index order.
func (s *Store) LoadSamples(ctx context.Context, runID string) ([]SampleRow, error) {
	var exists int
	err := s.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE run_id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup run %s: %w", runID, err)
	}

	rows, err := s.QueryContext(ctx, `
		SELECT idx, t, lat, lon, alt_km, v_east, v_north, v_up, h_speed, status
		FROM rotated_samples
		WHERE run_id = ?
		ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("load samples of run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []SampleRow
	for rows.Next() {
		var row SampleRow
		var t string
		var lat, lon, alt, east, north, up, hs sql.NullFloat64
		if err := rows.Scan(&row.Index, &t, &lat, &lon, &alt, &east, &north, &up, &hs, &row.Status); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		if row.Time, err = timeutil.ParseRecord(t); err != nil {
			return nil, fmt.Errorf("sample %d time: %w", row.Index, err)
		}
		row.Lat, row.Lon, row.AltKm = floatOrNaN(lat), floatOrNaN(lon), floatOrNaN(alt)
		row.East, row.North, row.Up = floatOrNaN(east), floatOrNaN(north), floatOrNaN(up)
		row.HorizontalSpeed = floatOrNaN(hs)
		out = append(out, row)
	}
	return out, rows.Err()
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
