package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bifacial-sweep/internal/config"
	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/sweep"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no run has the requested ID.
var ErrNotFound = errors.New("run not found")

// Run is one stored sweep: the configuration it ran with and its result.
type Run struct {
	ID        string
	CreatedAt time.Time
	Config    *config.Config
	Result    *sweep.Result
}

// RunInfo is the listing view of a run.
type RunInfo struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	TiltMin   int                  `json:"tilt_min"`
	TiltMax   int                  `json:"tilt_max"`
	Summary   model.OptimumSummary `json:"summary"`
}

// Store keeps sweep runs in SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at DATETIME NOT NULL,
    config_yaml TEXT NOT NULL,
    samples INTEGER NOT NULL,
    interval_hours REAL NOT NULL,
    tilt_min INTEGER NOT NULL,
    tilt_max INTEGER NOT NULL,
    best_bifacial_tilt INTEGER NOT NULL,
    max_bifacial_kwh REAL NOT NULL,
    best_monofacial_tilt INTEGER NOT NULL,
    max_monofacial_kwh REAL NOT NULL,
    gain_at_bifacial_optimum_pct REAL NOT NULL,
    gain_at_monofacial_optimum_pct REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS tilt_results (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    tilt_degrees INTEGER NOT NULL,
    bifacial_annual_kwh REAL NOT NULL,
    monofacial_annual_kwh REAL NOT NULL,
    PRIMARY KEY (run_id, tilt_degrees)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Open opens (and if needed creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save inserts a run. An empty ID is replaced by a new UUID and a zero
// CreatedAt by the current time.
func (s *Store) Save(ctx context.Context, run *Run) error {
	if run == nil || run.Result == nil || run.Config == nil {
		return errors.New("run, config and result are required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	cfg, err := yaml.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sum := run.Result.Summary
	_, err = tx.ExecContext(ctx, `INSERT INTO runs (
        id, created_at, config_yaml, samples, interval_hours, tilt_min, tilt_max,
        best_bifacial_tilt, max_bifacial_kwh, best_monofacial_tilt, max_monofacial_kwh,
        gain_at_bifacial_optimum_pct, gain_at_monofacial_optimum_pct
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC(), string(cfg), run.Result.Samples, run.Result.IntervalHours,
		run.Config.Sweep.TiltMin, run.Config.Sweep.TiltMax,
		sum.BestBifacialTilt, sum.MaxBifacialKWh, sum.BestMonofacialTilt, sum.MaxMonofacialKWh,
		sum.GainAtBifacialOptimumPct, sum.GainAtMonofacialOptimumPct,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tilt_results
        (run_id, tilt_degrees, bifacial_annual_kwh, monofacial_annual_kwh) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range run.Result.Results {
		if _, err := stmt.ExecContext(ctx, run.ID, r.TiltDegrees, r.BifacialAnnualKWh, r.MonofacialAnnualKWh); err != nil {
			return fmt.Errorf("insert tilt %d: %w", r.TiltDegrees, err)
		}
	}
	return tx.Commit()
}

// Get loads a run with its per-tilt results in ascending tilt order.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var (
		run     = Run{ID: id, Result: &sweep.Result{}}
		cfgYAML string
		sum     model.OptimumSummary
	)
	err := s.db.QueryRowContext(ctx, `SELECT created_at, config_yaml, samples, interval_hours,
        best_bifacial_tilt, max_bifacial_kwh, best_monofacial_tilt, max_monofacial_kwh,
        gain_at_bifacial_optimum_pct, gain_at_monofacial_optimum_pct
        FROM runs WHERE id = ?`, id).Scan(
		&run.CreatedAt, &cfgYAML, &run.Result.Samples, &run.Result.IntervalHours,
		&sum.BestBifacialTilt, &sum.MaxBifacialKWh, &sum.BestMonofacialTilt, &sum.MaxMonofacialKWh,
		&sum.GainAtBifacialOptimumPct, &sum.GainAtMonofacialOptimumPct,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.Result.Summary = sum

	var cfg config.Config
	if err := yaml.Unmarshal([]byte(cfgYAML), &cfg); err != nil {
		return nil, fmt.Errorf("decode stored config: %w", err)
	}
	run.Config = &cfg

	rows, err := s.db.QueryContext(ctx, `SELECT tilt_degrees, bifacial_annual_kwh, monofacial_annual_kwh
        FROM tilt_results WHERE run_id = ? ORDER BY tilt_degrees ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r model.TiltResult
		if err := rows.Scan(&r.TiltDegrees, &r.BifacialAnnualKWh, &r.MonofacialAnnualKWh); err != nil {
			return nil, err
		}
		run.Result.Results = append(run.Result.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns the most recent runs first. limit <= 0 means 50.
func (s *Store) List(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, tilt_min, tilt_max,
        best_bifacial_tilt, max_bifacial_kwh, best_monofacial_tilt, max_monofacial_kwh,
        gain_at_bifacial_optimum_pct, gain_at_monofacial_optimum_pct
        FROM runs ORDER BY created_at DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RunInfo{}
	for rows.Next() {
		var ri RunInfo
		sum := &ri.Summary
		if err := rows.Scan(&ri.ID, &ri.CreatedAt, &ri.TiltMin, &ri.TiltMax,
			&sum.BestBifacialTilt, &sum.MaxBifacialKWh, &sum.BestMonofacialTilt, &sum.MaxMonofacialKWh,
			&sum.GainAtBifacialOptimumPct, &sum.GainAtMonofacialOptimumPct); err != nil {
			return nil, err
		}
		out = append(out, ri)
	}
	return out, rows.Err()
}
