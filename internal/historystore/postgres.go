package historystore

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres is the durable Store, used when VROOM_DATABASE_URL is set.
type Postgres struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS solve_runs (
	run_id            text PRIMARY KEY,
	submitted_at      timestamptz NOT NULL,
	solve_ms          bigint NOT NULL,
	job_count         integer NOT NULL,
	vehicle_count     integer NOT NULL,
	cost              bigint NOT NULL,
	duration          bigint NOT NULL,
	distance          bigint NOT NULL,
	unassigned        integer NOT NULL,
	heuristics_count  integer NOT NULL
)`

// NewPostgres opens dsn and ensures the solve_runs table exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) SaveRun(ctx context.Context, r RunRecord) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO solve_runs (run_id, submitted_at, solve_ms, job_count, vehicle_count, cost, duration, distance, unassigned, heuristics_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (run_id) DO UPDATE SET
			solve_ms = EXCLUDED.solve_ms, cost = EXCLUDED.cost, duration = EXCLUDED.duration,
			distance = EXCLUDED.distance, unassigned = EXCLUDED.unassigned`,
		r.RunID, r.SubmittedAt, r.SolveMS, r.JobCount, r.VehicleCount, r.Cost, r.Duration, r.Distance, r.Unassigned, r.HeuristicsCount)
	return err
}

func (p *Postgres) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	var r RunRecord
	err := p.db.QueryRowContext(ctx, `
		SELECT run_id, submitted_at, solve_ms, job_count, vehicle_count, cost, duration, distance, unassigned, heuristics_count
		FROM solve_runs WHERE run_id = $1`, runID).
		Scan(&r.RunID, &r.SubmittedAt, &r.SolveMS, &r.JobCount, &r.VehicleCount, &r.Cost, &r.Duration, &r.Distance, &r.Unassigned, &r.HeuristicsCount)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, ErrNotFound
	}
	if err != nil {
		return RunRecord{}, err
	}
	return r, nil
}

func (p *Postgres) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT run_id, submitted_at, solve_ms, job_count, vehicle_count, cost, duration, distance, unassigned, heuristics_count
		FROM solve_runs ORDER BY submitted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.SubmittedAt, &r.SolveMS, &r.JobCount, &r.VehicleCount, &r.Cost, &r.Duration, &r.Distance, &r.Unassigned, &r.HeuristicsCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
