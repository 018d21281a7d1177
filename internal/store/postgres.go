package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/alpine-leisure/spawatch/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// Statement names for the hot insert path; prepared on each new
// connection and executed by name.
const (
	insertRunStmt  = "insert_run"
	insertSlotStmt = "insert_slot"
)

var preparedStatements = map[string]string{
	insertRunStmt: `INSERT INTO runs (id, timestamp, status, records_scraped, slots_found, error) VALUES ($1, $2, $3, $4, $5, $6)`,
	insertSlotStmt: `INSERT INTO slots (id, run_id, date, hour, capacity, booked, available, revenue, source, horizon, venue, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	timestamp       TIMESTAMPTZ NOT NULL,
	status          TEXT NOT NULL,
	records_scraped INTEGER NOT NULL DEFAULT 0,
	slots_found     INTEGER NOT NULL DEFAULT 0,
	error           TEXT
);

CREATE TABLE IF NOT EXISTS slots (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	date       DATE NOT NULL,
	hour       INTEGER NOT NULL,
	capacity   INTEGER NOT NULL,
	booked     INTEGER NOT NULL,
	available  INTEGER NOT NULL,
	revenue    NUMERIC(10,2) NOT NULL,
	source     TEXT NOT NULL,
	horizon    TEXT NOT NULL,
	venue      TEXT NOT NULL,
	scraped_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
CREATE INDEX IF NOT EXISTS idx_slots_run_id ON slots(run_id);
CREATE INDEX IF NOT EXISTS idx_slots_horizon ON slots(horizon);
CREATE INDEX IF NOT EXISTS idx_slots_scraped_at ON slots(scraped_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) RecordRun(ctx context.Context, rec model.RunRecord) error {
	_, err := s.pool.Exec(ctx, insertRunStmt,
		rec.ID, rec.Timestamp.UTC(), string(rec.Status), rec.Records, rec.Slots, rec.Error,
	)
	return eris.Wrap(err, "postgres: insert run")
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.RunRecord, error) {
	query := `SELECT id, timestamp, status, records_scraped, slots_found, COALESCE(error, '') FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since.UTC())
		query += ` AND timestamp >= $` + itoa(len(args))
	}
	query += ` ORDER BY timestamp DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var records []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var status string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &status, &rec.Records, &rec.Slots, &rec.Error); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		rec.Status = model.RunStatus(status)
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func (s *PostgresStore) SaveSlots(ctx context.Context, runID string, records []model.SlotRecord) error {
	for _, rec := range records {
		_, err := s.pool.Exec(ctx, insertSlotStmt,
			uuid.New().String(), runID, rec.Date.Format("2006-01-02"), rec.Hour,
			rec.Capacity, rec.Booked, rec.Available, rec.Revenue,
			string(rec.Source), string(rec.Horizon), rec.Venue, rec.ScrapedAt.UTC(),
		)
		if err != nil {
			return eris.Wrap(err, "postgres: insert slot")
		}
	}
	return nil
}

func (s *PostgresStore) ListSlots(ctx context.Context, filter SlotFilter) ([]model.SlotRecord, error) {
	query := `SELECT date, hour, capacity, booked, available, revenue, source, horizon, venue, scraped_at FROM slots WHERE 1=1`
	var args []any

	if filter.Horizon != "" {
		args = append(args, string(filter.Horizon))
		query += ` AND horizon = $` + itoa(len(args))
	}
	if filter.Source != "" {
		args = append(args, string(filter.Source))
		query += ` AND source = $` + itoa(len(args))
	}
	if filter.Venue != "" {
		args = append(args, filter.Venue)
		query += ` AND venue = $` + itoa(len(args))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since.UTC())
		query += ` AND scraped_at >= $` + itoa(len(args))
	}
	query += ` ORDER BY scraped_at DESC, date, hour`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list slots")
	}
	defer rows.Close()

	var records []model.SlotRecord
	for rows.Next() {
		var rec model.SlotRecord
		var source, horizon string
		if err := rows.Scan(&rec.Date, &rec.Hour, &rec.Capacity, &rec.Booked, &rec.Available,
			&rec.Revenue, &source, &horizon, &rec.Venue, &rec.ScrapedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan slot")
		}
		rec.Source = model.Source(source)
		rec.Horizon = model.Horizon(horizon)
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate slots")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
