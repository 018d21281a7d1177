package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/alpine-leisure/spawatch/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	timestamp       DATETIME NOT NULL,
	status          TEXT NOT NULL,
	records_scraped INTEGER NOT NULL DEFAULT 0,
	slots_found     INTEGER NOT NULL DEFAULT 0,
	error           TEXT
);

CREATE TABLE IF NOT EXISTS slots (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	date       TEXT NOT NULL,
	hour       INTEGER NOT NULL,
	capacity   INTEGER NOT NULL,
	booked     INTEGER NOT NULL,
	available  INTEGER NOT NULL,
	revenue    REAL NOT NULL,
	source     TEXT NOT NULL,
	horizon    TEXT NOT NULL,
	venue      TEXT NOT NULL,
	scraped_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
CREATE INDEX IF NOT EXISTS idx_slots_run_id ON slots(run_id);
CREATE INDEX IF NOT EXISTS idx_slots_horizon ON slots(horizon);
CREATE INDEX IF NOT EXISTS idx_slots_scraped_at ON slots(scraped_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordRun(ctx context.Context, rec model.RunRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, timestamp, status, records_scraped, slots_found, error) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UTC(), string(rec.Status), rec.Records, rec.Slots, rec.Error,
	)
	return eris.Wrap(err, "sqlite: insert run")
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.RunRecord, error) {
	query := `SELECT id, timestamp, status, records_scraped, slots_found, COALESCE(error, '') FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if !filter.Since.IsZero() {
		query += ` AND timestamp >= ?`
		args = append(args, filter.Since.UTC())
	}
	query += ` ORDER BY timestamp DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var records []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var status string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &status, &rec.Records, &rec.Slots, &rec.Error); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		rec.Status = model.RunStatus(status)
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) SaveSlots(ctx context.Context, runID string, records []model.SlotRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO slots (id, run_id, date, hour, capacity, booked, available, revenue, source, horizon, venue, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert slot")
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(), runID, rec.Date.Format("2006-01-02"), rec.Hour,
			rec.Capacity, rec.Booked, rec.Available, rec.Revenue,
			string(rec.Source), string(rec.Horizon), rec.Venue, rec.ScrapedAt.UTC(),
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert slot")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit slots")
}

func (s *SQLiteStore) ListSlots(ctx context.Context, filter SlotFilter) ([]model.SlotRecord, error) {
	query := `SELECT date, hour, capacity, booked, available, revenue, source, horizon, venue, scraped_at FROM slots WHERE 1=1`
	var args []any

	if filter.Horizon != "" {
		query += ` AND horizon = ?`
		args = append(args, string(filter.Horizon))
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, string(filter.Source))
	}
	if filter.Venue != "" {
		query += ` AND venue = ?`
		args = append(args, filter.Venue)
	}
	if !filter.Since.IsZero() {
		query += ` AND scraped_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	query += ` ORDER BY scraped_at DESC, date, hour`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list slots")
	}
	defer rows.Close()

	var records []model.SlotRecord
	for rows.Next() {
		rec, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate slots")
}

func scanSlot(rows *sql.Rows) (model.SlotRecord, error) {
	var rec model.SlotRecord
	var date, source, horizon string
	if err := rows.Scan(&date, &rec.Hour, &rec.Capacity, &rec.Booked, &rec.Available,
		&rec.Revenue, &source, &horizon, &rec.Venue, &rec.ScrapedAt); err != nil {
		return model.SlotRecord{}, eris.Wrap(err, "sqlite: scan slot")
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return model.SlotRecord{}, eris.Wrapf(err, "sqlite: parse slot date %s", date)
	}
	rec.Date = parsed
	rec.Source = model.Source(source)
	rec.Horizon = model.Horizon(horizon)
	return rec, nil
}
