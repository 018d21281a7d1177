// Package store archives run outcomes and slot records in a relational
// database, with SQLite and Postgres backends.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alpine-leisure/spawatch/internal/model"
)

// RunFilter specifies criteria for listing archived runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Since  time.Time       `json:"since,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// SlotFilter specifies criteria for listing archived slot records.
type SlotFilter struct {
	Horizon model.Horizon `json:"horizon,omitempty"`
	Source  model.Source  `json:"source,omitempty"`
	Venue   string        `json:"venue,omitempty"`
	Since   time.Time     `json:"since,omitempty"`
	Limit   int           `json:"limit,omitempty"`
}

// Store defines the persistence interface for the scrape pipeline.
type Store interface {
	RecordRun(ctx context.Context, rec model.RunRecord) error
	ListRuns(ctx context.Context, filter RunFilter) ([]model.RunRecord, error)

	SaveSlots(ctx context.Context, runID string, records []model.SlotRecord) error
	ListSlots(ctx context.Context, filter SlotFilter) ([]model.SlotRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Pool is the subset of pgxpool.Pool the Postgres store uses. pgxmock
// satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}
