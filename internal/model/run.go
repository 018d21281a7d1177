package model

import "time"

// RunStatus tags the outcome of one scheduled pipeline run.
type RunStatus string

const (
	// RunStatusSuccess means every horizon was processed and persisted.
	RunStatusSuccess RunStatus = "success"
	// RunStatusPartial means the run finished but one or more sink writes
	// fell back to CSV backups.
	RunStatusPartial RunStatus = "partial"
	// RunStatusTimeout means the run exceeded its wall-clock cap and was
	// killed; partial output is discarded.
	RunStatusTimeout RunStatus = "timeout"
	// RunStatusFailed means the run terminated on an unrecoverable error.
	RunStatusFailed RunStatus = "failed"
)

// RunRecord is one entry in the rolling run history.
type RunRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Status    RunStatus `json:"status"`
	// Records counts historical rows appended to the sink.
	Records int `json:"records_scraped"`
	// Slots counts slot records extracted across all horizons.
	Slots int    `json:"slots_found"`
	Error string `json:"error,omitempty"`
}
