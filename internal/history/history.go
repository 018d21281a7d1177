// Package history persists the rolling run-history file used by the
// scheduler and the health check.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/model"
)

// MaxEntries caps the run history; the oldest entries are trimmed once
// the cap is exceeded.
const MaxEntries = 100

// File stores run outcomes as JSON on disk. Every write replaces the
// whole file atomically, alongside a separate last-run snapshot.
type File struct {
	path     string
	lastPath string
}

// NewFile builds a history store rooted at dir.
func NewFile(dir string) *File {
	return &File{
		path:     filepath.Join(dir, "run_history.json"),
		lastPath: filepath.Join(dir, "last_run.json"),
	}
}

// Load reads the full history, oldest first. A missing file is an empty
// history, not an error.
func (f *File) Load() ([]model.RunRecord, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "history: read %s", f.path)
	}

	var records []model.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "history: parse %s", f.path)
	}
	return records, nil
}

// Record appends one run outcome, trims to the cap, and rewrites both
// the history file and the last-run snapshot.
func (f *File) Record(rec model.RunRecord) error {
	records, err := f.Load()
	if err != nil {
		return err
	}

	records = append(records, rec)
	if len(records) > MaxEntries {
		records = records[len(records)-MaxEntries:]
	}

	if err := writeAtomic(f.path, records); err != nil {
		return err
	}
	if err := writeAtomic(f.lastPath, rec); err != nil {
		return err
	}

	zap.L().Debug("history: run recorded",
		zap.String("run_id", rec.ID),
		zap.String("status", string(rec.Status)),
		zap.Int("entries", len(records)),
	)
	return nil
}

// Last returns the most recent run, or nil when no run has happened yet.
func (f *File) Last() (*model.RunRecord, error) {
	data, err := os.ReadFile(f.lastPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "history: read %s", f.lastPath)
	}

	var rec model.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, eris.Wrapf(err, "history: parse %s", f.lastPath)
	}
	return &rec, nil
}

// Stale reports whether the last run is older than maxAge. No recorded
// run counts as stale.
func (f *File) Stale(now time.Time, maxAge time.Duration) (bool, error) {
	last, err := f.Last()
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}
	return now.Sub(last.Timestamp) > maxAge, nil
}

func writeAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "history: create dir for %s", path)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "history: marshal")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "history: write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrapf(err, "history: replace %s", path)
	}
	return nil
}
