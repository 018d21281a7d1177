package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CSVBackup writes timestamped CSV files to a local export folder. It is
// the recovery path when the spreadsheet sink fails mid-run.
type CSVBackup struct {
	dir string
}

// NewCSVBackup builds a backup writer rooted at dir.
func NewCSVBackup(dir string) *CSVBackup {
	return &CSVBackup{dir: dir}
}

// Write dumps one table to a timestamped CSV named after the tab and
// returns the file path.
func (b *CSVBackup) Write(tab string, table Table) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "sink: create backup dir %s", b.dir)
	}

	name := fmt.Sprintf("%s_%s.csv", tab, time.Now().Format("20060102_150405"))
	path := filepath.Join(b.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "sink: create backup file %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Header); err != nil {
		return "", eris.Wrap(err, "sink: write backup header")
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return "", eris.Wrap(err, "sink: write backup rows")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", eris.Wrap(err, "sink: flush backup")
	}

	zap.L().Info("sink: csv backup written",
		zap.String("tab", tab),
		zap.String("path", path),
		zap.Int("rows", len(table.Rows)),
	)
	return path, nil
}
