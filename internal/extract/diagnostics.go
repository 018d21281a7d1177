package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Diagnostics dumps page snapshots when extraction degrades, so failed
// scrapes can be inspected after the fact.
type Diagnostics struct {
	dir string
}

// NewDiagnostics builds a dumper rooted at dir. The directory is created
// on first dump.
func NewDiagnostics(dir string) *Diagnostics {
	return &Diagnostics{dir: dir}
}

// Dump writes the raw page HTML to a timestamped file and returns its
// path.
func (d *Diagnostics) Dump(date time.Time, html string) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "extract: create diagnostics dir %s", d.dir)
	}

	name := fmt.Sprintf("page_%s_%s.html", date.Format("2006-01-02"), time.Now().Format("150405"))
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", eris.Wrapf(err, "extract: write diagnostics dump %s", path)
	}

	zap.L().Info("extract: page dump written", zap.String("path", path))
	return path, nil
}
