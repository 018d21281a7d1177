package sink

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// XLSXSink persists tabs as sheets of a single workbook file.
type XLSXSink struct {
	path string
}

// NewXLSX builds a sink backed by the workbook at path. The file is
// created on first write.
func NewXLSX(path string) *XLSXSink {
	return &XLSXSink{path: path}
}

func (s *XLSXSink) open() (*xlsx.File, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return xlsx.NewFile(), nil
	}
	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "sink: open workbook %s", s.path)
	}
	return f, nil
}

func (s *XLSXSink) sheet(f *xlsx.File, tab string) (*xlsx.Sheet, error) {
	if sheet, ok := f.Sheet[tab]; ok {
		return sheet, nil
	}
	sheet, err := f.AddSheet(tab)
	if err != nil {
		return nil, eris.Wrapf(err, "sink: add sheet %s", tab)
	}
	return sheet, nil
}

// Replace clears the tab and rewrites it: header row in bold, then the
// data rows.
func (s *XLSXSink) Replace(tab string, table Table) error {
	f, err := s.open()
	if err != nil {
		return err
	}
	sheet, err := s.sheet(f, tab)
	if err != nil {
		return err
	}

	sheet.Rows = nil
	sheet.MaxRow = 0
	writeHeader(sheet, table.Header)
	for _, row := range table.Rows {
		addRow(sheet, row)
	}

	if err := f.Save(s.path); err != nil {
		return eris.Wrapf(err, "sink: save workbook %s", s.path)
	}
	zap.L().Debug("sink: tab replaced",
		zap.String("tab", tab),
		zap.Int("rows", len(table.Rows)),
	)
	return nil
}

// Append adds rows after the last populated row. An empty tab gets the
// header first; a stale header is rewritten in place before appending.
func (s *XLSXSink) Append(tab string, table Table) error {
	f, err := s.open()
	if err != nil {
		return err
	}
	sheet, err := s.sheet(f, tab)
	if err != nil {
		return err
	}

	switch {
	case len(sheet.Rows) == 0:
		writeHeader(sheet, table.Header)
	case headerMismatch(sheet.Rows[0], table.Header):
		zap.L().Warn("sink: header mismatch, rewriting",
			zap.String("tab", tab),
		)
		rewriteHeader(sheet.Rows[0], table.Header)
	}

	for _, row := range table.Rows {
		addRow(sheet, row)
	}

	if err := f.Save(s.path); err != nil {
		return eris.Wrapf(err, "sink: save workbook %s", s.path)
	}
	zap.L().Debug("sink: rows appended",
		zap.String("tab", tab),
		zap.Int("rows", len(table.Rows)),
	)
	return nil
}

func writeHeader(sheet *xlsx.Sheet, header []string) {
	row := sheet.AddRow()
	style := xlsx.NewStyle()
	style.Font.Bold = true
	style.ApplyFont = true
	for _, h := range header {
		cell := row.AddCell()
		cell.SetString(h)
		cell.SetStyle(style)
	}
}

func rewriteHeader(row *xlsx.Row, header []string) {
	row.Cells = nil
	style := xlsx.NewStyle()
	style.Font.Bold = true
	style.ApplyFont = true
	for _, h := range header {
		cell := row.AddCell()
		cell.SetString(h)
		cell.SetStyle(style)
	}
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func headerMismatch(row *xlsx.Row, header []string) bool {
	if len(row.Cells) != len(header) {
		return true
	}
	for i, cell := range row.Cells {
		if cell.String() != header[i] {
			return true
		}
	}
	return false
}
