// Package sink writes tabular run output to spreadsheet tabs, with a CSV
// backup path for when the spreadsheet write fails.
package sink

// Table is an ordered list of rows sharing one header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Sink writes tables into named tabs. Replace clears everything below the
// header and rewrites the tab; Append adds rows after the last populated
// row, rewriting the header first if it no longer matches. Neither
// operation is safe to run concurrently against the same tab.
type Sink interface {
	Replace(tab string, table Table) error
	Append(tab string, table Table) error
}
