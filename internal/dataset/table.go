package dataset

import "strings"

// Table is an in-memory, row-oriented view over one worksheet. Column
// indices are 0-based and stable for the lifetime of the table; column
// letters and header names are two read-only views over the same index
// space.
type Table struct {
	headers []string
	rows    []Row
	cols    int
}

// Row is one data row. Cells are raw scalars: string, float64, or nil
// for a blank cell.
type Row struct {
	number int
	cells  []any
}

// NewTable builds a table from raw sheet rows. headerOffset selects the
// row used as the header (0 = first row); all rows after it are data
// rows. Rows before the header row are discarded.
func NewTable(raw [][]any, headerOffset int) *Table {
	t := &Table{}
	if headerOffset < 0 || headerOffset >= len(raw) {
		return t
	}

	for _, cell := range raw[headerOffset] {
		t.headers = append(t.headers, cellString(cell))
	}
	t.cols = len(t.headers)

	for i, cells := range raw[headerOffset+1:] {
		if len(cells) > t.cols {
			t.cols = len(cells)
		}
		// number is the 1-based position within the data region,
		// used in skip counts and failure reports.
		t.rows = append(t.rows, Row{number: i + 1, cells: cells})
	}
	return t
}

// Rows returns the data rows in sheet order.
func (t *Table) Rows() []Row { return t.rows }

// ColumnCount returns the widest known column extent.
func (t *Table) ColumnCount() int { return t.cols }

// Headers returns the raw header names by column index. Columns past the
// header row's extent have no name.
func (t *Table) Headers() []string { return t.headers }

// Header returns the raw header text for a column, or "" when the column
// has no header.
func (t *Table) Header(col int) string {
	if col < 0 || col >= len(t.headers) {
		return ""
	}
	return t.headers[col]
}

// Number returns the 1-based data-row position, for reporting.
func (r Row) Number() int { return r.number }

// Cell returns the raw value at the given column index, or nil when the
// row is shorter than the column.
func (r Row) Cell(col int) any {
	if col < 0 || col >= len(r.cells) {
		return nil
	}
	return r.cells[col]
}

func cellString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
