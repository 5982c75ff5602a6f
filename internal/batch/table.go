// Package batch drives the record processor over an input table and builds
// the run artifacts: the enriched table, the report archive, and the
// per-record result log.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Table is a delimited dataset held in memory: a header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable parses CSV data; the first row is the header. Ragged rows are
// tolerated and read back as short rows.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv has no header row")
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// ColumnIndex locates a column by exact header name.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in header", name)
}

// Cell returns the value at (row, col), or "" when the row is too short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// WithColumn returns a copy of t with one column appended. values must have
// one entry per data row.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	out := &Table{
		Header: append(append([]string(nil), t.Header...), name),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append(append([]string(nil), row...), values[i])
	}
	return out, nil
}

// WriteCSV serializes the table.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
