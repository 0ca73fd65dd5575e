// Package table holds the in-memory tabular form of the input and output
// files and converts it to and from CSV, TSV, XLSX and HTML.
package table

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMissingColumn is wrapped by ColumnError.
var ErrMissingColumn = errors.New("missing column")

// ColumnError names a column that a table does not have.
type ColumnError struct {
	Column string
	Have   []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s %q (have %s)", ErrMissingColumn, e.Column, strings.Join(quoteAll(e.Have), ", "))
}

func (e *ColumnError) Unwrap() error { return ErrMissingColumn }

// Table is a header row plus data rows; every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// New builds a table, padding or keeping ragged rows so that each row has
// at least len(header) cells.
func New(header []string, rows [][]string) *Table {
	if len(header) > 0 {
		header = slices.Clone(header)
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	out := make([][]string, 0, len(rows))

	for _, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}

		out = append(out, row)
	}

	return &Table{Header: header, Rows: out}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the index of the header cell equal to name, ignoring
// surrounding whitespace.
func (t *Table) Column(name string) (int, error) {
	want := strings.TrimSpace(name)

	for i, h := range t.Header {
		if strings.TrimSpace(h) == want {
			return i, nil
		}
	}

	return -1, &ColumnError{Column: name, Have: slices.Clone(t.Header)}
}

// Values returns column col of every row.
func (t *Table) Values(col int) []string {
	out := make([]string, len(t.Rows))

	for i, row := range t.Rows {
		if col < len(row) {
			out[i] = row[col]
		}
	}

	return out
}

// WithColumn returns a copy of t where column name holds values. An
// existing column of that name is overwritten in place, otherwise the
// column is appended.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}

	out := t.Clone()

	col, err := out.Column(name)
	if err != nil {
		col = len(out.Header)
		out.Header = append(out.Header, name)
	}

	for i := range out.Rows {
		for len(out.Rows[i]) <= col {
			out.Rows[i] = append(out.Rows[i], "")
		}

		out.Rows[i][col] = values[i]
	}

	return out, nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = slices.Clone(row)
	}

	return &Table{Header: slices.Clone(t.Header), Rows: rows}
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}

	return out
}
