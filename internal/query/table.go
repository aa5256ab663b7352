package query

import (
	"time"
)

// Row is a single record keyed by column name. Values are strings,
// int64s, float64s or time.Times; nothing else should be stored.
type Row map[string]any

// Table is an ordered row set with an explicit column order. The
// column order drives presentation and export; the row order is part
// of the table's contract and is always deterministic.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column order.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns, Rows: make([]Row, 0)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row. The row should only use declared columns.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Select returns a copy of the table restricted to the given columns,
// in the given order. Values are shared, rows are fresh maps.
func (t *Table) Select(columns ...string) *Table {
	out := NewTable(columns...)
	for _, r := range t.Rows {
		nr := make(Row, len(columns))
		for _, c := range columns {
			if v, ok := r[c]; ok {
				nr[c] = v
			}
		}
		out.Append(nr)
	}
	return out
}

// Float reads a numeric column as float64. Int64 values are widened;
// anything else reports ok=false.
func (r Row) Float(col string) (float64, bool) {
	switch v := r[col].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// String reads a string column. Missing or non-string values report
// ok=false.
func (r Row) String(col string) (string, bool) {
	v, ok := r[col].(string)
	return v, ok
}

// Time reads a time column.
func (r Row) Time(col string) (time.Time, bool) {
	v, ok := r[col].(time.Time)
	return v, ok
}

// clone returns a shallow copy of the row.
func (r Row) clone() Row {
	nr := make(Row, len(r))
	for k, v := range r {
		nr[k] = v
	}
	return nr
}
