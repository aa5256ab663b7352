package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeyFunc extracts a join key from a row. ok=false marks the row as
// unjoinable (missing key); such rows are dropped, matching the
// inner-join exclusion policy for dangling references.
type KeyFunc func(Row) (string, bool)

// ColumnKey builds a KeyFunc over one or more columns. A nil value or
// an empty string in any key column makes the row unjoinable: an
// issuer without a state code simply never matches a macro record.
func ColumnKey(columns ...string) KeyFunc {
	return func(r Row) (string, bool) {
		parts := make([]string, 0, len(columns))
		for _, c := range columns {
			v, ok := r[c]
			if !ok || v == nil {
				return "", false
			}
			p := keyPart(v)
			if p == "" {
				return "", false
			}
			parts = append(parts, p)
		}
		return strings.Join(parts, "\x1f"), true
	}
}

// MonthKey builds a KeyFunc over a state column plus a date column
// truncated to its containing calendar month. Two dates join iff they
// fall in the same month, independent of day-of-month.
func MonthKey(stateCol, dateCol string) KeyFunc {
	return func(r Row) (string, bool) {
		state, ok := r.String(stateCol)
		if !ok || state == "" {
			return "", false
		}
		d, ok := r.Time(dateCol)
		if !ok || d.IsZero() {
			return "", false
		}
		return state + "\x1f" + TruncateMonth(d).Format("2006-01"), true
	}
}

// TruncateMonth reduces a date to the first instant of its containing
// calendar month in UTC.
func TruncateMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// InnerJoin computes the inner equi-join of two tables. Output rows
// merge left and right columns; on a column name collision the left
// value wins. Output row order follows left row order, then right row
// order within one left row, so the result is deterministic.
func InnerJoin(left, right *Table, leftKey, rightKey KeyFunc) *Table {
	columns := make([]string, 0, len(left.Columns)+len(right.Columns))
	columns = append(columns, left.Columns...)
	seen := make(map[string]bool, len(columns))
	for _, c := range left.Columns {
		seen[c] = true
	}
	for _, c := range right.Columns {
		if !seen[c] {
			columns = append(columns, c)
			seen[c] = true
		}
	}
	out := NewTable(columns...)

	index := make(map[string][]int)
	for i, r := range right.Rows {
		k, ok := rightKey(r)
		if !ok {
			continue
		}
		index[k] = append(index[k], i)
	}

	for _, lr := range left.Rows {
		k, ok := leftKey(lr)
		if !ok {
			continue
		}
		for _, ri := range index[k] {
			merged := lr.clone()
			for c, v := range right.Rows[ri] {
				if _, taken := merged[c]; !taken {
					merged[c] = v
				}
			}
			out.Append(merged)
		}
	}
	return out
}

// keyPart formats a single key value. Numeric keys format without an
// exponent so int64(7) and float64(7) read identically when a loader
// widens identity columns.
func keyPart(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return fmt.Sprintf("%d", x)
	case int:
		return fmt.Sprintf("%d", x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
