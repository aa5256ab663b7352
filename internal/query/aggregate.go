package query

import (
	"math"
	"sort"
	"strings"
)

// Reducer is a statistical reduction applied to one column of a group.
type Reducer int

const (
	// Count counts group members. The column is ignored.
	Count Reducer = iota
	// Sum totals the column.
	Sum
	// Mean averages the column.
	Mean
	// PopStdDev is the population standard deviation (divide by N,
	// not N-1). A single-element group yields 0, never NaN.
	PopStdDev
)

// Aggregation pairs a source column with a reducer and the output
// column name.
type Aggregation struct {
	Column  string
	Reducer Reducer
	As      string
}

// Predicate filters rows. Used both for row-level filtering and for
// HAVING-style post-aggregation filtering.
type Predicate func(Row) bool

// Filter returns the rows satisfying pred, preserving order.
func Filter(t *Table, pred Predicate) *Table {
	out := NewTable(t.Columns...)
	for _, r := range t.Rows {
		if pred(r) {
			out.Append(r)
		}
	}
	return out
}

// GroupBy produces one output row per distinct group-key tuple, in
// first-seen order, with the grouping columns followed by one column
// per aggregation. Rows where an aggregation column is missing or
// non-numeric are skipped for that reducer (Count still counts them).
func GroupBy(t *Table, keys []string, aggs []Aggregation) *Table {
	columns := make([]string, 0, len(keys)+len(aggs))
	columns = append(columns, keys...)
	for _, a := range aggs {
		columns = append(columns, a.As)
	}
	out := NewTable(columns...)

	type group struct {
		first  Row
		values [][]float64 // per aggregation
		n      int
	}
	index := make(map[string]*group)
	order := make([]string, 0)

	keyOf := func(r Row) string {
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = keyPart(r[k])
		}
		return strings.Join(parts, "\x1f")
	}

	for _, r := range t.Rows {
		k := keyOf(r)
		g, ok := index[k]
		if !ok {
			g = &group{first: r, values: make([][]float64, len(aggs))}
			index[k] = g
			order = append(order, k)
		}
		g.n++
		for i, a := range aggs {
			if a.Reducer == Count {
				continue
			}
			if v, ok := r.Float(a.Column); ok {
				g.values[i] = append(g.values[i], v)
			}
		}
	}

	for _, k := range order {
		g := index[k]
		row := make(Row, len(columns))
		for _, key := range keys {
			row[key] = g.first[key]
		}
		for i, a := range aggs {
			row[a.As] = reduce(a.Reducer, g.values[i], g.n)
		}
		out.Append(row)
	}
	return out
}

func reduce(r Reducer, values []float64, n int) any {
	switch r {
	case Count:
		return int64(n)
	case Sum:
		return sum(values)
	case Mean:
		if len(values) == 0 {
			return float64(0)
		}
		return sum(values) / float64(len(values))
	case PopStdDev:
		if len(values) <= 1 {
			return float64(0)
		}
		mean := sum(values) / float64(len(values))
		var ss float64
		for _, v := range values {
			d := v - mean
			ss += d * d
		}
		return math.Sqrt(ss / float64(len(values)))
	default:
		return float64(0)
	}
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// SortBy stably sorts the table in place with the given comparison
// and returns it. Ties keep their prior relative order.
func SortBy(t *Table, less func(a, b Row) bool) *Table {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return less(t.Rows[i], t.Rows[j])
	})
	return t
}

// SortFloatDesc stably sorts descending by a numeric column.
func SortFloatDesc(t *Table, col string) *Table {
	return SortBy(t, func(a, b Row) bool {
		av, _ := a.Float(col)
		bv, _ := b.Float(col)
		return av > bv
	})
}

// SortFloatAsc stably sorts ascending by a numeric column.
func SortFloatAsc(t *Table, col string) *Table {
	return SortBy(t, func(a, b Row) bool {
		av, _ := a.Float(col)
		bv, _ := b.Float(col)
		return av < bv
	})
}

// Limit truncates the table to at most n rows; n <= 0 means no limit.
func Limit(t *Table, n int) *Table {
	if n > 0 && len(t.Rows) > n {
		t.Rows = t.Rows[:n]
	}
	return t
}
