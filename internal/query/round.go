package query

import (
	"math"
)

// Round rounds half away from zero to the given number of decimal
// places. Used only at output time; intermediate computations keep
// full float64 precision.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// RoundColumns rounds the named float columns of every row in place
// and returns the table. Non-float values are left untouched.
func RoundColumns(t *Table, places int, columns ...string) *Table {
	for _, r := range t.Rows {
		for _, c := range columns {
			if v, ok := r[c].(float64); ok {
				r[c] = Round(v, places)
			}
		}
	}
	return t
}
