// Package query is the backend-agnostic tabular computation substrate
// underneath the bond analytics metrics: inner equi-joins (including
// calendar-month-truncated joins), grouped aggregation with
// post-aggregation predicates, per-partition window operations, stable
// sorting and output-time rounding.
//
// The package knows nothing about bonds. It operates on ordered row
// sets (Table) whose semantics are defined to be reproducible across
// substrates: a relational engine, a document aggregation pipeline and
// this in-memory implementation must all produce the same rows in the
// same order for the same inputs.
//
// Semantics that keep results deterministic everywhere:
//
//   - Joins are inner joins. Rows whose join key is missing, nil or an
//     empty string are dropped silently; upstream referential gaps are
//     an exclusion policy, not an error.
//   - Grouping preserves first-seen group order, so group output order
//     is a pure function of input row order.
//   - Sorting is stable; ties keep their prior relative order unless a
//     metric supplies an explicit secondary key.
//   - population stddev divides by N (not N-1) and is 0 for N==1.
//   - Rounding happens at output time only; every intermediate
//     computation runs at full float64 precision.
package query
