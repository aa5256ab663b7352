// Package metrics defines the named analytical views over a
// dataset.Snapshot: each metric is a pure function composed from the
// query package's join, aggregation and window operations, declared in
// a registry and evaluated through the Evaluator seam so alternative
// computation substrates (a relational engine, a document aggregation
// pipeline) can implement the same contract and be verified against
// the same property suite.
//
// All metrics share the exclusion-over-error policy: dangling
// references, missing join keys and out-of-enum values drop the
// affected rows; an empty snapshot yields empty tables, never errors.
package metrics
