// Package dataset defines the normalized municipal-bond entity model
// consumed by the analytics layer: issuers, bond purposes, bonds,
// trades, credit ratings and state-level macro-economic indicators.
//
// Entities are immutable once loaded. A Snapshot bundles one consistent
// set of entity slices and carries a version identity so downstream
// caches can key results by it. The package performs no I/O; loaders
// (CSV, relational, document stores) construct the slices and hand them
// to NewSnapshot.
package dataset
