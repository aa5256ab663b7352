// Package http exposes the analytics layer over HTTP: one JSON
// endpoint per metric, a combined dashboard payload, the derived
// summary views and health/instrumentation endpoints. It is the thin
// presentation collaborator around the core; no analytics semantics
// live here.
package http
