// Package exporter writes metric output tables to report files: one
// CSV per metric, or a single Excel workbook with one sheet per
// metric. Values arrive already rounded by the analytics layer; the
// exporter only formats, never recomputes.
package exporter
