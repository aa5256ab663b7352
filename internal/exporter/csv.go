package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"munibond/internal/query"
)

// utf8BOM is prepended to CSV files so spreadsheet tools detect the
// encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes metric tables as CSV report files under a base
// directory.
type CSVWriter struct {
	dir    string
	bom    bool
	logger *slog.Logger
}

// NewCSVWriter returns a writer rooted at dir. Files are created with
// a UTF-8 BOM when withBOM is set.
func NewCSVWriter(dir string, withBOM bool, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		dir:    dir,
		bom:    withBOM,
		logger: logger.With(slog.String("component", "csv-exporter")),
	}
}

// WriteTable writes tbl to name.csv under the writer's directory and
// returns the path written.
func (w *CSVWriter) WriteTable(name string, tbl *query.Table) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(w.dir, name+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if w.bom {
		if _, err := f.Write(utf8BOM); err != nil {
			return "", fmt.Errorf("write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(tbl.Columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for i, col := range tbl.Columns {
			record[i] = formatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return "", fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	w.logger.Info("report written",
		slog.String("path", path),
		slog.Int("rows", len(tbl.Rows)))
	return path, nil
}

// WriteAll writes every table in tables keyed by metric name and
// returns the paths written, in no particular order.
func (w *CSVWriter) WriteAll(tables map[string]*query.Table) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for name, tbl := range tables {
		path, err := w.WriteTable(name, tbl)
		if err != nil {
			return paths, fmt.Errorf("export %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
