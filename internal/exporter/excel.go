package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"munibond/internal/query"
)

// excelSheetNameMax is the sheet name limit imposed by the xlsx
// format.
const excelSheetNameMax = 31

// ExcelWriter writes a set of metric tables into a single workbook,
// one sheet per metric.
type ExcelWriter struct {
	dir    string
	logger *slog.Logger
}

func NewExcelWriter(dir string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{
		dir:    dir,
		logger: logger.With(slog.String("component", "excel-exporter")),
	}
}

// WriteWorkbook writes tables into name.xlsx under the writer's
// directory, with sheets ordered by metric name, and returns the path
// written.
func (w *ExcelWriter) WriteWorkbook(name string, tables map[string]*query.Table) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(w.dir, name+".xlsx")

	names := make([]string, 0, len(tables))
	for metric := range tables {
		names = append(names, metric)
	}
	sort.Strings(names)

	f := excelize.NewFile()
	defer f.Close()

	for _, metric := range names {
		sheet := sheetName(metric)
		if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, tables[metric]); err != nil {
			return "", fmt.Errorf("fill sheet %s: %w", sheet, err)
		}
	}

	// Drop the default sheet excelize creates with the workbook.
	if len(names) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return "", fmt.Errorf("remove default sheet: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(names)))
	return path, nil
}

func writeSheet(f *excelize.File, sheet string, tbl *query.Table) error {
	for i, col := range tbl.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	for r, row := range tbl.Rows {
		for i, col := range tbl.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(row[col])); err != nil {
				return err
			}
		}
	}
	return nil
}

func sheetName(metric string) string {
	if len(metric) > excelSheetNameMax {
		return metric[:excelSheetNameMax]
	}
	return metric
}
