// Command market-report computes every analytics metric over a CSV
// dataset directory and writes the results as CSV files and a
// combined Excel workbook.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"munibond/internal/exporter"
	"munibond/internal/loader"
	"munibond/internal/metrics"
	"munibond/internal/services"
)

func main() {
	dataDir := flag.String("data", "data", "directory containing the dataset CSV files")
	outDir := flag.String("out", "reports", "output directory for report files")
	workbook := flag.String("workbook", "market-report", "base name of the Excel workbook")
	withBOM := flag.Bool("bom", true, "write a UTF-8 BOM in CSV files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	snap, err := loader.New(*dataDir, logger).Load()
	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	if snap.Empty() {
		slog.Error("dataset directory contains no usable records",
			"dir", *dataDir,
			"hint", "expected issuers.csv, bonds.csv, trades.csv and related files")
		os.Exit(1)
	}
	slog.Info("dataset loaded", "counts", snap.Counts())

	registry := metrics.NewRegistry()
	service := services.NewAnalyticsService(
		logger,
		registry,
		metrics.NewMemoryEvaluator(registry),
		metrics.NewCache(0),
		nil,
	)
	service.ReplaceSnapshot(snap)

	ctx := context.Background()
	tables, err := service.AllMetrics(ctx)
	if err != nil {
		slog.Error("failed to compute metrics", "error", err)
		os.Exit(1)
	}

	csvWriter := exporter.NewCSVWriter(*outDir, *withBOM, logger)
	paths, err := csvWriter.WriteAll(tables)
	if err != nil {
		slog.Error("failed to write CSV reports", "error", err)
		os.Exit(1)
	}
	slog.Info("CSV reports written", "files", len(paths), "dir", *outDir)

	excelWriter := exporter.NewExcelWriter(*outDir, logger)
	path, err := excelWriter.WriteWorkbook(*workbook, tables)
	if err != nil {
		slog.Error("failed to write Excel workbook", "error", err)
		os.Exit(1)
	}
	slog.Info("workbook written", "path", path)
}
