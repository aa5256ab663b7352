package exporter

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munibond/internal/query"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTable() *query.Table {
	t := query.NewTable("state_code", "avg_yield", "total", "as_of")
	t.Append(query.Row{
		"state_code": "TX",
		"avg_yield":  4.55,
		"total":      int64(67),
		"as_of":      time.Date(2024, 3, 27, 0, 0, 0, 0, time.UTC),
	})
	t.Append(query.Row{
		"state_code": "CA",
		"avg_yield":  3.783,
		"total":      int64(161),
		"as_of":      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	return t
}

func TestCSVWriter_WriteTable(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, false, testLogger())

	path, err := w.WriteTable("state_yield_stats", sampleTable())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state_yield_stats.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"state_code,avg_yield,total,as_of\n"+
			"TX,4.55,67,2024-03-27\n"+
			"CA,3.783,161,2024-04-01\n",
		string(data))
}

func TestCSVWriter_BOM(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, true, testLogger())

	path, err := w.WriteTable("m", sampleTable())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestCSVWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	w := NewCSVWriter(dir, false, testLogger())

	_, err := w.WriteTable("m", sampleTable())
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "m.csv"))
	assert.NoError(t, err)
}

func TestCSVWriter_WriteAll(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, false, testLogger())

	paths, err := w.WriteAll(map[string]*query.Table{
		"a": sampleTable(),
		"b": sampleTable(),
	})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "TX", "TX"},
		{"float drops trailing zeros", 4.550, "4.55"},
		{"whole float", 100.0, "100"},
		{"int64", int64(42), "42"},
		{"bool", true, "true"},
		{"date", time.Date(2024, 3, 27, 0, 0, 0, 0, time.UTC), "2024-03-27"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCell(tt.in))
		})
	}
}

func TestExcelWriter_WriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	w := NewExcelWriter(dir, testLogger())

	path, err := w.WriteWorkbook("market-report", map[string]*query.Table{
		"state_yield_stats": sampleTable(),
		"a_very_long_metric_name_that_exceeds_the_sheet_limit": sampleTable(),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "market-report.xlsx"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
