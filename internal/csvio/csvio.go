// Package csvio reads legacy source exports and writes the migration's CSV
// artifacts: target tables and rejected-record exports.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"medshift/internal/dataset"
	"medshift/internal/record"
)

// LoadTable reads a CSV file into a table. The first row is the header.
// Short rows are padded with empty cells and long rows truncated, so a
// ragged legacy export degrades to blank fields instead of failing the run.
func LoadTable(path string) (*dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("source csv %s is empty", filepath.Base(path))
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := dataset.New(header...)
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		cells := make([]string, len(header))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		if err := table.AppendStrings(cells); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// WriteTable writes a table as CSV, NULL cells rendered empty.
func WriteTable(path string, table *dataset.Table) error {
	if err := os.WriteFile(path, []byte(table.CSV()), 0o644); err != nil {
		return fmt.Errorf("write csv %s: %w", filepath.Base(path), err)
	}
	return nil
}

// rejectedColumns is the failure-export schema.
var rejectedColumns = []string{"row_index", "table", "legacy_id", "field", "error_message", "source_data"}

// WriteRejected exports rejected rows for one table into a timestamped file
// under dir and returns the file path. Nothing is written when rows is empty.
func WriteRejected(dir, table string, rows []record.Rejected, now time.Time) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	path := filepath.Join(dir, fmt.Sprintf("failed_%s_%s.csv", table, now.Format("20060102_150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create failure export: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(rejectedColumns); err != nil {
		return "", fmt.Errorf("write failure export header: %w", err)
	}
	for _, row := range rows {
		cells := []string{
			strconv.Itoa(row.RowIndex),
			row.Table,
			row.LegacyID,
			row.Field,
			row.ErrorMessage,
			row.SourceData,
		}
		if err := writer.Write(cells); err != nil {
			return "", fmt.Errorf("write failure export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush failure export: %w", err)
	}
	return path, nil
}

// CleanFailed removes failure exports left by previous runs and returns how
// many files were deleted.
func CleanFailed(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read failed dir: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("remove old failure export: %w", err)
		}
		removed++
	}
	return removed, nil
}
