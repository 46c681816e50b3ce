// Package dataset provides an ordered, nullable tabular container shared by
// the CSV loader, the SQLite store, and the reconciliation engine. Cells are
// text because both boundary formats are text; nil marks SQL NULL.
package dataset

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"medshift/internal/normalize"
)

// Table holds rows in insertion order under a fixed column set.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]*string
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}
	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
	}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AppendRow adds one row of nullable cells.
func (t *Table) AppendRow(cells []*string) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	row := make([]*string, len(cells))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// AppendStrings adds one row where every cell is present.
func (t *Table) AppendStrings(cells []string) error {
	row := make([]*string, len(cells))
	for i := range cells {
		value := cells[i]
		row[i] = &value
	}
	return t.AppendRow(row)
}

// Cell returns the raw nullable cell for a row and column. A missing column
// yields nil, same as a NULL cell.
func (t *Table) Cell(row int, column string) *string {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return nil
	}
	return t.rows[row][i]
}

// Value returns the cell text and whether the cell is present. NULL cells
// and cells holding a blank token are both absent.
func (t *Table) Value(row int, column string) (string, bool) {
	cell := t.Cell(row, column)
	if cell == nil || normalize.IsBlank(*cell) {
		return "", false
	}
	return *cell, true
}

// NullCount counts absent cells in a column: NULLs plus blank tokens.
func (t *Table) NullCount(column string) int {
	i, ok := t.index[column]
	if !ok {
		return 0
	}
	count := 0
	for _, row := range t.rows {
		if row[i] == nil || normalize.IsBlank(*row[i]) {
			count++
		}
	}
	return count
}

// Mean averages the numeric values of a column, skipping absent cells.
// The second return is false when no cell could contribute.
func (t *Table) Mean(column string) (float64, bool) {
	i, ok := t.index[column]
	if !ok {
		return 0, false
	}
	var sum float64
	var n int
	for _, row := range t.rows {
		if row[i] == nil || normalize.IsBlank(*row[i]) {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(*row[i]), 64)
		if err != nil {
			continue
		}
		sum += value
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// ValueSet collects the distinct present values of a column.
func (t *Table) ValueSet(column string) map[string]struct{} {
	set := make(map[string]struct{})
	for row := 0; row < t.Len(); row++ {
		if value, ok := t.Value(row, column); ok {
			set[value] = struct{}{}
		}
	}
	return set
}

// CSV serializes the table as CSV with a header row; NULL cells render
// empty. The output feeds the dataset digests, so it must be deterministic.
func (t *Table) CSV() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(t.columns)
	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, cell := range row {
			if cell == nil {
				record[i] = ""
			} else {
				record[i] = *cell
			}
		}
		_ = w.Write(record)
	}
	w.Flush()
	return sb.String()
}

// RowSnapshot renders one row as a single-line string for failure exports.
func (t *Table) RowSnapshot(row int) string {
	if row < 0 || row >= len(t.rows) {
		return ""
	}
	parts := make([]string, 0, len(t.columns))
	for i, name := range t.columns {
		cell := t.rows[row][i]
		if cell == nil {
			parts = append(parts, name+"=NULL")
		} else {
			parts = append(parts, name+"="+*cell)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
