package model

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Table is a parsed CSV resource. Cells are kept as text until a typed decoder reads them.
type Table struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

const utf8BOM = "\ufeff"

// ParseCSV reads a header row followed by data rows.
func ParseCSV(name string, reader io.Reader) (*Table, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &DataError{Kind: KindSchemaMismatch, Resource: name,
			Expectation: "content must be well-formed csv", Err: err}
	}
	if len(records) == 0 {
		return nil, NewEmptyDatasetError(name, "a header row is required")
	}

	headers := make([]string, len(records[0]))
	for i, header := range records[0] {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		headers[i] = strings.TrimSpace(header)
	}

	return &Table{Name: name, Headers: headers, Rows: records[1:]}, nil
}

// ColumnIndex returns the position of a header.
func (t *Table) ColumnIndex(column string) (int, error) {
	for i, header := range t.Headers {
		if header == column {
			return i, nil
		}
	}
	return -1, NewSchemaMismatchError(t.Name, fmt.Sprintf("column %q is required", column))
}

// ColumnIndexes resolves all columns or fails on the first missing one.
func (t *Table) ColumnIndexes(columns ...string) (map[string]int, error) {
	indexes := make(map[string]int, len(columns))
	for _, column := range columns {
		i, err := t.ColumnIndex(column)
		if err != nil {
			return nil, err
		}
		indexes[column] = i
	}
	return indexes, nil
}

func (t *Table) cell(row, col int) string {
	if col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// Float reads a required numeric cell.
func (t *Table) Float(row int, column string, col int) (float64, error) {
	raw := t.cell(row, col)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, NewSchemaMismatchError(t.Name,
			fmt.Sprintf("column %q must be numeric, got %q on row %d", column, raw, row+1))
	}
	return value, nil
}

// OptionalFloat reads a numeric cell that may be empty. Empty decodes to NaN.
func (t *Table) OptionalFloat(row int, column string, col int) (float64, error) {
	raw := t.cell(row, col)
	if raw == "" || strings.EqualFold(raw, "nan") || strings.EqualFold(raw, "null") {
		return math.NaN(), nil
	}
	return t.Float(row, column, col)
}

// String reads a required non-empty cell.
func (t *Table) String(row int, column string, col int) (string, error) {
	raw := t.cell(row, col)
	if raw == "" {
		return "", NewSchemaMismatchError(t.Name,
			fmt.Sprintf("column %q must not be empty on row %d", column, row+1))
	}
	return raw, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05.000 -0700",
	"2006/01/02",
	"01/02/2006",
}

// Time reads a required date or timestamp cell.
func (t *Table) Time(row int, column string, col int) (time.Time, error) {
	raw := t.cell(row, col)
	if parsed, ok := ParseDate(raw); ok {
		return parsed, nil
	}
	return time.Time{}, NewSchemaMismatchError(t.Name,
		fmt.Sprintf("column %q must be a date, got %q on row %d", column, raw, row+1))
}

// ParseDate tries the date layouts found in the upstream extracts.
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
