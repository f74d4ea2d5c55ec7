// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package warehouse

import (
	"strconv"
	"strings"
	"time"
)

// Table is an in-memory query result. Column lookup is case-insensitive
// because the warehouse reports identifiers in upper case while queries
// declare them in lower case.
type Table struct {
	Columns []string

	index map[string]int
	rows  [][]any
}

// NewTable builds a Table from a column list and row values.
func NewTable(columns []string, rows [][]any) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[strings.ToLower(c)] = i
	}
	return &Table{Columns: columns, index: idx, rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether the result has no rows.
func (t *Table) Empty() bool { return len(t.rows) == 0 }

// Row returns the i'th row. It panics on out-of-range access, matching
// slice semantics.
func (t *Table) Row(i int) Row {
	return Row{table: t, values: t.rows[i]}
}

// Row is one result row with typed, case-insensitive column accessors.
// Accessors return zero values for NULLs and unknown columns; use Value
// when the distinction matters.
type Row struct {
	table  *Table
	values []any
}

// Value returns the raw column value and whether the column exists.
func (r Row) Value(column string) (any, bool) {
	i, ok := r.table.index[strings.ToLower(column)]
	if !ok || i >= len(r.values) {
		return nil, false
	}
	return r.values[i], true
}

// IsNull reports whether the column is NULL or absent.
func (r Row) IsNull(column string) bool {
	v, ok := r.Value(column)
	return !ok || v == nil
}

// String returns the column as a string.
func (r Row) String(column string) string {
	v, ok := r.Value(column)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case time.Time:
		return s.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// Int64 returns the column as an int64. Snowflake NUMBER columns may
// arrive as int64, float64, or decimal strings depending on scale.
func (r Row) Int64(column string) int64 {
	v, ok := r.Value(column)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int64(f)
		}
		return 0
	case []byte:
		if i, err := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64); err == nil {
			return i
		}
		return 0
	default:
		return 0
	}
}

// Float64 returns the column as a float64.
func (r Row) Float64(column string) float64 {
	v, ok := r.Value(column)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
		return 0
	case []byte:
		if f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

// Time returns the column as a time.Time. String values are parsed from
// the warehouse's common date and timestamp layouts.
func (r Row) Time(column string) time.Time {
	v, ok := r.Value(column)
	if !ok || v == nil {
		return time.Time{}
	}
	switch ts := v.(type) {
	case time.Time:
		return ts
	case string:
		return parseWarehouseTime(ts)
	case []byte:
		return parseWarehouseTime(string(ts))
	default:
		return time.Time{}
	}
}

func parseWarehouseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
