// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package warehouse

import (
	"testing"
	"time"
)

func TestRowCaseInsensitiveAccess(t *testing.T) {
	// The warehouse reports identifiers in upper case.
	tbl := NewTable(
		[]string{"FILE_COUNT", "TOTAL_SIZE_BYTES", "PROJECT_NAME"},
		[][]any{{int64(1200), float64(9.5e9), "HTAN Phase 2"}},
	)

	row := tbl.Row(0)
	if got := row.Int64("file_count"); got != 1200 {
		t.Errorf("Int64(file_count) = %d, want 1200", got)
	}
	if got := row.Float64("Total_Size_Bytes"); got != 9.5e9 {
		t.Errorf("Float64 = %v, want 9.5e9", got)
	}
	if got := row.String("PROJECT_NAME"); got != "HTAN Phase 2" {
		t.Errorf("String = %q", got)
	}
}

func TestRowTypeConversions(t *testing.T) {
	tbl := NewTable(
		[]string{"n_int", "n_float", "n_str", "n_bytes", "n_null"},
		[][]any{{int64(42), float64(42.9), "42", []byte("42.5"), nil}},
	)
	row := tbl.Row(0)

	tests := []struct {
		col  string
		want int64
	}{
		{"n_int", 42},
		{"n_float", 42},
		{"n_str", 42},
		{"n_bytes", 42},
		{"n_null", 0},
		{"missing", 0},
	}
	for _, tt := range tests {
		if got := row.Int64(tt.col); got != tt.want {
			t.Errorf("Int64(%s) = %d, want %d", tt.col, got, tt.want)
		}
	}

	if got := row.Float64("n_bytes"); got != 42.5 {
		t.Errorf("Float64(n_bytes) = %v, want 42.5", got)
	}
	if !row.IsNull("n_null") {
		t.Error("IsNull(n_null) = false")
	}
	if row.IsNull("n_int") {
		t.Error("IsNull(n_int) = true")
	}
}

func TestRowTimeParsing(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	tbl := NewTable(
		[]string{"as_time", "as_date_string", "as_ts_string"},
		[][]any{{ts, "2024-03-15", "2024-03-15 10:30:00"}},
	)
	row := tbl.Row(0)

	if got := row.Time("as_time"); !got.Equal(ts) {
		t.Errorf("Time(as_time) = %v", got)
	}
	if got := row.Time("as_date_string"); got.Year() != 2024 || got.Month() != 3 || got.Day() != 15 {
		t.Errorf("Time(as_date_string) = %v", got)
	}
	if got := row.Time("as_ts_string"); got.Hour() != 10 || got.Minute() != 30 {
		t.Errorf("Time(as_ts_string) = %v", got)
	}
}

func TestEmptyTable(t *testing.T) {
	tbl := NewTable([]string{"active_days"}, nil)
	if !tbl.Empty() {
		t.Error("Empty() = false for zero rows")
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d", tbl.Len())
	}
}
