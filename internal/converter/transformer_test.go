package converter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nconklindev/datecast/internal/isodate"
	"github.com/nconklindev/datecast/internal/types"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name     string
		dateCols []int
		tsCols   []int
		row      []string
		expected []string
	}{
		{
			name:     "Date column",
			dateCols: []int{1},
			row:      []string{"1", "2020-01-02"},
			expected: []string{"1", "20200102"},
		},
		{
			name:     "Timestamp column",
			tsCols:   []int{1},
			row:      []string{"a", "2020-01-02T03:04:05+00:00"},
			expected: []string{"a", "1577934245"},
		},
		{
			name:     "Both kinds, other columns untouched",
			dateCols: []int{2},
			tsCols:   []int{0},
			row:      []string{"1970-01-01T00:01:00Z", " keep me ", "2024-02-29T12:00:00", ""},
			expected: []string{"60", " keep me ", "20240229", ""},
		},
		{
			name:     "First column",
			dateCols: []int{0},
			row:      []string{"2020-01-02", "x"},
			expected: []string{"20200102", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.dateCols, tt.tsCols, nil)
			row := append([]string(nil), tt.row...)
			if err := tr.Transform(1, row); err != nil {
				t.Fatalf("Transform() error: %v", err)
			}
			if strings.Join(row, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("Transform() = %q; want %q", row, tt.expected)
			}
		})
	}
}

func TestTransform_Errors(t *testing.T) {
	tests := []struct {
		name     string
		dateCols []int
		tsCols   []int
		row      []string
		column   int
		wrapped  error
		message  string
	}{
		{
			name:     "Invalid date",
			dateCols: []int{1},
			row:      []string{"x", "not-a-date"},
			column:   2,
			wrapped:  isodate.ErrInvalidFormat,
			message:  `Line 3, column 2: invalid isoformat string: "not-a-date"`,
		},
		{
			name:     "Dates are checked before timestamps",
			dateCols: []int{2},
			tsCols:   []int{0},
			row:      []string{"bad", "x", "also bad"},
			column:   3,
			wrapped:  isodate.ErrInvalidFormat,
		},
		{
			name:     "Supplied order is kept",
			dateCols: []int{2, 0},
			row:      []string{"bad", "x", "worse"},
			column:   3,
			wrapped:  isodate.ErrInvalidFormat,
		},
		{
			name:    "Short row",
			tsCols:  []int{4},
			row:     []string{"a", "b"},
			column:  5,
			wrapped: ErrColumnOutOfRange,
			message: "Line 3, column 5: column index out of range: row has 2 columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.dateCols, tt.tsCols, nil)
			err := tr.Transform(3, tt.row)

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Transform() error = %v; want *ParseError", err)
			}
			if pe.Row != 3 || pe.Column != tt.column {
				t.Errorf("ParseError at %d:%d; want 3:%d", pe.Row, pe.Column, tt.column)
			}
			if !errors.Is(err, tt.wrapped) {
				t.Errorf("error %v does not wrap %v", err, tt.wrapped)
			}
			if tt.message != "" && err.Error() != tt.message {
				t.Errorf("Error() = %q; want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestTransform_SkipRows(t *testing.T) {
	tr := New([]int{0}, nil, nil)
	tr.SkipRows = 1

	header := []string{"When"}
	if err := tr.Transform(1, header); err != nil {
		t.Fatalf("header row: %v", err)
	}
	if header[0] != "When" {
		t.Errorf("header rewritten to %q", header[0])
	}

	row := []string{"2020-01-02"}
	if err := tr.Transform(2, row); err != nil {
		t.Fatal(err)
	}
	if row[0] != "20200102" {
		t.Errorf("data row = %q; want 20200102", row[0])
	}
}

func TestTransform_NaiveLocation(t *testing.T) {
	loc := time.FixedZone("UTC-1", -60*60)
	tr := New(nil, []int{0}, loc)

	row := []string{"1970-01-01T00:00:00"}
	if err := tr.Transform(1, row); err != nil {
		t.Fatal(err)
	}
	if row[0] != "3600" {
		t.Errorf("naive midnight in UTC-1 = %s; want 3600", row[0])
	}
}

func TestFromKindsAndDescribe(t *testing.T) {
	kinds := map[int]types.ColumnKind{
		0: types.KindTimestamp,
		2: types.KindDate,
		3: types.KindNone,
	}
	tr := FromKinds(kinds, 4, nil)
	if tr.Empty() {
		t.Fatal("FromKinds() returned an empty transformer")
	}

	got := tr.Describe([]string{"Seen", "Name", "Born"})
	want := []string{"Born (date)", "Seen (timestamp)"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Describe() = %v; want %v", got, want)
	}

	if got := New([]int{5}, nil, nil).Describe(nil); got[0] != "column 6 (date)" {
		t.Errorf("Describe(nil) = %v", got)
	}

	if !FromKinds(nil, 3, nil).Empty() {
		t.Error("FromKinds(nil) is not empty")
	}
}
