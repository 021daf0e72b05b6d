package converter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nconklindev/datecast/internal/csvio"
)

func convertString(t *testing.T, input string, tr *Transformer) (string, int, error) {
	t.Helper()
	r, err := csvio.NewReader(strings.NewReader(input), "utf-8")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	w := csvio.NewWriter(&buf)
	n, err := Convert(r, w, tr, nil)
	return buf.String(), n, err
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		dateCols []int
		tsCols   []int
		expected string
		rows     int
	}{
		{
			name:     "Date scenario",
			input:    "1,2020-01-02\n",
			dateCols: []int{1},
			expected: "1,20200102\n",
			rows:     1,
		},
		{
			name:     "Timestamp scenario",
			input:    "a,2020-01-02T03:04:05+00:00\n",
			tsCols:   []int{1},
			expected: "a,1577934245\n",
			rows:     1,
		},
		{
			name:     "Quoted passthrough",
			input:    "\"x, y\",2020-01-02,\"multi\nline\"\r\nz,2021-12-31,\n",
			dateCols: []int{1},
			expected: "\"x, y\",20200102,\"multi\nline\"\nz,20211231,\n",
			rows:     2,
		},
		{
			name:     "Empty input",
			input:    "",
			dateCols: []int{0},
			expected: "",
			rows:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := convertString(t, tt.input, New(tt.dateCols, tt.tsCols, nil))
			if err != nil {
				t.Fatalf("Convert() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Convert() output = %q; want %q", got, tt.expected)
			}
			if n != tt.rows {
				t.Errorf("Convert() rows = %d; want %d", n, tt.rows)
			}
		})
	}
}

func TestConvert_StopsAtFirstFailure(t *testing.T) {
	input := "a,2020-01-01\nb,2020-01-02\nc,not-a-date\nd,2020-01-04\n"

	got, n, err := convertString(t, input, New([]int{1}, nil, nil))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Convert() error = %v; want *ParseError", err)
	}
	if pe.Row != 3 || pe.Column != 2 {
		t.Errorf("ParseError at %d:%d; want 3:2", pe.Row, pe.Column)
	}
	if n != 2 {
		t.Errorf("rows written = %d; want 2", n)
	}
	// Rows before the failure are flushed, the failing row and later ones are not.
	if got != "a,20200101\nb,20200102\n" {
		t.Errorf("output = %q", got)
	}
}

func TestConvert_FirstRowFailureWritesNothing(t *testing.T) {
	got, _, err := convertString(t, "x,not-a-date\n", New([]int{1}, nil, nil))
	if err == nil {
		t.Fatal("Convert() succeeded; want error")
	}
	if err.Error() != `Line 1, column 2: invalid isoformat string: "not-a-date"` {
		t.Errorf("error = %q", err.Error())
	}
	if got != "" {
		t.Errorf("output = %q; want nothing", got)
	}
}

func TestConvert_ShortRow(t *testing.T) {
	_, _, err := convertString(t, "2020-01-02,2020-01-02\n2020-01-02\n", New(nil, []int{1}, nil))
	var pe *ParseError
	if !errors.As(err, &pe) || !errors.Is(err, ErrColumnOutOfRange) {
		t.Fatalf("Convert() error = %v; want out of range ParseError", err)
	}
	if pe.Row != 2 {
		t.Errorf("ParseError row = %d; want 2", pe.Row)
	}
}

func TestConvert_BlankLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		row      int
		expected string
	}{
		{"Blank line is a short row", "a,2020-01-01\n\nb,bad\n", 2, "a,20200101\n"},
		{"Trailing blank line", "a,2020-01-01\n\n", 2, "a,20200101\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := convertString(t, tt.input, New([]int{1}, nil, nil))
			var pe *ParseError
			if !errors.As(err, &pe) || !errors.Is(err, ErrColumnOutOfRange) {
				t.Fatalf("Convert() error = %v; want out of range ParseError", err)
			}
			if pe.Row != tt.row || pe.Column != 2 {
				t.Errorf("ParseError at %d:%d; want %d:2", pe.Row, pe.Column, tt.row)
			}
			if got != tt.expected || n != 1 {
				t.Errorf("output = %q (%d rows); want %q", got, n, tt.expected)
			}
		})
	}
}

func TestConvert_BlankLineAfterHeader(t *testing.T) {
	tr := New([]int{1}, nil, nil)
	tr.SkipRows = 1
	_, _, err := convertString(t, "id,when\n\n1,2020-01-02\n", tr)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Row != 2 {
		t.Fatalf("Convert() error = %v; want ParseError on row 2", err)
	}
}

func TestConvert_LineNumbersCountBlankLines(t *testing.T) {
	tr := New([]int{1}, nil, nil)
	tr.SkipRows = 2
	got, n, err := convertString(t, "h,when\n\nb,2020-01-02\nc,bad\n", tr)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Row != 4 {
		t.Fatalf("Convert() error = %v; want ParseError on row 4", err)
	}
	if got != "h,when\n\nb,20200102\n" || n != 3 {
		t.Errorf("output = %q (%d rows)", got, n)
	}
}

func TestConvert_LineNumbersAfterMultilineField(t *testing.T) {
	input := "\"multi\nline\",2020-01-01\nb,bad\n"
	_, _, err := convertString(t, input, New([]int{1}, nil, nil))
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Row != 2 {
		t.Fatalf("Convert() error = %v; want ParseError on row 2", err)
	}
}

func TestConvert_ConvertedOutputIsRejected(t *testing.T) {
	tr := New([]int{1}, nil, nil)
	once, _, err := convertString(t, "1,2020-01-02\n", tr)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := convertString(t, once, tr); err == nil {
		t.Error("second pass over converted output succeeded; want error")
	}
}

func TestConvert_ReadError(t *testing.T) {
	_, n, err := convertString(t, "2020-01-02\n\"unterminated\n", New([]int{0}, nil, nil))
	if err == nil {
		t.Fatal("Convert() succeeded; want read error")
	}
	if !strings.Contains(err.Error(), "read row 2") {
		t.Errorf("error = %q; want read row 2", err.Error())
	}
	if n != 1 {
		t.Errorf("rows written = %d; want 1", n)
	}
}

func TestConvert_Progress(t *testing.T) {
	r, err := csvio.NewReader(strings.NewReader("2020-01-01\n2020-01-02\n2020-01-03\n"), "")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	var seen []int
	if _, err := Convert(r, csvio.NewWriter(&buf), New([]int{0}, nil, nil), func(rows int) {
		seen = append(seen, rows)
	}); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Errorf("progress calls = %v; want [1 2 3]", seen)
	}
}
