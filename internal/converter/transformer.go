package converter

import (
	"fmt"
	"time"

	"github.com/nconklindev/datecast/internal/isodate"
	"github.com/nconklindev/datecast/internal/types"
)

// Transformer rewrites the configured columns of a row in place.
type Transformer struct {
	dateCols []int
	tsCols   []int
	naive    *time.Location

	// SkipRows leading rows are passed through untouched.
	SkipRows int
}

// New builds a Transformer. Offset-less timestamps are read in naive, or UTC
// when naive is nil.
func New(dateCols, tsCols []int, naive *time.Location) *Transformer {
	if naive == nil {
		naive = time.UTC
	}
	return &Transformer{
		dateCols: append([]int(nil), dateCols...),
		tsCols:   append([]int(nil), tsCols...),
		naive:    naive,
	}
}

// FromKinds builds a Transformer from a per-column kind selection, in
// ascending column order.
func FromKinds(kinds map[int]types.ColumnKind, width int, naive *time.Location) *Transformer {
	var dateCols, tsCols []int
	for i := 0; i < width; i++ {
		switch kinds[i] {
		case types.KindDate:
			dateCols = append(dateCols, i)
		case types.KindTimestamp:
			tsCols = append(tsCols, i)
		}
	}
	return New(dateCols, tsCols, naive)
}

// Kinds returns the conversion configured for each column. A column listed
// as both date and timestamp reports timestamp.
func (t *Transformer) Kinds() map[int]types.ColumnKind {
	kinds := make(map[int]types.ColumnKind)
	for _, i := range t.dateCols {
		kinds[i] = types.KindDate
	}
	for _, i := range t.tsCols {
		kinds[i] = types.KindTimestamp
	}
	return kinds
}

// Naive returns the location used for offset-less timestamps.
func (t *Transformer) Naive() *time.Location {
	return t.naive
}

// Empty reports whether no column is configured.
func (t *Transformer) Empty() bool {
	return len(t.dateCols) == 0 && len(t.tsCols) == 0
}

// Transform converts date columns first, then timestamp columns, each in the
// order configured. rowNum is the 1-based position of row in the input and
// is only used for error reporting and SkipRows.
func (t *Transformer) Transform(rowNum int, row []string) error {
	if rowNum <= t.SkipRows {
		return nil
	}

	for _, i := range t.dateCols {
		if i >= len(row) {
			return outOfRange(rowNum, i, row)
		}
		v, err := isodate.ConvertDate(row[i])
		if err != nil {
			return &ParseError{Row: rowNum, Column: i + 1, Err: err}
		}
		row[i] = v
	}

	for _, i := range t.tsCols {
		if i >= len(row) {
			return outOfRange(rowNum, i, row)
		}
		v, err := isodate.ConvertTimestamp(row[i], t.naive)
		if err != nil {
			return &ParseError{Row: rowNum, Column: i + 1, Err: err}
		}
		row[i] = v
	}
	return nil
}

func outOfRange(rowNum, i int, row []string) error {
	return &ParseError{
		Row:    rowNum,
		Column: i + 1,
		Err:    fmt.Errorf("%w: row has %d columns", ErrColumnOutOfRange, len(row)),
	}
}

// Describe names the converted columns, using headers where available.
func (t *Transformer) Describe(headers []string) []string {
	name := func(i int) string {
		if i < len(headers) && headers[i] != "" {
			return headers[i]
		}
		return fmt.Sprintf("column %d", i+1)
	}

	var out []string
	for _, i := range t.dateCols {
		out = append(out, name(i)+" (date)")
	}
	for _, i := range t.tsCols {
		out = append(out, name(i)+" (timestamp)")
	}
	return out
}
