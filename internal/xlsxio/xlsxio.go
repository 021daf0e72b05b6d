// Package xlsxio adapts excelize workbooks to the row reader and writer
// interfaces used by the converter.
package xlsxio

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet names the sheet Writer creates.
const DefaultSheet = "Sheet1"

// Reader streams the rows of the first sheet of a workbook.
type Reader struct {
	file  *excelize.File
	rows  *excelize.Rows
	total int
	Sheet string
}

// Open opens the workbook at path.
func Open(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return newReader(f)
}

// NewReader reads a workbook from r.
func NewReader(r io.Reader) (*Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return newReader(f)
}

func newReader(f *excelize.File) (*Reader, error) {
	sheet := f.GetSheetName(0)
	total, err := countRows(f, sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open sheet %q: %w", sheet, err)
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open sheet %q: %w", sheet, err)
	}
	return &Reader{file: f, rows: rows, total: total, Sheet: sheet}, nil
}

// countRows walks the sheet once without decoding cells. The sheet
// dimension is not used since writers leave it stale.
func countRows(f *excelize.File, sheet string) (int, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return 0, err
	}
	n := 0
	for rows.Next() {
		n++
	}
	return n, errors.Join(rows.Error(), rows.Close())
}

// TotalRows reports the number of rows in the sheet.
func (r *Reader) TotalRows() int {
	return r.total
}

// Read returns the formatted cell values of the next row or io.EOF.
// Trailing empty cells are not included.
func (r *Reader) Read() ([]string, error) {
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return r.rows.Columns()
}

func (r *Reader) Close() error {
	return errors.Join(r.rows.Close(), r.file.Close())
}

// Writer collects rows into a new single-sheet workbook and saves it on
// Flush.
type Writer struct {
	dst    io.Writer
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
	done   bool
}

func NewWriter(dst io.Writer) (*Writer, error) {
	f := excelize.NewFile()
	sw, err := f.NewStreamWriter(DefaultSheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Writer{dst: dst, file: f, stream: sw}, nil
}

// Write appends a row of text cells.
func (w *Writer) Write(record []string) error {
	if w.done {
		return errors.New("xlsxio: write after flush")
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(record))
	for i, v := range record {
		values[i] = v
	}
	return w.stream.SetRow(cell, values)
}

// Flush writes the workbook to the destination. Only the first call has an
// effect.
func (w *Writer) Flush() error {
	if w.done {
		return nil
	}
	w.done = true
	defer w.file.Close()

	if err := w.stream.Flush(); err != nil {
		return err
	}
	return w.file.Write(w.dst)
}
