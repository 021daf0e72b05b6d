package converter

import (
	"errors"
	"fmt"
	"io"
)

// RowReader yields records until io.EOF.
type RowReader interface {
	Read() ([]string, error)
}

// RowWriter accepts records and flushes them to their destination.
type RowWriter interface {
	Write(record []string) error
	Flush() error
}

// Convert reads, transforms and writes one row at a time. It stops at the
// first failure without writing the offending row; rows written before it
// are still flushed. progress, when set, is called with the number of rows
// written so far. Convert returns the number of rows written.
func Convert(r RowReader, w RowWriter, t *Transformer, progress func(rows int)) (int, error) {
	rowNum := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rowNum, flushAfter(w, fmt.Errorf("read row %d: %w", rowNum+1, err))
		}
		rowNum++

		if err := t.Transform(rowNum, row); err != nil {
			return rowNum - 1, flushAfter(w, err)
		}
		if err := w.Write(row); err != nil {
			return rowNum - 1, fmt.Errorf("write row %d: %w", rowNum, err)
		}
		if progress != nil {
			progress(rowNum)
		}
	}

	if err := w.Flush(); err != nil {
		return rowNum, fmt.Errorf("flush output: %w", err)
	}
	return rowNum, nil
}

// flushAfter keeps cause as the reported error; a flush failure is only
// attached to it.
func flushAfter(w RowWriter, cause error) error {
	if err := w.Flush(); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
