package converter

import (
	"errors"
	"fmt"
)

// ErrColumnOutOfRange is wrapped when a row has no cell at a configured index.
var ErrColumnOutOfRange = errors.New("column index out of range")

// ParseError locates a failed cell conversion. Row and Column are 1-based.
type ParseError struct {
	Row    int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("Line %d, column %d: %v", e.Row, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
