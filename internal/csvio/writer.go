package csvio

import (
	"bufio"
	"errors"
	"io"
)

const defaultBufferSize = 64 << 10

var errNilWriter = errors.New("csvio: writer is nil")

// Writer emits comma separated records with minimal quoting: a field is
// quoted only when it holds the delimiter, a quote, CR or LF.
type Writer struct {
	dst *bufio.Writer

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// UseCRLF terminates records with \r\n.
	UseCRLF bool

	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		dst:   bufio.NewWriterSize(w, defaultBufferSize),
		Comma: ',',
	}
}

// Write emits one record. A record made of a single empty field is written
// as "" so it survives a round trip as a row rather than a blank line.
func (w *Writer) Write(record []string) error {
	if w == nil || w.dst == nil {
		return errNilWriter
	}
	if w.err != nil {
		return w.err
	}

	comma := w.Comma
	if comma == 0 {
		comma = ','
	}

	if len(record) == 1 && record[0] == "" {
		_, w.err = w.dst.WriteString(`""`)
	} else {
		for i, field := range record {
			if i > 0 {
				if w.err = w.dst.WriteByte(comma); w.err != nil {
					return w.err
				}
			}
			if w.err = w.writeField(field, comma); w.err != nil {
				return w.err
			}
		}
	}
	if w.err != nil {
		return w.err
	}

	if w.UseCRLF {
		_, w.err = w.dst.WriteString("\r\n")
	} else {
		w.err = w.dst.WriteByte('\n')
	}
	return w.err
}

// Flush writes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil || w.dst == nil {
		return errNilWriter
	}
	if w.err != nil {
		return w.err
	}
	w.err = w.dst.Flush()
	return w.err
}

func (w *Writer) writeField(field string, comma byte) error {
	if !fieldNeedsQuote(field, comma) {
		_, err := w.dst.WriteString(field)
		return err
	}
	if err := w.dst.WriteByte('"'); err != nil {
		return err
	}

	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == '"' {
			if _, err := w.dst.WriteString(field[start:i]); err != nil {
				return err
			}
			if _, err := w.dst.WriteString(`""`); err != nil {
				return err
			}
			start = i + 1
		}
	}
	if _, err := w.dst.WriteString(field[start:]); err != nil {
		return err
	}
	return w.dst.WriteByte('"')
}

func fieldNeedsQuote(field string, comma byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '"', comma, '\n', '\r':
			return true
		}
	}
	return false
}
