package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encodings lists the input encodings NewReader understands.
var Encodings = []string{"utf-8", "utf-16", "utf-16le", "utf-16be", "latin1", "windows-1252"}

// LookupEncoding maps a user supplied encoding name to its decoder.
// UTF-8 and UTF-16 decoders consume a leading byte order mark.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q (want one of %s)", name, strings.Join(Encodings, ", "))
}

// Reader yields CSV records decoded from the configured text encoding.
// Blank lines are returned as records with no fields, one per line, so the
// n-th record read is always the n-th row of the input.
type Reader struct {
	csv   *csv.Reader
	src   *lineCounter
	line  int // last physical line consumed by a returned record
	blank int // blank lines owed before held
	held  []string
}

// NewReader wraps r. Records may have any number of fields and the returned
// slice is reused between calls.
func NewReader(r io.Reader, enc string) (*Reader, error) {
	e, err := LookupEncoding(enc)
	if err != nil {
		return nil, err
	}

	src := &lineCounter{r: transform.NewReader(r, e.NewDecoder())}
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{csv: cr, src: src}, nil
}

// Read returns the next record or io.EOF.
func (r *Reader) Read() ([]string, error) {
	if r.blank > 0 {
		return r.emptyRow(), nil
	}
	if r.held != nil {
		rec := r.held
		r.held = nil
		r.consumed(rec)
		return rec, nil
	}

	rec, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		// encoding/csv drops trailing blank lines along with the others.
		if r.blank = r.src.lines() - r.line; r.blank > 0 {
			return r.emptyRow(), nil
		}
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	start, _ := r.csv.FieldPos(0)
	if gap := start - r.line - 1; gap > 0 {
		r.blank = gap
		r.held = rec
		return r.emptyRow(), nil
	}
	r.consumed(rec)
	return rec, nil
}

func (r *Reader) emptyRow() []string {
	r.blank--
	r.line++
	return []string{}
}

// consumed advances past rec, whose last field may span several lines.
func (r *Reader) consumed(rec []string) {
	last := len(rec) - 1
	line, _ := r.csv.FieldPos(last)
	r.line = line + strings.Count(rec[last], "\n")
}

// lineCounter counts the lines of the decoded text read through it.
type lineCounter struct {
	r        io.Reader
	newlines int
	last     byte
	seen     bool
}

func (c *lineCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.newlines += bytes.Count(p[:n], []byte{'\n'})
		c.last = p[n-1]
		c.seen = true
	}
	return n, err
}

// lines reports the number of lines read so far, counting an unterminated
// final line.
func (c *lineCounter) lines() int {
	if c.seen && c.last != '\n' {
		return c.newlines + 1
	}
	return c.newlines
}
