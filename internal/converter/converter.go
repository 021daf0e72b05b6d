package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/datecast/internal/csvio"
	"github.com/nconklindev/datecast/internal/isodate"
	"github.com/nconklindev/datecast/internal/types"
	"github.com/nconklindev/datecast/internal/xlsxio"

	"github.com/rs/zerolog/log"
)

const RowDetectionLimit = 10

// Options control how ConvertFile opens its input and output.
type Options struct {
	// Encoding of CSV input, see csvio.Encodings.
	Encoding string
	// CRLF terminates CSV output rows with \r\n.
	CRLF bool
	// Stdin and Stdout stand in for an empty or "-" path.
	Stdin  io.Reader
	Stdout io.Writer
}

func isStdio(path string) bool {
	return path == "" || path == "-"
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// input is an opened row source that can estimate how far it has read.
type input struct {
	RowReader
	close    func() error
	fraction func(rows int) float64
}

func openInput(path string, opts Options) (*input, error) {
	if isStdio(path) {
		r, err := csvio.NewReader(opts.Stdin, opts.Encoding)
		if err != nil {
			return nil, err
		}
		return &input{
			RowReader: r,
			close:     func() error { return nil },
			fraction:  func(int) float64 { return 0 },
		}, nil
	}

	if isXLSX(path) {
		r, err := xlsxio.Open(path)
		if err != nil {
			return nil, err
		}
		total := r.TotalRows()
		return &input{
			RowReader: r,
			close:     r.Close,
			fraction: func(rows int) float64 {
				if total == 0 {
					return 1
				}
				return float64(rows) / float64(total)
			},
		}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var size int64
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}
	cr := &countingReader{r: f}
	r, err := csvio.NewReader(cr, opts.Encoding)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &input{
		RowReader: r,
		close:     f.Close,
		fraction: func(int) float64 {
			if size == 0 {
				return 1
			}
			return float64(cr.n) / float64(size)
		},
	}, nil
}

type output struct {
	RowWriter
	close func() error
}

func createOutput(path string, opts Options) (*output, error) {
	var dst io.Writer = opts.Stdout
	closeFn := func() error { return nil }
	if !isStdio(path) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		dst = f
		closeFn = f.Close
	}

	if !isStdio(path) && isXLSX(path) {
		w, err := xlsxio.NewWriter(dst)
		if err != nil {
			closeFn()
			return nil, err
		}
		return &output{RowWriter: w, close: closeFn}, nil
	}

	w := csvio.NewWriter(dst)
	w.UseCRLF = opts.CRLF
	return &output{RowWriter: w, close: closeFn}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// ConvertFile converts inputFile into outputFile, choosing CSV or XLSX by
// extension. An empty or "-" path means standard input or output, which are
// always CSV. Progress fractions are sent to progressChan without blocking.
func ConvertFile(inputFile, outputFile string, t *Transformer, opts Options, progressChan chan<- float64) (*types.ConversionResult, error) {
	in, err := openInput(inputFile, opts)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer in.close()

	out, err := createOutput(outputFile, opts)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	var report func(int)
	if progressChan != nil {
		report = func(rows int) {
			select {
			case progressChan <- in.fraction(rows):
			default:
			}
		}
	}

	rows, err := Convert(in, out, t, report)
	if cerr := out.close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	log.Debug().
		Str("input", inputFile).
		Str("output", outputFile).
		Int("rows", rows).
		Err(err).
		Msg("conversion finished")
	if err != nil {
		return nil, err
	}

	return &types.ConversionResult{
		InputFile:     inputFile,
		OutputFile:    outputFile,
		ColumnsFound:  t.Describe(nil),
		RowsProcessed: rows,
	}, nil
}

// AutoDetectColumns suggests a conversion per column from the first sample
// rows: all non-empty values date-only gives a date column, all parseable with
// at least one time of day gives a timestamp column.
func AutoDetectColumns(data *types.FileData) map[int]types.ColumnKind {
	detected := make(map[int]types.ColumnKind)

	for i := range data.Headers {
		kind := types.KindDate
		checkedRows := 0

		for j := 0; j < len(data.Rows) && j < RowDetectionLimit; j++ {
			if i >= len(data.Rows[j]) {
				continue
			}
			val := strings.TrimSpace(data.Rows[j][i])
			if val == "" {
				continue
			}
			switch isodate.Classify(val) {
			case types.KindNone:
				kind = types.KindNone
			case types.KindTimestamp:
				if kind == types.KindDate {
					kind = types.KindTimestamp
				}
			}
			if kind == types.KindNone {
				break
			}
			checkedRows++
		}

		if kind != types.KindNone && checkedRows > 0 {
			detected[i] = kind
		}
	}

	return detected
}

// ReadFileData reads headers and sample rows from a file
func ReadFileData(filePath string) (*types.FileData, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".csv":
		return readCSVData(filePath)
	case ".xlsx":
		return readXLSXData(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

func readSample(r RowReader, limit int) ([][]string, error) {
	var rows [][]string
	for len(rows) < limit {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, append([]string(nil), row...))
	}
	return rows, nil
}

func readCSVData(filePath string) (*types.FileData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader, err := csvio.NewReader(file, "")
	if err != nil {
		return nil, err
	}
	records, err := readSample(reader, RowDetectionLimit+1)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	return &types.FileData{
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}

func readXLSXData(filePath string) (*types.FileData, error) {
	reader, err := xlsxio.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	rows, err := readSample(reader, RowDetectionLimit*3)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	// Find the header row (first row with multiple non-empty cells)
	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		return nil, fmt.Errorf("could not find header row")
	}

	return &types.FileData{
		Headers:   rows[headerRowIdx],
		Rows:      rows[headerRowIdx+1:],
		HeaderRow: headerRowIdx,
	}, nil
}

// findHeaderRow locates the first row that appears to be a header
// by finding the row with the most non-empty text cells
func findHeaderRow(rows [][]string) int {
	maxNonEmpty := 0
	headerIdx := -1

	searchLimit := len(rows)
	if searchLimit > RowDetectionLimit*2 {
		searchLimit = RowDetectionLimit * 2
	}

	for i := 0; i < searchLimit; i++ {
		nonEmptyCount := 0
		hasText := false

		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed != "" {
				nonEmptyCount++
				if containsLetters(trimmed) && isodate.Classify(trimmed) == types.KindNone {
					hasText = true
				}
			}
		}

		// Header should have multiple columns AND contain text
		if nonEmptyCount >= 2 && hasText && nonEmptyCount > maxNonEmpty {
			maxNonEmpty = nonEmptyCount
			headerIdx = i
		}
	}

	return headerIdx
}

// containsLetters checks if a string contains any alphabetic characters
func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
