package types

// ColumnKind says how a column is converted.
type ColumnKind int

const (
	KindNone ColumnKind = iota
	KindDate
	KindTimestamp
)

func (k ColumnKind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindTimestamp:
		return "timestamp"
	}
	return "none"
}

// Next cycles none -> date -> timestamp -> none.
func (k ColumnKind) Next() ColumnKind {
	return (k + 1) % 3
}

type ConversionResult struct {
	InputFile     string
	OutputFile    string
	ColumnsFound  []string
	RowsProcessed int
}

type FileData struct {
	Headers   []string
	Rows      [][]string
	HeaderRow int
}
