package xlsxio

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	rows := [][]string{
		{"Name", "Born", "Seen"},
		{"Alice", "20200102", "1577934245"},
		{"Bob", "19991231", "946684799"},
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Errorf("second Flush: %v", err)
	}
	if err := w.Write([]string{"late"}); err == nil {
		t.Error("Write after Flush succeeded; want error")
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Sheet != DefaultSheet {
		t.Errorf("Sheet = %q; want %q", r.Sheet, DefaultSheet)
	}
	for i, want := range rows {
		got, err := r.Read()
		if err != nil {
			t.Fatalf("row %d: %v", i, err)
		}
		if len(got) != len(want) {
			t.Fatalf("row %d = %v; want %v", i, got, want)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("row %d col %d = %q; want %q", i, j, got[j], want[j])
			}
		}
	}
	if _, err := r.Read(); err != io.EOF {
		t.Errorf("Read after last row = %v; want io.EOF", err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "When")
	f.SetCellValue("Sheet1", "A2", "2020-01-02")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.TotalRows() != 2 {
		t.Errorf("TotalRows = %d; want 2", r.TotalRows())
	}
	first, err := r.Read()
	if err != nil || len(first) != 1 || first[0] != "When" {
		t.Errorf("first row = %v, %v", first, err)
	}
}

func TestOpen_TotalRowsCountsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaps.xlsx")

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "When")
	f.SetCellValue("Sheet1", "A4", "2020-01-02")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	read := 0
	for {
		if _, err := r.Read(); err != nil {
			break
		}
		read++
	}
	if r.TotalRows() != 4 || read != 4 {
		t.Errorf("TotalRows = %d, rows read = %d; want 4 and 4", r.TotalRows(), read)
	}
}
