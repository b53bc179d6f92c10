package testutil

import (
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SheetSpec describes one sheet to write: cell references mapped to values.
type SheetSpec struct {
	Name  string
	Cells map[string]any
}

// WriteXLSX writes the sheets, in order, to an in-memory .xlsx file and returns its bytes.
// Values are written with excelize.SetCellValue, so time.Time values become serial dates.
func WriteXLSX(t *testing.T, sheets ...SheetSpec) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("Failed to rename sheet to %q: %v", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("Failed to create sheet %q: %v", s.Name, err)
		}
		for cell, v := range s.Cells {
			if err := f.SetCellValue(s.Name, cell, v); err != nil {
				t.Fatalf("Failed to set %s!%s: %v", s.Name, cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	return buf.Bytes()
}

func ref(col string, row int) string {
	return col + strconv.Itoa(row)
}
