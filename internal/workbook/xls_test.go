package workbook

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// TestTextualCell tests typing of the formatted text the xls decoder returns.
//
// WHY: strconv accepts "NaN" and "Inf"; letting those through as numbers would feed
// non-finite values into every total.
func TestTextualCell(t *testing.T) {
	tests := []struct {
		raw      string
		wantKind Kind
		wantNum  float64
	}{
		{"1234.56", KindNumber, 1234.56},
		{"-250", KindNumber, -250},
		{"1e3", KindNumber, 1000},
		{"$1,234.56", KindText, 0},
		{"Interest Only", KindText, 0},
		{"nan", KindText, 0},
		{"NaN", KindText, 0},
		{"inf", KindText, 0},
		{"-Infinity", KindText, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := textualCell(tt.raw)
			if c.Kind != tt.wantKind {
				t.Fatalf("Expected %s, got %s", tt.wantKind, c.Kind)
			}
			if tt.wantKind == KindNumber && c.Number != tt.wantNum {
				t.Errorf("Expected %v, got %v", tt.wantNum, c.Number)
			}
		})
	}
}

func TestTypedXLSXCell_NonFinite(t *testing.T) {
	for _, raw := range []string{"NaN", "+Inf", "infinity"} {
		if c := typedXLSXCell(excelize.CellTypeUnset, raw); c.Kind != KindText {
			t.Errorf("%q: expected text, got %s", raw, c.Kind)
		}
	}
}
