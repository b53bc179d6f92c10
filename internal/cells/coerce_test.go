package cells_test

import (
	"math"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/cells"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/testutil"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/workbook"
)

// TestNumeric tests currency coercion.
//
// WHY: Loan and policy sheets mix typed numbers with formatted text and sentinel
// phrases; every one of them must land on a number without ever failing.
func TestNumeric(t *testing.T) {
	tests := []struct {
		name string
		cell workbook.Cell
		want float64
	}{
		{"currency text", workbook.Text("$1,234.56"), 1234.56},
		{"plain text", workbook.Text("1234.56"), 1234.56},
		{"number", workbook.Number(1234.56), 1234.56},
		{"padded text", workbook.Text("  $ 2,000 "), 2000},
		{"negative text", workbook.Text("-15.5"), -15.5},
		{"interest only", workbook.Text("interest only"), 0},
		{"interest only mixed case", workbook.Text("Interest Only"), 0},
		{"n/a", workbook.Text("n/a"), 0},
		{"N/A upper", workbook.Text("N/A"), 0},
		{"empty text", workbook.Text(""), 0},
		{"empty cell", workbook.Empty, 0},
		{"garbage", workbook.Text("twelve"), 0},
		{"error cell", workbook.ErrorValue("#N/A"), 0},
		{"date cell", workbook.Date(time.Now()), 0},
		{"nan number", workbook.Number(math.NaN()), 0},
		{"infinite number", workbook.Number(math.Inf(1)), 0},
		{"nan text", workbook.Text("NaN"), 0},
		{"infinity text", workbook.Text("-Infinity"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cells.Numeric(tt.cell); got != tt.want {
				t.Errorf("Numeric(%v) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}
}

// TestNumeric_DateFormattedCell tests a date typed into an amount column.
//
// WHY: Spreadsheets store dates as serial numbers; without the cell format the amount
// would read as roughly 45,000 dollars instead of nothing.
func TestNumeric_DateFormattedCell(t *testing.T) {
	data := testutil.WriteXLSX(t, testutil.SheetSpec{Name: "#1", Cells: map[string]any{
		"D11": time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		"E11": 45838.0,
	}})
	wb, err := workbook.Open(data)
	if err != nil {
		t.Fatalf("Open() returned unexpected error: %v", err)
	}
	sheet, _ := wb.Sheet("#1")

	if got := cells.Numeric(sheet.Cell("D11")); got != 0 {
		t.Errorf("Expected date-formatted cell to coerce to 0, got %v", got)
	}
	if got := cells.Numeric(sheet.Cell("E11")); got != 45838 {
		t.Errorf("Expected plain number 45838, got %v", got)
	}
	if d, ok := cells.Date(sheet.Cell("D11")); !ok || d.Day() != 30 {
		t.Errorf("Expected the date to survive as a date, got %v (%v)", d, ok)
	}
}

// TestDate tests date coercion from serials, text and date cells.
//
// WHY: The as-of date, start dates and ledger months arrive in every representation a
// spreadsheet can produce; serials must use the 1899-12-30 epoch and failures must be
// distinguishable from a real date.
func TestDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	t.Run("non-finite serials are not dates", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			if _, ok := cells.Date(workbook.Number(v)); ok {
				t.Errorf("Date(%v) should not yield a date", v)
			}
		}
	})

	t.Run("serial numbers count days from 1899-12-30", func(t *testing.T) {
		for _, n := range []int{0, 1, 2, 60, 61, 45000, 45474} {
			got, ok := cells.Date(workbook.Number(float64(n)))
			if !ok {
				t.Fatalf("Date(%d) returned no date", n)
			}
			want := day(1899, time.December, 30).AddDate(0, 0, n)
			if !got.Equal(want) {
				t.Errorf("Date(%d) = %v, want %v", n, got, want)
			}
		}
	})

	t.Run("serial 1 is 1899-12-31", func(t *testing.T) {
		got, _ := cells.Date(workbook.Number(1))
		if !got.Equal(day(1899, time.December, 31)) {
			t.Errorf("Expected 1899-12-31, got %v", got)
		}
	})

	t.Run("fractional serial keeps the time of day", func(t *testing.T) {
		got, _ := cells.Date(workbook.Number(45474.5))
		want := day(1899, time.December, 30).AddDate(0, 0, 45474).Add(12 * time.Hour)
		if !got.Equal(want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("date cells are returned unchanged", func(t *testing.T) {
		in := time.Date(2025, time.July, 4, 10, 30, 0, 0, time.UTC)
		got, ok := cells.Date(workbook.Date(in))
		if !ok || !got.Equal(in) {
			t.Errorf("Expected %v, got %v (ok=%v)", in, got, ok)
		}
	})

	t.Run("text dates are parsed", func(t *testing.T) {
		cases := map[string]time.Time{
			"2025-06-30":          day(2025, time.June, 30),
			"6/30/2025":           day(2025, time.June, 30),
			"06/30/2025":          day(2025, time.June, 30),
			"30-Jun-2025":         day(2025, time.June, 30),
			"June 30, 2025":       day(2025, time.June, 30),
			"2025-06-30 00:00:00": day(2025, time.June, 30),
		}
		for in, want := range cases {
			got, ok := cells.Date(workbook.Text(in))
			if !ok || !got.Equal(want) {
				t.Errorf("Date(%q) = %v (ok=%v), want %v", in, got, ok, want)
			}
		}
	})

	t.Run("numeric text falls back to a serial", func(t *testing.T) {
		got, ok := cells.Date(workbook.Text("45474"))
		if !ok || !got.Equal(day(2024, time.July, 1)) {
			t.Errorf("Expected 2024-07-01, got %v (ok=%v)", got, ok)
		}
	})

	t.Run("unparseable values yield no date", func(t *testing.T) {
		for _, c := range []workbook.Cell{
			workbook.Text("not a date"),
			workbook.Empty,
			workbook.ErrorValue("#REF!"),
			workbook.Number(1e12),
		} {
			if got, ok := cells.Date(c); ok {
				t.Errorf("Date(%v) = %v, expected no date", c, got)
			}
			if cells.DatePtr(c) != nil {
				t.Errorf("DatePtr(%v) expected nil", c)
			}
		}
	})
}

// TestFirstNonEmpty tests ordered cell resolution.
//
// WHY: The same logical field sits at different coordinates across sheet variants;
// the first populated candidate must win and the default must only apply when all are blank.
func TestFirstNonEmpty(t *testing.T) {
	sheet := workbook.NewSheet("#1").
		Set("A2", workbook.Text("Fallback Borrower")).
		Set("C3", workbook.Number(5))

	t.Run("returns first populated location", func(t *testing.T) {
		got := cells.FirstNonEmpty(sheet, []string{"B2", "A2"}, workbook.Empty)
		if got.Text != "Fallback Borrower" {
			t.Errorf("Expected A2 value, got %v", got)
		}
	})

	t.Run("respects candidate order", func(t *testing.T) {
		sheet := workbook.NewSheet("#2").
			Set("A2", workbook.Text("A")).
			Set("B2", workbook.Text("B"))
		got := cells.FirstNonEmpty(sheet, []string{"B2", "A2"}, workbook.Empty)
		if got.Text != "B" {
			t.Errorf("Expected B2 to win, got %v", got)
		}
	})

	t.Run("returns default when nothing is populated", func(t *testing.T) {
		def := workbook.Text("default")
		got := cells.FirstNonEmpty(sheet, []string{"D1", "E1"}, def)
		if got != def {
			t.Errorf("Expected default, got %v", got)
		}
	})

	t.Run("first positive skips zero candidates", func(t *testing.T) {
		if got := cells.FirstPositive(sheet, []string{"B3", "C3"}); got != 5 {
			t.Errorf("Expected 5, got %v", got)
		}
	})
}

func TestText(t *testing.T) {
	if got := cells.Text(workbook.Number(1001)); got != "1001" {
		t.Errorf("Expected 1001, got %q", got)
	}
	if got := cells.Text(workbook.Text("  LS-01 ")); got != "LS-01" {
		t.Errorf("Expected LS-01, got %q", got)
	}
}
