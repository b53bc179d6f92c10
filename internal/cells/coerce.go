// Package cells converts raw workbook cells into typed values.
//
// None of these functions fail: unusable input degrades to 0 or to "no date", which is
// how loosely maintained workbooks are tolerated throughout extraction.
package cells

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/workbook"
)

// SerialEpoch is day zero of spreadsheet serial dates. It sits two days before
// 1900-01-01 to absorb the legacy 1900 leap-year bug.
var SerialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// zeroText are the (lower-cased) text values that mean "no amount".
var zeroText = map[string]bool{
	"interest only": true,
	"n/a":           true,
	"":              true,
}

// Numeric converts a cell to a float. Text has "$" and "," stripped before parsing;
// "Interest Only", "N/A", blank text, non-finite numbers and anything unparseable yield 0.
func Numeric(c workbook.Cell) float64 {
	switch c.Kind {
	case workbook.KindNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return 0
		}
		return c.Number
	case workbook.KindText:
		return ParseAmount(c.Text)
	default:
		return 0
	}
}

// ParseAmount parses currency text such as "$1,234.56".
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if zeroText[strings.ToLower(s)] {
		return 0
	}
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// dateLayouts are tried in order when a date arrives as text.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan-2006",
	"January 2006",
}

// Date converts a cell to a date. Date cells are returned as-is; numbers are serial
// day counts from SerialEpoch; text is parsed as a date and, failing that, as a serial
// number. ok is false when no date can be derived.
func Date(c workbook.Cell) (t time.Time, ok bool) {
	switch c.Kind {
	case workbook.KindDate:
		return c.Time, true
	case workbook.KindNumber:
		return FromSerial(c.Number)
	case workbook.KindText:
		return ParseDate(c.Text)
	default:
		return time.Time{}, false
	}
}

// ParseDate parses date text, falling back to a serial day count.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	return FromSerial(v)
}

// FromSerial converts a spreadsheet serial date (fractional days allowed) to a time.
func FromSerial(serial float64) (time.Time, bool) {
	// Beyond year 9999 in either direction is not a date any spreadsheet can hold.
	if math.IsNaN(serial) || serial < -693593 || serial > 2958465 {
		return time.Time{}, false
	}
	days := int(serial)
	frac := serial - float64(days)
	t := SerialEpoch.AddDate(0, 0, days)
	if frac != 0 {
		t = t.Add(time.Duration(frac * float64(24*time.Hour)).Round(time.Second))
	}
	return t, true
}

// DatePtr is Date returning nil for "no date".
func DatePtr(c workbook.Cell) *time.Time {
	t, ok := Date(c)
	if !ok {
		return nil
	}
	return &t
}

// Text returns the trimmed text form of a cell; numbers lose any trailing ".0".
func Text(c workbook.Cell) string {
	return strings.TrimSpace(c.String())
}

// FirstNonEmpty returns the cell at the first reference in refs that holds a value,
// or def when all of them are empty.
func FirstNonEmpty(sheet *workbook.Sheet, refs []string, def workbook.Cell) workbook.Cell {
	for _, ref := range refs {
		if c := sheet.Cell(ref); !c.IsEmpty() {
			return c
		}
	}
	return def
}

// FirstPositive returns the first strictly positive numeric value among refs, or 0.
func FirstPositive(sheet *workbook.Sheet, refs []string) float64 {
	for _, ref := range refs {
		if v := Numeric(sheet.Cell(ref)); v > 0 {
			return v
		}
	}
	return 0
}
