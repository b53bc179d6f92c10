package workbook

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
)

// openXLSX reads every sheet of an .xlsx workbook into memory using cached formula values.
func openXLSX(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidWorkbook, err)
	}
	defer f.Close()

	styles := &dateStyles{f: f, known: make(map[int]bool)}
	wb := New()
	for _, name := range f.GetSheetList() {
		sheet, err := readXLSXSheet(f, styles, name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", apperrors.ErrInvalidWorkbook, name, err)
		}
		wb.Add(sheet)
	}
	return wb, nil
}

func readXLSXSheet(f *excelize.File, styles *dateStyles, name string) (*Sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	sheet := NewSheet(name)
	for r, row := range rows {
		for c, raw := range row {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(name, ref)
			if err != nil {
				return nil, err
			}
			cell := typedXLSXCell(cellType, raw)
			if cell.Kind == KindNumber && styles.isDate(name, ref) {
				cell = serialDate(cell.Number)
			}
			sheet.Set(ref, cell)
		}
	}
	return sheet, nil
}

// typedXLSXCell converts a raw cell value into a Cell using the stored cell type.
// Numbers are returned as numbers even when formatted as dates; the caller checks the style.
func typedXLSXCell(cellType excelize.CellType, raw string) Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeBool:
		return Text(raw)
	case excelize.CellTypeError:
		return ErrorValue(raw)
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return Date(t)
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return Date(t)
		}
		return Text(raw)
	default:
		if v, ok := parseFinite(raw); ok {
			return Number(v)
		}
		return Text(raw)
	}
}

func serialDate(serial float64) Cell {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return Number(serial)
	}
	return Date(t)
}

// dateStyles remembers which style indexes carry a date or time number format.
type dateStyles struct {
	f     *excelize.File
	known map[int]bool
}

func (d *dateStyles) isDate(sheet, ref string) bool {
	idx, err := d.f.GetCellStyle(sheet, ref)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := d.known[idx]; ok {
		return v
	}
	v := false
	if style, err := d.f.GetStyle(idx); err == nil && style != nil {
		v = IsDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	d.known[idx] = v
	return v
}

// IsDateFormat reports whether a number format renders a date or time: one of the
// built-in date formats, or a custom code with date or time tokens outside quoted
// literals and bracketed sections.
func IsDateFormat(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customDateCode(*custom)
	}
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	return false
}

func customDateCode(code string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == 'y' || r == 'd' || r == 'm' || r == 'h':
			return true
		}
	}
	return false
}
