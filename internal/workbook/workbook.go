// Package workbook decodes uploaded spreadsheet bytes into an in-memory grid of typed cells.
//
// Both modern (.xlsx) and legacy (.xls) workbooks are supported. The decoded Workbook owns
// no file handles, so extractors can read it freely and it is simply dropped when the
// request finishes.
package workbook

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
)

// Kind is the type of value held by a cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindDate
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindError:
		return "error"
	default:
		return "empty"
	}
}

// Cell is a single raw cell value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind   Kind
	Number float64
	Text   string
	Time   time.Time
}

// Empty is the zero cell.
var Empty = Cell{}

// Number returns a numeric cell.
func Number(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }

// Text returns a text cell. Empty strings produce an empty cell.
func Text(s string) Cell {
	if s == "" {
		return Empty
	}
	return Cell{Kind: KindText, Text: s}
}

// Date returns a date cell.
func Date(t time.Time) Cell { return Cell{Kind: KindDate, Time: t} }

// ErrorValue returns a cell holding a spreadsheet error such as #N/A.
func ErrorValue(s string) Cell { return Cell{Kind: KindError, Text: s} }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// String renders the cell as text: numbers without a trailing ".0", dates as YYYY-MM-DD.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindText, KindError:
		return c.Text
	case KindDate:
		return c.Time.Format("2006-01-02")
	default:
		return ""
	}
}

// Sheet is one addressable grid of cells keyed by A1 reference.
type Sheet struct {
	name   string
	cells  map[string]Cell
	maxRow int
}

// NewSheet creates an empty sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{name: name, cells: make(map[string]Cell)}
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// MaxRow returns the highest row number holding a value.
func (s *Sheet) MaxRow() int { return s.maxRow }

// Set stores a cell at an A1 reference. Invalid references are ignored.
func (s *Sheet) Set(ref string, c Cell) *Sheet {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	_, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return s
	}
	if c.IsEmpty() {
		delete(s.cells, ref)
		return s
	}
	s.cells[ref] = c
	if row > s.maxRow {
		s.maxRow = row
	}
	return s
}

// Cell returns the cell at an A1 reference, or Empty when the reference is unset or invalid.
func (s *Sheet) Cell(ref string) Cell {
	if s == nil {
		return Empty
	}
	return s.cells[strings.ToUpper(strings.TrimSpace(ref))]
}

// At returns the cell at a column letter and 1-based row.
func (s *Sheet) At(column string, row int) Cell {
	return s.Cell(Ref(column, row))
}

// Ref joins a column letter and a 1-based row into an A1 reference.
func Ref(column string, row int) string {
	return strings.ToUpper(column) + strconv.Itoa(row)
}

// Columns returns the column letters from..to inclusive, in order.
func Columns(from, to string) ([]string, error) {
	start, err := excelize.ColumnNameToNumber(from)
	if err != nil {
		return nil, err
	}
	end, err := excelize.ColumnNameToNumber(to)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("column range %s:%s is reversed", from, to)
	}
	out := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		name, err := excelize.ColumnNumberToName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// Workbook is a named, ordered collection of sheets.
type Workbook struct {
	order  []string
	sheets map[string]*Sheet
}

// New creates a workbook from sheets, keeping their order.
func New(sheets ...*Sheet) *Workbook {
	wb := &Workbook{sheets: make(map[string]*Sheet, len(sheets))}
	for _, s := range sheets {
		wb.Add(s)
	}
	return wb
}

// Add appends a sheet, replacing any sheet with the same name in place.
func (w *Workbook) Add(s *Sheet) {
	if _, exists := w.sheets[s.name]; !exists {
		w.order = append(w.order, s.name)
	}
	w.sheets[s.name] = s
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Sheet returns the named sheet.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := w.sheets[name]
	return s, ok
}

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Open decodes workbook bytes, detecting .xlsx (zip container) or .xls (OLE2 container).
func Open(data []byte) (*Workbook, error) {
	switch {
	case len(data) == 0:
		return nil, fmt.Errorf("%w: empty upload", apperrors.ErrInvalidWorkbook)
	case bytes.HasPrefix(data, zipMagic):
		return openXLSX(data)
	case bytes.HasPrefix(data, ole2Magic):
		return openXLS(data)
	default:
		return nil, apperrors.ErrUnsupportedFormat
	}
}

// parseFinite parses a decimal number, rejecting the NaN and infinity forms that
// strconv.ParseFloat accepts.
func parseFinite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
