package workbook

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
)

// openXLS reads a legacy .xls workbook. The decoder only exposes formatted cell text,
// so numeric-looking cells become numbers and everything else stays text.
func openXLS(data []byte) (wb *Workbook, err error) {
	// The BIFF decoder panics on some truncated streams instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidWorkbook, r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidWorkbook, err)
	}

	wb = New()
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		sheet := NewSheet(ws.Name)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				continue
			}
			for c := row.FirstCol(); c <= row.LastCol(); c++ {
				raw := strings.TrimSpace(row.Col(c))
				if raw == "" {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					continue
				}
				sheet.Set(ref, textualCell(raw))
			}
		}
		wb.Add(sheet)
	}
	return wb, nil
}

// textualCell types a formatted xls cell. "NaN" and "Inf" spellings stay text.
func textualCell(raw string) Cell {
	if v, ok := parseFinite(raw); ok {
		return Number(v)
	}
	return Text(raw)
}
