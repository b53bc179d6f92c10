// Package loans extracts participation loans from the '#' sheets of the Master workbook
// and aggregates them into portfolio statistics and cash-flow projections.
package loans

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/cells"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/money"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/workbook"
)

const interestOnly = "interest only"

// header holds the raw loan terms read from the top of a sheet.
type header struct {
	column       string
	principal    float64
	principalErr string
	rate         float64
	term         int
	payment      float64
	paymentCell  workbook.Cell
	interestOnly bool
	start        *time.Time
}

// SheetInput carries the portfolio-wide context a single sheet is evaluated in.
type SheetInput struct {
	// AsOf is the reporting cutoff for balances; nil means "use the last ledger row".
	AsOf *time.Time
	// StatusDate is the reference date for NotStarted detection.
	StatusDate time.Time
}

// ExtractSheet builds one Loan and its ledger from a '#' sheet, trying each profile in
// order until one yields a positive principal.
//
// Returns apperrors.ErrNoPrincipal when no profile finds a principal; callers drop such
// sheets silently. A principal cell holding a spreadsheet error is reported with
// apperrors.ErrErrorCell instead so it can be surfaced as a sheet error.
func ExtractSheet(sheet *workbook.Sheet, profiles []profile.LoanSheet, in SheetInput) (model.Loan, error) {
	var errorCell string
	for _, p := range profiles {
		h := readHeader(sheet, p)
		if h.principal <= 0 {
			if h.principalErr != "" {
				errorCell = h.principalErr
			}
			continue
		}
		return buildLoan(sheet, p, h, in), nil
	}
	if errorCell != "" {
		return model.Loan{}, fmt.Errorf("%w: principal is %s", apperrors.ErrErrorCell, errorCell)
	}
	return model.Loan{}, apperrors.ErrNoPrincipal
}

// dataColumn applies the column rule: header values live in the labelled column when
// the label cell mentions the keyword, otherwise in the default column.
func dataColumn(sheet *workbook.Sheet, rule profile.ColumnRule) string {
	label := sheet.Cell(rule.LabelCell)
	if label.Kind == workbook.KindText && strings.Contains(strings.ToLower(label.Text), strings.ToLower(rule.Keyword)) {
		return rule.LabelledColumn
	}
	return rule.DefaultColumn
}

func readHeader(sheet *workbook.Sheet, p profile.LoanSheet) header {
	column := dataColumn(sheet, p.ColumnRule)
	h := readHeaderAt(sheet, p, column)
	if h.principal == 0 && column != p.ColumnRule.FallbackColumn {
		h = readHeaderAt(sheet, p, p.ColumnRule.FallbackColumn)
	}
	return h
}

func readHeaderAt(sheet *workbook.Sheet, p profile.LoanSheet, column string) header {
	f := p.CellsFor(column)
	h := header{column: column}

	principal := cells.FirstNonEmpty(sheet, f.Principal, workbook.Empty)
	if principal.Kind == workbook.KindError {
		h.principalErr = principal.Text
	}
	h.principal = cells.Numeric(principal)
	h.rate = cells.Numeric(cells.FirstNonEmpty(sheet, f.Rate, workbook.Empty))
	h.term = int(math.Round(cells.Numeric(cells.FirstNonEmpty(sheet, f.Term, workbook.Empty))))
	h.paymentCell = cells.FirstNonEmpty(sheet, f.Payment, workbook.Empty)
	h.start = cells.DatePtr(cells.FirstNonEmpty(sheet, f.StartDate, workbook.Empty))

	if h.paymentCell.Kind == workbook.KindText && strings.EqualFold(strings.TrimSpace(h.paymentCell.Text), interestOnly) {
		h.interestOnly = true
		h.payment = h.principal * (h.rate / 12)
	} else {
		h.payment = cells.Numeric(h.paymentCell)
	}
	if h.payment == 0 {
		cols := p.Ledger.Columns
		h.payment = cells.Numeric(sheet.At(cols.Repayment, p.Ledger.StartRow))
	}
	return h
}

func buildLoan(sheet *workbook.Sheet, p profile.LoanSheet, h header, in SheetInput) model.Loan {
	borrower := cells.Text(cells.FirstNonEmpty(sheet, p.BorrowerCells, workbook.Empty))
	if borrower == "" {
		borrower = fmt.Sprintf("Unknown (%s)", sheet.Name())
	}

	ledger := ReadLedger(sheet, p.Ledger)
	pos := PositionAsOf(ledger, h.principal, in.AsOf)

	loan := model.Loan{
		SheetName:       sheet.Name(),
		Borrower:        borrower,
		Profile:         p.Name,
		DataColumn:      h.column,
		Principal:       h.principal,
		InterestRate:    h.rate,
		TermMonths:      h.term,
		Payment:         h.payment,
		InterestOnly:    h.interestOnly,
		StartDate:       h.start,
		MaturityDate:    maturity(h.start, h.term, ledger),
		OpeningBalance:  h.principal,
		CurrentBalance:  pos.CurrentBalance,
		PrincipalRepaid: pos.PrincipalRepaid,
		InterestRepaid:  pos.InterestRepaid,
		LastPayment:     pos.LastPayment,
		Notes:           ledgerNotes(ledger),
		Ledger:          ledger,
	}

	switch {
	case loan.StartDate != nil && loan.StartDate.After(in.StatusDate):
		loan.Status = model.LoanStatusNotStarted
		loan.CurrentBalance = 0
		loan.OpeningBalance = 0
	case money.IsZero(loan.CurrentBalance):
		loan.Status = model.LoanStatusClosed
	default:
		loan.Status = model.LoanStatusActive
	}
	return loan
}

// maturity is start plus term when both are known, else the month of the last ledger row.
func maturity(start *time.Time, term int, ledger []model.AmortizationEntry) *time.Time {
	if start != nil && term > 0 {
		m := start.AddDate(0, term, 0)
		return &m
	}
	for i := len(ledger) - 1; i >= 0; i-- {
		if ledger[i].Month != nil {
			m := *ledger[i].Month
			return &m
		}
	}
	return nil
}

func ledgerNotes(ledger []model.AmortizationEntry) string {
	var notes []string
	for _, e := range ledger {
		if e.Note != "" {
			notes = append(notes, e.Note)
		}
	}
	return strings.Join(notes, "; ")
}
