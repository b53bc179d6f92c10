package loans

import (
	"strings"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/cells"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/workbook"
)

// ReadLedger reads amortization rows from StartRow until the first empty month cell or
// MaxRows rows. Repeated header rows (an opening-balance cell mentioning "balance") are
// skipped. Values are reported as found; consecutive rows are not reconciled.
func ReadLedger(sheet *workbook.Sheet, layout profile.Ledger) []model.AmortizationEntry {
	cols := layout.Columns
	var ledger []model.AmortizationEntry

	for row := layout.StartRow; row < layout.StartRow+layout.MaxRows; row++ {
		month := sheet.At(cols.Month, row)
		if month.IsEmpty() {
			break
		}
		opening := sheet.At(cols.OpeningBalance, row)
		if opening.Kind == workbook.KindText && strings.Contains(strings.ToLower(opening.Text), "balance") {
			continue
		}

		entry := model.AmortizationEntry{
			Row:             row,
			Month:           cells.DatePtr(month),
			RepaymentNumber: cells.Numeric(sheet.At(cols.Number, row)),
			OpeningBalance:  cells.Numeric(opening),
			Repayment:       cells.Numeric(sheet.At(cols.Repayment, row)),
			Interest:        cells.Numeric(sheet.At(cols.Interest, row)),
			PrincipalRepaid: cells.Numeric(sheet.At(cols.Principal, row)),
			ClosingBalance:  cells.Numeric(sheet.At(cols.ClosingBalance, row)),
			PaymentDate:     cells.DatePtr(sheet.At(cols.PaymentDate, row)),
			AmountPaid:      cells.Numeric(sheet.At(cols.AmountPaid, row)),
		}
		if cols.Note != "" {
			entry.Note = cells.Text(sheet.At(cols.Note, row))
		}

		if entry.OpeningBalance > 0 || entry.ClosingBalance >= 0 {
			ledger = append(ledger, entry)
		}
	}
	return ledger
}

// Position is a loan's state derived from its ledger at a point in time.
type Position struct {
	CurrentBalance  float64
	PrincipalRepaid float64
	InterestRepaid  float64
	LastPayment     float64
	CurrentRow      int // Sheet row of the current entry, 0 when none applies
}

// PositionAsOf resolves balance and cumulative repayments as of asOf.
//
// The current entry is the latest row whose month is on or before asOf; totals cover
// every such row. With no qualifying rows the balance is the original principal. A nil
// asOf treats the last ledger row as current.
func PositionAsOf(ledger []model.AmortizationEntry, principal float64, asOf *time.Time) Position {
	var considered []model.AmortizationEntry
	if asOf == nil {
		considered = ledger
	} else {
		for _, e := range ledger {
			if e.Month != nil && !e.Month.After(*asOf) {
				considered = append(considered, e)
			}
		}
	}
	if len(considered) == 0 {
		return Position{CurrentBalance: principal}
	}

	current := considered[len(considered)-1]
	var principalPaid, interestPaid float64
	var lastPayment float64
	for _, e := range considered {
		if asOf != nil && e.Month.After(*current.Month) {
			current = e
		}
		principalPaid += e.PrincipalRepaid
		interestPaid += e.Interest
		if e.AmountPaid > 0 {
			lastPayment = e.AmountPaid
		}
	}

	pos := Position{
		CurrentBalance:  current.ClosingBalance,
		PrincipalRepaid: principalPaid,
		InterestRepaid:  interestPaid,
		LastPayment:     lastPayment,
		CurrentRow:      current.Row,
	}
	if pos.PrincipalRepaid == 0 && ledger[0].OpeningBalance != pos.CurrentBalance {
		pos.PrincipalRepaid = max(0, ledger[0].OpeningBalance-pos.CurrentBalance)
	}
	return pos
}
