package profile

import (
	"fmt"
	"strings"
)

// DashboardSheet and AsOfCell locate the portfolio as-of date in the loan workbook.
const (
	DashboardSheet = "Dashboard"
	AsOfCell       = "E3"
	LoanSheetMark  = "#"
	TemplateSheet  = "#AddSheet"
)

// LayoutEntry documents where one field is expected in an uploaded workbook.
type LayoutEntry struct {
	Workbook string `json:"workbook"`
	Sheet    string `json:"sheet"`
	Field    string `json:"field"`
	Location string `json:"location"`
}

// Layout renders the supported input format for end users.
func (s Set) Layout() []LayoutEntry {
	entries := []LayoutEntry{
		{"master", DashboardSheet, "As-of date", AsOfCell},
		{"master", LoanSheetMark + "<n>", "One sheet per loan", fmt.Sprintf("named with a %q prefix, %q excluded", LoanSheetMark, TemplateSheet)},
	}

	for _, l := range s.LoanSheets {
		sheet := fmt.Sprintf("%s<n> (%s)", LoanSheetMark, l.Name)
		r := l.ColumnRule
		column := fmt.Sprintf("column %s, or %s when %s contains %q", r.DefaultColumn, r.LabelledColumn, r.LabelCell, r.Keyword)
		entries = append(entries,
			LayoutEntry{"master", sheet, "Borrower", strings.Join(l.BorrowerCells, " or ")},
			LayoutEntry{"master", sheet, "Principal", fmt.Sprintf("row %d, %s", l.Fields.Principal, column)},
			LayoutEntry{"master", sheet, "Annual rate", fmt.Sprintf("row %d, same column", l.Fields.Rate)},
			LayoutEntry{"master", sheet, "Term (months)", fmt.Sprintf("row %d, same column", l.Fields.Term)},
			LayoutEntry{"master", sheet, "Payment", fmt.Sprintf("row %d, same column (\"Interest Only\" accepted)", l.Fields.Payment)},
			LayoutEntry{"master", sheet, "Start date", fmt.Sprintf("row %d, same column", l.Fields.StartDate)},
		)
		c := l.Ledger.Columns
		ledger := []struct{ field, col string }{
			{"Month", c.Month}, {"Repayment number", c.Number}, {"Opening balance", c.OpeningBalance},
			{"Loan repayment", c.Repayment}, {"Interest charged", c.Interest}, {"Capital repaid", c.Principal},
			{"Closing balance", c.ClosingBalance}, {"Payment date", c.PaymentDate}, {"Amount paid", c.AmountPaid},
			{"Note", c.Note},
		}
		for _, f := range ledger {
			if f.col == "" {
				continue
			}
			entries = append(entries, LayoutEntry{"master", sheet, "Ledger: " + f.field,
				fmt.Sprintf("column %s from row %d (up to %d rows)", f.col, l.Ledger.StartRow, l.Ledger.MaxRows)})
		}
	}

	v := s.Valuation
	vc := v.Columns
	for _, f := range []struct {
		field string
		cols  []string
	}{
		{"Policy ID", vc.PolicyID}, {"Insured ID", vc.InsuredID}, {"Insured name", vc.InsuredName},
		{"Age", vc.Age}, {"Gender", vc.Gender}, {"Net death benefit", vc.NDB},
		{"Valuation", vc.Valuation}, {"Cost basis", vc.CostBasis}, {"Remaining LE (months)", vc.RemainingLE},
	} {
		if len(f.cols) == 0 {
			continue
		}
		entries = append(entries, LayoutEntry{"life_settlement", v.Sheet, f.field,
			fmt.Sprintf("column %s, rows %d-%d", strings.Join(f.cols, " or "), v.FirstRow, v.MaxRow)})
	}

	p := s.Premium
	entries = append(entries,
		LayoutEntry{"life_settlement", p.Sheet, "Month labels (e.g. Jul-25)",
			fmt.Sprintf("row %d, columns %s-%s", p.HeaderRow, p.MonthColumns.From, p.MonthColumns.To)},
		LayoutEntry{"life_settlement", p.Sheet, "Policy ID",
			fmt.Sprintf("column %s from row %d", p.PolicyIDColumn, p.FirstRow)},
	)
	return entries
}
