package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// LedgerRow is one amortization row written from row 11 of a loan sheet.
type LedgerRow struct {
	Month       time.Time
	Number      int
	Opening     any
	Repayment   float64
	Interest    float64
	Principal   float64
	Closing     float64
	PaymentDate *time.Time
	AmountPaid  float64
	Note        string
}

// AmortizedLedger builds a level-payment schedule with monthly periods starting one
// month after start, the way the loan sheets lay out their ledgers.
func AmortizedLedger(start time.Time, principal, annualRate float64, months int) []LedgerRow {
	r := annualRate / 12
	payment := principal / float64(months)
	if r > 0 {
		payment = principal * r / (1 - math.Pow(1+r, -float64(months)))
	}

	rows := make([]LedgerRow, 0, months)
	balance := principal
	for i := 1; i <= months; i++ {
		interest := math.Round(balance*r*100) / 100
		capital := math.Round((payment-interest)*100) / 100
		if i == months {
			capital = balance
		}
		closing := math.Round((balance-capital)*100) / 100
		rows = append(rows, LedgerRow{
			Month:     start.AddDate(0, i, 0),
			Number:    i,
			Opening:   balance,
			Repayment: capital + interest,
			Interest:  interest,
			Principal: capital,
			Closing:   closing,
		})
		balance = closing
	}
	return rows
}

// LoanSheetBuilder provides a fluent interface for creating '#' loan sheets.
//
// Example usage:
//
//	sheet := testutil.NewLoanSheet("#1").
//	    WithBorrower("Acme Holdings").
//	    InColumnC("Loan Principal Amount").
//	    WithLedger(testutil.AmortizedLedger(start, 100000, 0.12, 12)...)
type LoanSheetBuilder struct {
	Name         string
	Borrower     any
	BorrowerCell string
	Label        any
	Column       string
	Principal    any
	Rate         any
	Term         any
	Payment      any
	StartDate    any
	Ledger       []LedgerRow
	Extra        map[string]any
}

// NewLoanSheet creates a LoanSheetBuilder with values in column B and no ledger.
func NewLoanSheet(name string) *LoanSheetBuilder {
	return &LoanSheetBuilder{
		Name:         name,
		Borrower:     "Test Borrower",
		BorrowerCell: "B2",
		Column:       "B",
		Principal:    100000.0,
		Rate:         0.12,
		Term:         12,
		Payment:      8884.88,
		StartDate:    Date(2024, time.January, 1),
		Extra:        make(map[string]any),
	}
}

// WithBorrower sets the borrower name.
func (b *LoanSheetBuilder) WithBorrower(name any) *LoanSheetBuilder {
	b.Borrower = name
	return b
}

// WithBorrowerCell moves the borrower name to another cell (A2 for the older layout).
func (b *LoanSheetBuilder) WithBorrowerCell(ref string) *LoanSheetBuilder {
	b.BorrowerCell = ref
	return b
}

// InColumnC writes the header values to column C, with label text in B3.
func (b *LoanSheetBuilder) InColumnC(label any) *LoanSheetBuilder {
	b.Column = "C"
	b.Label = label
	return b
}

// WithPrincipal sets the raw principal cell.
func (b *LoanSheetBuilder) WithPrincipal(v any) *LoanSheetBuilder {
	b.Principal = v
	return b
}

// WithRate sets the raw annual rate cell.
func (b *LoanSheetBuilder) WithRate(v any) *LoanSheetBuilder {
	b.Rate = v
	return b
}

// WithTerm sets the raw term cell.
func (b *LoanSheetBuilder) WithTerm(v any) *LoanSheetBuilder {
	b.Term = v
	return b
}

// WithPayment sets the raw payment cell.
func (b *LoanSheetBuilder) WithPayment(v any) *LoanSheetBuilder {
	b.Payment = v
	return b
}

// WithStartDate sets the raw start date cell. Pass nil to leave it empty.
func (b *LoanSheetBuilder) WithStartDate(v any) *LoanSheetBuilder {
	b.StartDate = v
	return b
}

// WithLedger appends amortization rows.
func (b *LoanSheetBuilder) WithLedger(rows ...LedgerRow) *LoanSheetBuilder {
	b.Ledger = append(b.Ledger, rows...)
	return b
}

// WithCell sets an arbitrary cell.
func (b *LoanSheetBuilder) WithCell(ref string, v any) *LoanSheetBuilder {
	b.Extra[ref] = v
	return b
}

func (b *LoanSheetBuilder) cells() map[string]any {
	cells := map[string]any{}
	put := func(ref string, v any) {
		if v != nil {
			cells[ref] = v
		}
	}
	put(b.BorrowerCell, b.Borrower)
	put("B3", b.Label)
	put(b.Column+"3", b.Principal)
	put(b.Column+"4", b.Rate)
	put(b.Column+"5", b.Term)
	put(b.Column+"6", b.Payment)
	put(b.Column+"7", b.StartDate)
	put("A10", "Month")

	for i, row := range b.Ledger {
		n := 11 + i
		put(ref("A", n), row.Month)
		put(ref("B", n), row.Number)
		put(ref("C", n), row.Opening)
		put(ref("D", n), row.Repayment)
		put(ref("E", n), row.Interest)
		put(ref("F", n), row.Principal)
		put(ref("G", n), row.Closing)
		if row.PaymentDate != nil {
			put(ref("J", n), *row.PaymentDate)
		}
		if row.AmountPaid != 0 {
			put(ref("K", n), row.AmountPaid)
		}
		if row.Note != "" {
			put(ref("L", n), row.Note)
		}
	}
	for k, v := range b.Extra {
		put(k, v)
	}
	return cells
}

// LoanWorkbookBuilder assembles a Master workbook: a Dashboard sheet plus loan sheets.
type LoanWorkbookBuilder struct {
	AsOf      any
	Dashboard bool
	Sheets    []*LoanSheetBuilder
	Raw       []SheetSpec
}

// NewLoanWorkbook creates a builder with a Dashboard sheet and no as-of date.
func NewLoanWorkbook() *LoanWorkbookBuilder {
	return &LoanWorkbookBuilder{Dashboard: true}
}

// WithAsOf sets Dashboard!E3.
func (b *LoanWorkbookBuilder) WithAsOf(v any) *LoanWorkbookBuilder {
	b.AsOf = v
	return b
}

// WithoutDashboard omits the Dashboard sheet.
func (b *LoanWorkbookBuilder) WithoutDashboard() *LoanWorkbookBuilder {
	b.Dashboard = false
	return b
}

// WithSheet adds a loan sheet.
func (b *LoanWorkbookBuilder) WithSheet(s *LoanSheetBuilder) *LoanWorkbookBuilder {
	b.Sheets = append(b.Sheets, s)
	return b
}

// WithRawSheet adds a sheet with arbitrary cells.
func (b *LoanWorkbookBuilder) WithRawSheet(name string, cells map[string]any) *LoanWorkbookBuilder {
	b.Raw = append(b.Raw, SheetSpec{Name: name, Cells: cells})
	return b
}

// Bytes writes the workbook as .xlsx bytes.
func (b *LoanWorkbookBuilder) Bytes(t *testing.T) []byte {
	t.Helper()

	var specs []SheetSpec
	if b.Dashboard {
		dash := map[string]any{"A1": "Portfolio Dashboard", "D3": "As of"}
		if b.AsOf != nil {
			dash["E3"] = b.AsOf
		}
		specs = append(specs, SheetSpec{Name: "Dashboard", Cells: dash})
	}
	for _, s := range b.Sheets {
		specs = append(specs, SheetSpec{Name: s.Name, Cells: s.cells()})
	}
	specs = append(specs, b.Raw...)
	return WriteXLSX(t, specs...)
}

// PolicyRow is one row of the Valuation Summary sheet.
type PolicyRow struct {
	PolicyID    any
	InsuredID   any
	Name        string
	Age         any
	Gender      string
	NDB         any
	NDBColumn   string
	Valuation   any
	CostBasis   any
	RemainingLE any
}

// LifeSettlementWorkbookBuilder assembles an LS workbook with Valuation Summary and
// Premium Stream sheets in the default column layout.
type LifeSettlementWorkbookBuilder struct {
	Policies       []PolicyRow
	Months         []string
	Premiums       map[string]map[string]float64 // label -> policy id -> amount
	PremiumOrder   []string
	NoValuation    bool
	NoPremiumSheet bool
}

// NewLifeSettlementWorkbook creates an empty builder.
func NewLifeSettlementWorkbook() *LifeSettlementWorkbookBuilder {
	return &LifeSettlementWorkbookBuilder{Premiums: make(map[string]map[string]float64)}
}

// WithPolicy adds a valuation row.
func (b *LifeSettlementWorkbookBuilder) WithPolicy(p PolicyRow) *LifeSettlementWorkbookBuilder {
	b.Policies = append(b.Policies, p)
	return b
}

// WithMonths sets the premium sheet month header labels, starting at column B.
func (b *LifeSettlementWorkbookBuilder) WithMonths(labels ...string) *LifeSettlementWorkbookBuilder {
	b.Months = append(b.Months, labels...)
	return b
}

// WithPremium sets the premium for a policy in a month column.
func (b *LifeSettlementWorkbookBuilder) WithPremium(policyID, label string, amount float64) *LifeSettlementWorkbookBuilder {
	if b.Premiums[label] == nil {
		b.Premiums[label] = make(map[string]float64)
	}
	if _, seen := b.Premiums[label][policyID]; !seen && !contains(b.PremiumOrder, policyID) {
		b.PremiumOrder = append(b.PremiumOrder, policyID)
	}
	b.Premiums[label][policyID] = amount
	return b
}

// WithoutPremiumSheet omits the Premium Stream sheet.
func (b *LifeSettlementWorkbookBuilder) WithoutPremiumSheet() *LifeSettlementWorkbookBuilder {
	b.NoPremiumSheet = true
	return b
}

// WithoutValuationSheet omits the Valuation Summary sheet.
func (b *LifeSettlementWorkbookBuilder) WithoutValuationSheet() *LifeSettlementWorkbookBuilder {
	b.NoValuation = true
	return b
}

// Bytes writes the workbook as .xlsx bytes.
func (b *LifeSettlementWorkbookBuilder) Bytes(t *testing.T) []byte {
	t.Helper()

	specs := []SheetSpec{{Name: "Cover", Cells: map[string]any{"A1": "Life Settlement Portfolio"}}}
	if !b.NoValuation {
		val := map[string]any{
			"A2": "Policy ID", "B2": "Insured ID", "C2": "Insured", "D2": "Age", "E2": "Gender",
			"V2": "NDB", "Z2": "Cost Basis", "AA2": "LE (months)", "AB2": "Valuation",
		}
		for i, p := range b.Policies {
			n := 3 + i
			put := func(col string, v any) {
				if v != nil && v != "" {
					val[ref(col, n)] = v
				}
			}
			ndbCol := p.NDBColumn
			if ndbCol == "" {
				ndbCol = "V"
			}
			put("A", p.PolicyID)
			put("B", p.InsuredID)
			put("C", p.Name)
			put("D", p.Age)
			put("E", p.Gender)
			put(ndbCol, p.NDB)
			put("Z", p.CostBasis)
			put("AA", p.RemainingLE)
			put("AB", p.Valuation)
		}
		specs = append(specs, SheetSpec{Name: "Valuation Summary", Cells: val})
	}
	if !b.NoPremiumSheet {
		prem := map[string]any{"A2": "Policy ID"}
		for i, label := range b.Months {
			col, _ := excelize.ColumnNumberToName(2 + i)
			prem[ref(col, 2)] = label
		}
		for i, id := range b.PremiumOrder {
			n := 3 + i
			prem[ref("A", n)] = id
			for j, label := range b.Months {
				if amount, ok := b.Premiums[label][id]; ok {
					col, _ := excelize.ColumnNumberToName(2 + j)
					prem[ref(col, n)] = amount
				}
			}
		}
		specs = append(specs, SheetSpec{Name: "Premium Stream", Cells: prem})
	}
	return WriteXLSX(t, specs...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
