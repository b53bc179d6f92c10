// Package profile describes where fields live in the supported workbook layouts.
//
// Layout knowledge is data rather than control flow: each profile lists candidate cells
// and columns per logical field, and extractors evaluate them in order. The embedded
// defaults cover the observed workbook revisions; a YAML file can replace them.
package profile

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Set is the complete collection of workbook profiles in use.
type Set struct {
	LoanSheets []LoanSheet `yaml:"loan_sheets" json:"loanSheets"`
	Valuation  Valuation   `yaml:"valuation" json:"valuation"`
	Premium    Premium     `yaml:"premium" json:"premium"`
}

// ColumnRule decides which column holds a loan sheet's header values: when the label
// cell's text contains Keyword the values sit in LabelledColumn, otherwise in
// DefaultColumn. FallbackColumn is forced when the chosen column yields no principal.
type ColumnRule struct {
	LabelCell      string `yaml:"label_cell" json:"labelCell"`
	Keyword        string `yaml:"keyword" json:"keyword"`
	LabelledColumn string `yaml:"labelled_column" json:"labelledColumn"`
	DefaultColumn  string `yaml:"default_column" json:"defaultColumn"`
	FallbackColumn string `yaml:"fallback_column" json:"fallbackColumn"`
}

// LoanFields are the rows of the header values within the data column.
type LoanFields struct {
	Principal int `yaml:"principal" json:"principal"`
	Rate      int `yaml:"rate" json:"rate"`
	Term      int `yaml:"term" json:"term"`
	Payment   int `yaml:"payment" json:"payment"`
	StartDate int `yaml:"start_date" json:"startDate"`
}

// LedgerColumns are the column letters of an amortization row.
type LedgerColumns struct {
	Month          string `yaml:"month" json:"month"`
	Number         string `yaml:"number" json:"number"`
	OpeningBalance string `yaml:"opening_balance" json:"openingBalance"`
	Repayment      string `yaml:"repayment" json:"repayment"`
	Interest       string `yaml:"interest" json:"interest"`
	Principal      string `yaml:"principal" json:"principal"`
	ClosingBalance string `yaml:"closing_balance" json:"closingBalance"`
	PaymentDate    string `yaml:"payment_date" json:"paymentDate"`
	AmountPaid     string `yaml:"amount_paid" json:"amountPaid"`
	Note           string `yaml:"note" json:"note"`
}

// Ledger locates the amortization schedule. Scanning stops at the first empty month
// cell or after MaxRows rows; anything beyond is ignored.
type Ledger struct {
	StartRow int           `yaml:"start_row" json:"startRow"`
	MaxRows  int           `yaml:"max_rows" json:"maxRows"`
	Columns  LedgerColumns `yaml:"columns" json:"columns"`
}

// LoanSheet is one loan-sheet layout variant.
type LoanSheet struct {
	Name          string     `yaml:"name" json:"name"`
	BorrowerCells []string   `yaml:"borrower_cells" json:"borrowerCells"`
	ColumnRule    ColumnRule `yaml:"column_rule" json:"columnRule"`
	Fields        LoanFields `yaml:"fields" json:"fields"`
	Ledger        Ledger     `yaml:"ledger" json:"ledger"`
}

// FieldCells holds the candidate cells of every header field for one data column.
type FieldCells struct {
	Principal []string
	Rate      []string
	Term      []string
	Payment   []string
	StartDate []string
}

// CellsFor returns the field-location table for the given data column.
func (l LoanSheet) CellsFor(column string) FieldCells {
	at := func(row int) []string { return []string{cellRef(column, row)} }
	return FieldCells{
		Principal: at(l.Fields.Principal),
		Rate:      at(l.Fields.Rate),
		Term:      at(l.Fields.Term),
		Payment:   at(l.Fields.Payment),
		StartDate: at(l.Fields.StartDate),
	}
}

// ValuationColumns lists candidate columns per policy field, in priority order.
type ValuationColumns struct {
	PolicyID    []string `yaml:"policy_id" json:"policyId"`
	InsuredID   []string `yaml:"insured_id" json:"insuredId"`
	InsuredName []string `yaml:"insured_name" json:"insuredName"`
	Age         []string `yaml:"age" json:"age"`
	Gender      []string `yaml:"gender" json:"gender"`
	NDB         []string `yaml:"ndb" json:"ndb"`
	Valuation   []string `yaml:"valuation" json:"valuation"`
	CostBasis   []string `yaml:"cost_basis" json:"costBasis"`
	RemainingLE []string `yaml:"remaining_le" json:"remainingLe"`
}

// Valuation locates policies on the valuation sheet.
type Valuation struct {
	Sheet     string           `yaml:"sheet" json:"sheet"`
	HeaderRow int              `yaml:"header_row" json:"headerRow"`
	FirstRow  int              `yaml:"first_row" json:"firstRow"`
	MaxRow    int              `yaml:"max_row" json:"maxRow"`
	Columns   ValuationColumns `yaml:"columns" json:"columns"`
}

// ColumnBand is an inclusive range of column letters.
type ColumnBand struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Premium locates the wide premium schedule: month labels across HeaderRow, one row per policy.
type Premium struct {
	Sheet          string     `yaml:"sheet" json:"sheet"`
	HeaderRow      int        `yaml:"header_row" json:"headerRow"`
	FirstRow       int        `yaml:"first_row" json:"firstRow"`
	PolicyIDColumn string     `yaml:"policy_id_column" json:"policyIdColumn"`
	MonthColumns   ColumnBand `yaml:"month_columns" json:"monthColumns"`
}

// Default returns the embedded profile set.
func Default() Set {
	set, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded workbook profiles are invalid: %v", err))
	}
	return set
}

// Load reads a profile set from a YAML file. An empty path returns the defaults.
func Load(path string) (Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidProfile, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML profile set.
func Parse(data []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return Set{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidProfile, err)
	}
	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// Validate checks that every referenced column and row is addressable.
func (s Set) Validate() error {
	errs := make(map[string]string)

	if len(s.LoanSheets) == 0 {
		errs["loan_sheets"] = "at least one loan sheet profile is required"
	}
	for i, l := range s.LoanSheets {
		key := fmt.Sprintf("loan_sheets[%d]", i)
		if strings.TrimSpace(l.Name) == "" {
			errs[key+".name"] = "name is required"
		}
		if len(l.BorrowerCells) == 0 {
			errs[key+".borrower_cells"] = "at least one cell is required"
		}
		for _, ref := range append(append([]string{}, l.BorrowerCells...), l.ColumnRule.LabelCell) {
			if _, _, err := excelize.CellNameToCoordinates(ref); err != nil {
				errs[key+"."+ref] = "invalid cell reference"
			}
		}
		rule := l.ColumnRule
		checkColumns(errs, key+".column_rule", rule.LabelledColumn, rule.DefaultColumn, rule.FallbackColumn)
		for name, row := range map[string]int{
			"principal": l.Fields.Principal, "rate": l.Fields.Rate, "term": l.Fields.Term,
			"payment": l.Fields.Payment, "start_date": l.Fields.StartDate,
		} {
			if row < 1 {
				errs[key+".fields."+name] = "row must be positive"
			}
		}
		if l.Ledger.StartRow < 1 || l.Ledger.MaxRows < 1 {
			errs[key+".ledger"] = "start_row and max_rows must be positive"
		}
		c := l.Ledger.Columns
		checkColumns(errs, key+".ledger.columns", c.Month, c.Number, c.OpeningBalance, c.Repayment,
			c.Interest, c.Principal, c.ClosingBalance, c.PaymentDate, c.AmountPaid)
		if c.Note != "" {
			checkColumns(errs, key+".ledger.columns.note", c.Note)
		}
	}

	v := s.Valuation
	if v.Sheet == "" {
		errs["valuation.sheet"] = "sheet name is required"
	}
	if v.FirstRow < 1 || v.MaxRow < v.FirstRow {
		errs["valuation.rows"] = "first_row must be positive and not after max_row"
	}
	if len(v.Columns.PolicyID) == 0 {
		errs["valuation.columns.policy_id"] = "at least one column is required"
	}
	for name, cols := range map[string][]string{
		"policy_id": v.Columns.PolicyID, "insured_id": v.Columns.InsuredID,
		"insured_name": v.Columns.InsuredName, "age": v.Columns.Age, "gender": v.Columns.Gender,
		"ndb": v.Columns.NDB, "valuation": v.Columns.Valuation, "cost_basis": v.Columns.CostBasis,
		"remaining_le": v.Columns.RemainingLE,
	} {
		checkColumns(errs, "valuation.columns."+name, cols...)
	}

	p := s.Premium
	if p.Sheet == "" {
		errs["premium.sheet"] = "sheet name is required"
	}
	if p.HeaderRow < 1 || p.FirstRow <= p.HeaderRow {
		errs["premium.rows"] = "first_row must follow header_row"
	}
	checkColumns(errs, "premium", p.PolicyIDColumn, p.MonthColumns.From, p.MonthColumns.To)

	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for field, msg := range errs {
			msgs = append(msgs, field+": "+msg)
		}
		sort.Strings(msgs)
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidProfile, strings.Join(msgs, "; "))
	}
	return nil
}

func checkColumns(errs map[string]string, key string, cols ...string) {
	for _, col := range cols {
		if _, err := excelize.ColumnNameToNumber(col); err != nil {
			errs[key] = fmt.Sprintf("invalid column %q", col)
		}
	}
}

// Names returns the loan profile names in evaluation order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.LoanSheets))
	for _, l := range s.LoanSheets {
		out = append(out, l.Name)
	}
	return out
}

func cellRef(column string, row int) string {
	return fmt.Sprintf("%s%d", strings.ToUpper(column), row)
}
