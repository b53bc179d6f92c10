// Package lifesettlement extracts life-settlement policies from the Valuation Summary and
// Premium Stream sheets and computes the portfolio statistics.
package lifesettlement

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/cells"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/workbook"
)

// Options controls one life-settlement extraction.
type Options struct {
	Valuation profile.Valuation
	Premium   profile.Premium
	// NormalizeIDs trims and case-folds policy ids on both sheets before joining.
	NormalizeIDs bool
}

// DefaultOptions returns the embedded profiles with id normalization enabled.
func DefaultOptions() Options {
	set := profile.Default()
	return Options{Valuation: set.Valuation, Premium: set.Premium, NormalizeIDs: true}
}

// Unavailable builds the result returned when a workbook cannot be used.
func Unavailable(reason string) *model.LifeSettlementPortfolio {
	return &model.LifeSettlementPortfolio{
		ReportID: uuid.New().String(),
		Reason:   reason,
	}
}

// Extract reads policies and premiums from a decoded life-settlement workbook.
//
// It never fails: a workbook lacking either required sheet yields an unavailable result
// carrying the reason. Rows whose identifier cells hold spreadsheet errors are skipped
// and counted.
func Extract(wb *workbook.Workbook, opts Options) *model.LifeSettlementPortfolio {
	valuation, ok := wb.Sheet(opts.Valuation.Sheet)
	if !ok {
		return unavailableSheet(opts.Valuation.Sheet)
	}
	premium, ok := wb.Sheet(opts.Premium.Sheet)
	if !ok {
		return unavailableSheet(opts.Premium.Sheet)
	}

	result := &model.LifeSettlementPortfolio{
		ReportID:      uuid.New().String(),
		Available:     true,
		NormalizedIDs: opts.NormalizeIDs,
	}
	log.Printf("[lifesettlement] report %s: extracting (normalize ids %v)", result.ReportID, opts.NormalizeIDs)

	policies, skipped := ReadPolicies(valuation, opts.Valuation)
	result.SkippedRows = skipped

	stream := ReadPremiums(premium, opts.Premium, len(policies), keyFunc(opts.NormalizeIDs))
	result.Policies, result.PoliciesWithoutPremium, result.UnmatchedPremiumIDs = Join(policies, stream, keyFunc(opts.NormalizeIDs))
	result.MonthlyPremiums = stream.Totals()
	result.Snapshot = Summarize(result.Policies)

	log.Printf("[lifesettlement] report %s: %d policies, %d premium months, %d skipped rows, %d unmatched premium ids",
		result.ReportID, len(result.Policies), len(result.MonthlyPremiums), result.SkippedRows, len(result.UnmatchedPremiumIDs))
	return result
}

func unavailableSheet(name string) *model.LifeSettlementPortfolio {
	err := fmt.Errorf("%w: %w: %q", apperrors.ErrLifeSettlementUnavailable, apperrors.ErrSheetNotFound, name)
	log.Printf("[lifesettlement] %v", err)
	return Unavailable(err.Error())
}

// ReadPolicies scans the valuation sheet from FirstRow, stopping at the first empty
// policy id or after MaxRow. It returns the policies and the number of skipped rows.
func ReadPolicies(sheet *workbook.Sheet, layout profile.Valuation) ([]model.Policy, int) {
	var policies []model.Policy
	skipped := 0
	cols := layout.Columns

	for row := layout.FirstRow; row <= layout.MaxRow; row++ {
		id := firstCell(sheet, cols.PolicyID, row)
		if id.IsEmpty() {
			break
		}
		p, err := readPolicy(sheet, cols, row)
		if err != nil {
			log.Printf("[lifesettlement] %s row %d skipped: %v", sheet.Name(), row, err)
			skipped++
			continue
		}
		policies = append(policies, p)
	}
	return policies, skipped
}

func readPolicy(sheet *workbook.Sheet, cols profile.ValuationColumns, row int) (model.Policy, error) {
	id := firstCell(sheet, cols.PolicyID, row)
	insured := firstCell(sheet, cols.InsuredID, row)
	for _, c := range []workbook.Cell{id, insured} {
		if c.Kind == workbook.KindError {
			return model.Policy{}, fmt.Errorf("%w: identifier is %s", apperrors.ErrErrorCell, c.Text)
		}
	}

	return model.Policy{
		PolicyID:          cells.Text(id),
		InsuredID:         cells.Text(insured),
		InsuredName:       cells.Text(firstCell(sheet, cols.InsuredName, row)),
		Age:               cells.Numeric(firstCell(sheet, cols.Age, row)),
		Gender:            cells.Text(firstCell(sheet, cols.Gender, row)),
		NetDeathBenefit:   firstPositive(sheet, cols.NDB, row),
		Valuation:         cells.Numeric(firstCell(sheet, cols.Valuation, row)),
		CostBasis:         cells.Numeric(firstCell(sheet, cols.CostBasis, row)),
		RemainingLEMonths: cells.Numeric(firstCell(sheet, cols.RemainingLE, row)),
		SourceRow:         row,
	}, nil
}

func refs(columns []string, row int) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = workbook.Ref(col, row)
	}
	return out
}

func firstCell(sheet *workbook.Sheet, columns []string, row int) workbook.Cell {
	return cells.FirstNonEmpty(sheet, refs(columns, row), workbook.Empty)
}

func firstPositive(sheet *workbook.Sheet, columns []string, row int) float64 {
	return cells.FirstPositive(sheet, refs(columns, row))
}

// keyFunc returns the join key of a policy id cell. Without normalization ids must match
// exactly, case included, after the usual cell trimming.
func keyFunc(normalize bool) func(workbook.Cell) string {
	if normalize {
		return func(c workbook.Cell) string { return strings.ToLower(cells.Text(c)) }
	}
	return cells.Text
}
