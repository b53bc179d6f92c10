// Package reconcile aligns loan cash flows and life-settlement premiums on a common
// monthly timeline.
package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/money"
)

// ParseMonthLabel parses a premium month label of the form Mon-YY ("Jul-25") into a
// period. The month is matched case-insensitively and the year is taken as 20YY.
func ParseMonthLabel(label string) (model.YearMonth, error) {
	s := strings.TrimSpace(label)
	if len(s) != 6 || s[3] != '-' {
		return model.YearMonth{}, fmt.Errorf("month label %q is not Mon-YY", label)
	}
	t, err := time.Parse("Jan-06", strings.ToUpper(s[:1])+strings.ToLower(s[1:3])+s[3:])
	if err != nil {
		return model.YearMonth{}, fmt.Errorf("month label %q: %w", label, err)
	}
	var yy int
	if _, err := fmt.Sscanf(s[4:], "%02d", &yy); err != nil {
		return model.YearMonth{}, fmt.Errorf("month label %q: %w", label, err)
	}
	return model.YearMonth{Year: 2000 + yy, Month: t.Month()}, nil
}

// Reconcile builds the comparison table over the union of periods in both series.
// Premium labels that do not parse are left out of the table and reported. When current
// is a period in the table its row becomes the summary's current row; otherwise the first
// row is used.
func Reconcile(loanTotals map[model.YearMonth]float64, premiums []model.MonthlyPremium, current model.YearMonth) model.Reconciliation {
	premiumTotals := make(map[model.YearMonth]*money.Total)
	var unparsed []string
	for _, mp := range premiums {
		ym, err := ParseMonthLabel(mp.Label)
		if err != nil {
			unparsed = append(unparsed, mp.Label)
			continue
		}
		if premiumTotals[ym] == nil {
			premiumTotals[ym] = &money.Total{}
		}
		premiumTotals[ym].Add(mp.Amount)
	}

	seen := make(map[model.YearMonth]bool)
	var periods []model.YearMonth
	for ym := range loanTotals {
		seen[ym] = true
		periods = append(periods, ym)
	}
	for ym := range premiumTotals {
		if !seen[ym] {
			periods = append(periods, ym)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	rows := make([]model.ComparisonRow, 0, len(periods))
	for _, ym := range periods {
		var premium float64
		if t := premiumTotals[ym]; t != nil {
			premium = t.Float()
		}
		rows = append(rows, Row(ym, loanTotals[ym], premium))
	}

	return model.Reconciliation{
		Rows:           rows,
		Summary:        Summarize(rows, current),
		UnparsedLabels: unparsed,
	}
}

// Row builds one comparison row. Coverage is loan ÷ premium × 100 and is nil when no
// premium is due.
func Row(period model.YearMonth, loan, premium float64) model.ComparisonRow {
	row := model.ComparisonRow{
		Period:       period,
		LoanTotal:    loan,
		PremiumTotal: premium,
		Net:          money.Sum(loan, -premium),
	}
	row.CoverageRatio = coverage(loan, premium)
	return row
}

// Summarize computes the period averages and overall coverage of the table.
func Summarize(rows []model.ComparisonRow, current model.YearMonth) model.ReconciliationSummary {
	summary := model.ReconciliationSummary{Periods: len(rows)}
	if len(rows) == 0 {
		return summary
	}

	var loan, premium, net money.Total
	for i := range rows {
		loan.Add(rows[i].LoanTotal)
		premium.Add(rows[i].PremiumTotal)
		net.Add(rows[i].Net)
		if rows[i].Period == current {
			summary.Current = &rows[i]
		}
	}
	if summary.Current == nil {
		summary.Current = &rows[0]
	}

	n := float64(len(rows))
	summary.AverageLoan = loan.Float() / n
	summary.AveragePremium = premium.Float() / n
	summary.AverageNet = net.Float() / n
	summary.OverallCoverage = coverage(loan.Float(), premium.Float())
	return summary
}

func coverage(loan, premium float64) *float64 {
	if premium <= 0 {
		return nil
	}
	c := loan / premium * 100
	return &c
}
