// Package report renders extraction results as markdown for the command line.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/money"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
)

const dateLayout = "2006-01-02"

func date(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

func months(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

// percent formats a value already expressed in percent (12.5 -> "12.50%").
func percent(v float64) string {
	return money.Percent(v / 100)
}

// LoanPortfolioMarkdown renders the loan snapshot, the loan table, the projection and
// any per-sheet problems.
func LoanPortfolioMarkdown(p *model.LoanPortfolio) string {
	var b strings.Builder
	s := p.Snapshot

	fmt.Fprintf(&b, "# Loan Portfolio\n\n")
	fmt.Fprintf(&b, "As of %s (%s), statuses evaluated against %s.\n\n", date(p.AsOfDate), p.AsOfSource, p.StatusReference)

	fmt.Fprintln(&b, "## Snapshot")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Loans | %d |\n", s.TotalLoans)
	fmt.Fprintf(&b, "| Original balance | %s |\n", money.Format(s.TotalOriginalBalance))
	fmt.Fprintf(&b, "| Current balance | %s |\n", money.Format(s.TotalCurrentBalance))
	fmt.Fprintf(&b, "| Principal repaid | %s |\n", money.Format(s.TotalPrincipalRepaid))
	fmt.Fprintf(&b, "| Interest repaid | %s |\n", money.Format(s.TotalInterestRepaid))
	fmt.Fprintf(&b, "| Weighted average rate | %s |\n", money.Percent(s.WeightedAverageRate))
	if s.RateOutliersExcluded > 0 {
		fmt.Fprintf(&b, "| Rate outliers excluded | %d |\n", s.RateOutliersExcluded)
	}
	fmt.Fprintf(&b, "| Average months to maturity | %.1f |\n", s.AverageMonthsToMaturity)
	fmt.Fprintf(&b, "| Average loan age (months) | %.1f |\n", s.AverageLoanAgeMonths)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "## Loans")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "| Sheet | Borrower | Status | Principal | Rate | Current balance | Maturity | Months left |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|:---|---:|")
	for _, l := range p.Loans {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			l.SheetName,
			escape(l.Borrower),
			l.Status,
			money.Format(l.Principal),
			money.Percent(l.InterestRate),
			money.Format(l.CurrentBalance),
			date(l.MaturityDate),
			months(l.MonthsToMaturity),
		)
	}
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "## Projected Payments (%d months)\n\n", p.Projection.HorizonMonths)
	if len(p.Projection.Months) == 0 {
		fmt.Fprintln(&b, "No scheduled payments in the window.")
	} else {
		fmt.Fprintln(&b, "| Month | Payment | Interest | Principal | Loans |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
		for _, m := range p.Projection.Months {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
				m.Period, money.Format(m.Payment), money.Format(m.Interest), money.Format(m.Principal), m.Loans)
		}
		fmt.Fprintf(&b, "| **Total** | **%s** | | | |\n", money.Format(p.Projection.Total))
	}
	fmt.Fprintln(&b)

	if len(p.Errors) > 0 || len(p.Warnings) > 0 {
		fmt.Fprintln(&b, "## Problems")
		fmt.Fprintln(&b)
		for _, e := range p.Errors {
			fmt.Fprintf(&b, "- %s: %s\n", e.Sheet, e.Message)
		}
		for _, w := range p.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

// LifeSettlementMarkdown renders the policy snapshot, the policy table and the monthly
// premium schedule, or the reason the workbook could not be used.
func LifeSettlementMarkdown(p *model.LifeSettlementPortfolio) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Life Settlement Portfolio\n\n")
	if !p.Available {
		fmt.Fprintf(&b, "Unavailable: %s\n", p.Reason)
		return b.String()
	}

	s := p.Snapshot
	fmt.Fprintln(&b, "## Snapshot")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Policies | %d |\n", s.TotalPolicies)
	fmt.Fprintf(&b, "| Face value | %s |\n", money.Format(s.TotalFaceValue))
	fmt.Fprintf(&b, "| Valuation | %s |\n", money.Format(s.TotalValuation))
	fmt.Fprintf(&b, "| Cost basis | %s |\n", money.Format(s.TotalCostBasis))
	fmt.Fprintf(&b, "| Unrealized gain/loss | %s (%s) |\n", money.Format(s.UnrealizedGainLoss), percent(s.ReturnPct))
	fmt.Fprintf(&b, "| Average age | %.1f |\n", s.AverageAge)
	fmt.Fprintf(&b, "| Male / female | %d (%s) / %d (%s) |\n", s.MaleCount, percent(s.MalePct), s.FemaleCount, percent(s.FemalePct))
	fmt.Fprintf(&b, "| Average remaining LE (months) | %.1f |\n", s.AverageRemainingLE)
	fmt.Fprintf(&b, "| Annual premiums | %s (%s of face) |\n", money.Format(s.TotalAnnualPremiums), percent(s.PremiumsPctOfFace))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "## Policies")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "| Policy | Insured | Age | Gender | Face value | Valuation | Annual premium |")
	fmt.Fprintln(&b, "|:---|:---|---:|:---|---:|---:|---:|")
	for _, pol := range p.Policies {
		fmt.Fprintf(&b, "| %s | %s | %.0f | %s | %s | %s | %s |\n",
			escape(pol.PolicyID), escape(pol.InsuredName), pol.Age, pol.Gender,
			money.Format(pol.NetDeathBenefit), money.Format(pol.Valuation), money.Format(pol.AnnualPremium))
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "## Premium Schedule")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "| Month | Premium |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, mp := range p.MonthlyPremiums {
		fmt.Fprintf(&b, "| %s | %s |\n", mp.Label, money.Format(mp.Amount))
	}
	fmt.Fprintln(&b)

	if p.SkippedRows > 0 || len(p.UnmatchedPremiumIDs) > 0 || len(p.PoliciesWithoutPremium) > 0 {
		fmt.Fprintln(&b, "## Problems")
		fmt.Fprintln(&b)
		if p.SkippedRows > 0 {
			fmt.Fprintf(&b, "- %d valuation rows skipped\n", p.SkippedRows)
		}
		if len(p.UnmatchedPremiumIDs) > 0 {
			fmt.Fprintf(&b, "- premium rows without a policy: %s\n", strings.Join(p.UnmatchedPremiumIDs, ", "))
		}
		if len(p.PoliciesWithoutPremium) > 0 {
			fmt.Fprintf(&b, "- policies without premiums: %s\n", strings.Join(p.PoliciesWithoutPremium, ", "))
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

// ReconciliationMarkdown renders projected loan income against premiums due per month.
func ReconciliationMarkdown(r *model.Reconciliation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Loan Income vs Premiums\n\n")
	if len(r.Rows) == 0 {
		fmt.Fprintln(&b, "No overlapping periods.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Month | Loan payments | Premiums | Net | Coverage |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			row.Period, money.Format(row.LoanTotal), money.Format(row.PremiumTotal), money.Format(row.Net), coverage(row.CoverageRatio))
	}
	fmt.Fprintln(&b)

	sum := r.Summary
	fmt.Fprintf(&b, "Over %d months: average loan payments %s, average premiums %s, average net %s, overall coverage %s.\n",
		sum.Periods, money.Format(sum.AverageLoan), money.Format(sum.AveragePremium), money.Format(sum.AverageNet), coverage(sum.OverallCoverage))
	if sum.Current != nil {
		fmt.Fprintf(&b, "\nCurrent month %s: net %s, coverage %s.\n", sum.Current.Period, money.Format(sum.Current.Net), coverage(sum.Current.CoverageRatio))
	}
	if len(r.UnparsedLabels) > 0 {
		fmt.Fprintf(&b, "\nIgnored premium columns: %s\n", strings.Join(r.UnparsedLabels, ", "))
	}
	return b.String()
}

func coverage(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return percent(*v)
}

// LayoutMarkdown renders the supported workbook layout.
func LayoutMarkdown(entries []profile.LayoutEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Supported Workbook Layout\n\n")
	fmt.Fprintln(&b, "| Workbook | Sheet | Field | Location |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", e.Workbook, escape(e.Sheet), e.Field, escape(e.Location))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
