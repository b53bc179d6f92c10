package loans

import (
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/money"
)

const (
	// RateOutlierThreshold is the annual rate above which an active loan is treated as a
	// data-entry error and left out of the weighted-average rate.
	RateOutlierThreshold = 0.30
	// DaysPerMonth converts day spans to months.
	DaysPerMonth = 30.44
)

// Partition splits loans by status, preserving order.
func Partition(loans []model.Loan) (active, closed, notStarted []model.Loan) {
	for _, l := range loans {
		switch l.Status {
		case model.LoanStatusActive:
			active = append(active, l)
		case model.LoanStatusClosed:
			closed = append(closed, l)
		case model.LoanStatusNotStarted:
			notStarted = append(notStarted, l)
		}
	}
	return active, closed, notStarted
}

type cohortTotals struct {
	count                                              int
	original, current, principalRepaid, interestRepaid money.Total
}

func (c *cohortTotals) add(l model.Loan) {
	c.count++
	c.original.Add(l.Principal)
	c.current.Add(l.CurrentBalance)
	c.principalRepaid.Add(l.PrincipalRepaid)
	c.interestRepaid.Add(l.InterestRepaid)
}

func (c cohortTotals) stats() model.CohortStats {
	return model.CohortStats{
		Count:           c.count,
		OriginalBalance: c.original.Float(),
		CurrentBalance:  c.current.Float(),
		PrincipalRepaid: c.principalRepaid.Float(),
		InterestRepaid:  c.interestRepaid.Float(),
	}
}

// Summarize computes the portfolio snapshot. Sums cover every loan; the weighted-average
// rate and the time averages cover active loans only, with ref as the reference date.
func Summarize(loans []model.Loan, ref time.Time) model.PortfolioSnapshot {
	var all cohortTotals
	cohorts := map[model.LoanStatus]*cohortTotals{
		model.LoanStatusActive:     {},
		model.LoanStatusClosed:     {},
		model.LoanStatusNotStarted: {},
	}

	for _, l := range loans {
		all.add(l)
		if c, ok := cohorts[l.Status]; ok {
			c.add(l)
		}
	}

	totals := all.stats()
	snap := model.PortfolioSnapshot{
		TotalOriginalBalance: totals.OriginalBalance,
		TotalCurrentBalance:  totals.CurrentBalance,
		TotalPrincipalRepaid: totals.PrincipalRepaid,
		TotalInterestRepaid:  totals.InterestRepaid,
		TotalLoans:           totals.Count,
		Cohorts:              make(map[model.LoanStatus]model.CohortStats, len(cohorts)),
	}
	for status, c := range cohorts {
		snap.Cohorts[status] = c.stats()
	}

	active, _, _ := Partition(loans)
	snap.WeightedAverageRate, snap.RateOutliersExcluded = WeightedAverageRate(active)
	snap.AverageMonthsToMaturity, snap.AverageLoanAgeMonths = averageTiming(active, ref)
	return snap
}

// WeightedAverageRate is the current-balance-weighted mean rate of the given loans,
// skipping loans above RateOutlierThreshold. It also returns how many were skipped.
// With no remaining weight the average is zero.
func WeightedAverageRate(loans []model.Loan) (rate float64, outliers int) {
	var weighted, weight float64
	for _, l := range loans {
		if l.InterestRate > RateOutlierThreshold {
			outliers++
			continue
		}
		weighted += l.InterestRate * l.CurrentBalance
		weight += l.CurrentBalance
	}
	if weight == 0 {
		return 0, outliers
	}
	return weighted / weight, outliers
}

// averageTiming averages months to maturity over loans whose maturity is not in the past
// and loan age over loans whose start is not in the future.
func averageTiming(loans []model.Loan, ref time.Time) (toMaturity, age float64) {
	var maturitySum, ageSum float64
	var maturityN, ageN int
	for _, l := range loans {
		if l.MaturityDate != nil && !l.MaturityDate.Before(ref) {
			maturitySum += monthsBetween(ref, *l.MaturityDate)
			maturityN++
		}
		if l.StartDate != nil && !l.StartDate.After(ref) {
			ageSum += monthsBetween(*l.StartDate, ref)
			ageN++
		}
	}
	if maturityN > 0 {
		toMaturity = maturitySum / float64(maturityN)
	}
	if ageN > 0 {
		age = ageSum / float64(ageN)
	}
	return toMaturity, age
}

// monthsBetween is the signed span from a to b in DaysPerMonth months.
func monthsBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24 / DaysPerMonth
}
