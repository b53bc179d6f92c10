package loans

import (
	"math"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
)

type band struct {
	label  string
	lo, hi float64
}

var (
	balanceBands = []band{
		{"<100k", math.Inf(-1), 100_000},
		{"100k-250k", 100_000, 250_000},
		{"250k-500k", 250_000, 500_000},
		{"500k-1M", 500_000, 1_000_000},
		{">=1M", 1_000_000, math.Inf(1)},
	}
	rateBands = []band{
		{"<5%", math.Inf(-1), 0.05},
		{"5-8%", 0.05, 0.08},
		{"8-10%", 0.08, 0.10},
		{"10-12%", 0.10, 0.12},
		{"12-15%", 0.12, 0.15},
		{">=15%", 0.15, math.Inf(1)},
	}
	maturityBands = []band{
		{"matured", math.Inf(-1), 0},
		{"0-6m", 0, 6},
		{"6-12m", 6, 12},
		{"12-24m", 12, 24},
		{"24-36m", 24, 36},
		{">=36m", 36, math.Inf(1)},
	}
)

// Distribute buckets loans by current balance, interest rate and months to maturity
// using half-open [lo, hi) bands. Loans without a maturity are left out of that breakdown.
func Distribute(loans []model.Loan) model.LoanDistributions {
	d := model.LoanDistributions{
		ByBalance:  emptyBuckets(balanceBands),
		ByRate:     emptyBuckets(rateBands),
		ByMaturity: emptyBuckets(maturityBands),
	}
	for _, l := range loans {
		addTo(d.ByBalance, balanceBands, l.CurrentBalance, l.CurrentBalance)
		addTo(d.ByRate, rateBands, l.InterestRate, l.CurrentBalance)
		if l.MonthsToMaturity != nil {
			addTo(d.ByMaturity, maturityBands, *l.MonthsToMaturity, l.CurrentBalance)
		}
	}
	return d
}

func emptyBuckets(bands []band) []model.DistributionBucket {
	out := make([]model.DistributionBucket, len(bands))
	for i, b := range bands {
		out[i].Label = b.label
	}
	return out
}

func addTo(buckets []model.DistributionBucket, bands []band, v, balance float64) {
	for i, b := range bands {
		if v >= b.lo && v < b.hi {
			buckets[i].Count++
			buckets[i].Balance += balance
			return
		}
	}
}
