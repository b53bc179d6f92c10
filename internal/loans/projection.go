package loans

import (
	"sort"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/money"
)

type monthTotals struct {
	payment, interest, principal money.Total
	loans                        map[string]bool
}

// Project builds the forward cash-flow projection from the ledgers of Active and Closed
// loans: rows whose month is strictly after now and no later than now plus horizon months,
// grouped by calendar month. NotStarted loans are excluded.
func Project(loans []model.Loan, now time.Time, horizon int) model.CashflowProjection {
	end := now.AddDate(0, horizon, 0)
	byMonth := make(map[model.YearMonth]*monthTotals)

	for _, l := range loans {
		if l.Status == model.LoanStatusNotStarted {
			continue
		}
		for _, e := range l.Ledger {
			if e.Month == nil || !e.Month.After(now) || e.Month.After(end) {
				continue
			}
			ym := model.YearMonthOf(*e.Month)
			m, ok := byMonth[ym]
			if !ok {
				m = &monthTotals{loans: make(map[string]bool)}
				byMonth[ym] = m
			}
			m.payment.Add(e.Repayment)
			m.interest.Add(e.Interest)
			m.principal.Add(e.PrincipalRepaid)
			m.loans[l.SheetName] = true
		}
	}

	periods := make([]model.YearMonth, 0, len(byMonth))
	for ym := range byMonth {
		periods = append(periods, ym)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	proj := model.CashflowProjection{
		HorizonMonths: horizon,
		From:          now,
		Months:        make([]model.ProjectionMonth, 0, len(periods)),
	}
	var total money.Total
	for _, ym := range periods {
		m := byMonth[ym]
		proj.Months = append(proj.Months, model.ProjectionMonth{
			Period:    ym,
			Payment:   m.payment.Float(),
			Interest:  m.interest.Float(),
			Principal: m.principal.Float(),
			Loans:     len(m.loans),
		})
		total.Add(m.payment.Float())
	}
	proj.Total = total.Float()
	proj.Quarters = Quarterly(proj.Months)
	return proj
}

// Quarterly rolls projection months up into YYYY-Qn totals of payment, in period order.
func Quarterly(months []model.ProjectionMonth) []model.ProjectionQuarter {
	var quarters []model.ProjectionQuarter
	var running money.Total
	for i, m := range months {
		running.Add(m.Payment)
		q := m.Period.Quarter()
		if i == len(months)-1 || months[i+1].Period.Quarter() != q {
			quarters = append(quarters, model.ProjectionQuarter{Quarter: q, Payment: running.Float()})
			running = money.Total{}
		}
	}
	return quarters
}

// MonthlyTotals returns the projection's total payment per period.
func MonthlyTotals(p model.CashflowProjection) map[model.YearMonth]float64 {
	out := make(map[model.YearMonth]float64, len(p.Months))
	for _, m := range p.Months {
		out[m.Period] = m.Payment
	}
	return out
}
