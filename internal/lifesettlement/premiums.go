package lifesettlement

import (
	"log"
	"math"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/cells"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/money"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/workbook"
)

// Serial date range treated as a month header rather than a plain number (2000..2099).
const (
	minHeaderSerial = 36526
	maxHeaderSerial = 73051
)

// Stream is the premium schedule read from the wide premium sheet.
type Stream struct {
	// Labels are the discovered month labels in column order.
	Labels []string
	// ByPolicy maps a join key to its raw policy id and per-label amounts.
	ByPolicy map[string]*PolicyPremiums
	// Order lists join keys in the order they first appear.
	Order []string

	totals map[string]*money.Total
}

// PolicyPremiums are one premium row's amounts.
type PolicyPremiums struct {
	RawID   string
	Amounts map[string]float64
}

// Annual is the sum of the policy's monthly amounts.
func (p *PolicyPremiums) Annual() float64 {
	var t money.Total
	for _, v := range p.Amounts {
		t.Add(v)
	}
	return t.Float()
}

// Totals returns the portfolio premium per month label, in column order.
func (s Stream) Totals() []model.MonthlyPremium {
	out := make([]model.MonthlyPremium, 0, len(s.Labels))
	for _, label := range s.Labels {
		out = append(out, model.MonthlyPremium{Label: label, Amount: s.totals[label].Float()})
	}
	return out
}

// ReadPremiums discovers month labels across the header band and reads policyCount rows
// starting at FirstRow. Rows past that count are not read.
func ReadPremiums(sheet *workbook.Sheet, layout profile.Premium, policyCount int, key func(workbook.Cell) string) Stream {
	s := Stream{
		ByPolicy: make(map[string]*PolicyPremiums),
		totals:   make(map[string]*money.Total),
	}

	columns, err := workbook.Columns(layout.MonthColumns.From, layout.MonthColumns.To)
	if err != nil {
		log.Printf("[lifesettlement] premium band %s:%s: %v", layout.MonthColumns.From, layout.MonthColumns.To, err)
		return s
	}

	type monthColumn struct{ column, label string }
	var months []monthColumn
	for _, col := range columns {
		label := headerLabel(sheet.At(col, layout.HeaderRow))
		if label == "" {
			continue
		}
		if _, dup := s.totals[label]; !dup {
			s.Labels = append(s.Labels, label)
			s.totals[label] = &money.Total{}
		}
		months = append(months, monthColumn{col, label})
	}

	for row := layout.FirstRow; row < layout.FirstRow+policyCount; row++ {
		idCell := sheet.At(layout.PolicyIDColumn, row)
		if idCell.IsEmpty() || idCell.Kind == workbook.KindError {
			continue
		}
		k := key(idCell)
		pp, ok := s.ByPolicy[k]
		if !ok {
			pp = &PolicyPremiums{RawID: cells.Text(idCell), Amounts: make(map[string]float64)}
			s.ByPolicy[k] = pp
			s.Order = append(s.Order, k)
		}
		for _, m := range months {
			amount := cells.Numeric(sheet.At(m.column, row))
			s.totals[m.label].Add(amount)
			pp.Amounts[m.label] += amount
		}
	}
	return s
}

// headerLabel is the month label of a premium header cell. Date cells and whole serial
// numbers in the date range are written as Mon-YY.
func headerLabel(c workbook.Cell) string {
	switch c.Kind {
	case workbook.KindDate:
		return c.Time.Format("Jan-06")
	case workbook.KindNumber:
		if c.Number >= minHeaderSerial && c.Number <= maxHeaderSerial && c.Number == math.Trunc(c.Number) {
			if t, ok := cells.FromSerial(c.Number); ok {
				return t.Format("Jan-06")
			}
		}
	}
	return cells.Text(c)
}

// Join sets each policy's annual premium and premium percent of face from the stream.
// It also reports policies with no premium row and premium ids matching no policy.
func Join(policies []model.Policy, s Stream, key func(workbook.Cell) string) (joined []model.Policy, withoutPremium, unmatched []string) {
	known := make(map[string]bool, len(policies))
	joined = make([]model.Policy, len(policies))
	for i, p := range policies {
		k := key(workbook.Text(p.PolicyID))
		known[k] = true
		if pp, ok := s.ByPolicy[k]; ok {
			p.AnnualPremium = pp.Annual()
		} else {
			withoutPremium = append(withoutPremium, p.PolicyID)
		}
		if p.NetDeathBenefit != 0 {
			p.PremiumPctOfFace = p.AnnualPremium / p.NetDeathBenefit * 100
		}
		joined[i] = p
	}
	for _, k := range s.Order {
		if !known[k] {
			unmatched = append(unmatched, s.ByPolicy[k].RawID)
		}
	}
	return joined, withoutPremium, unmatched
}
