// Package money accumulates and formats US dollar amounts.
//
// Workbook values arrive as float64; totals are accumulated as decimals so that summing
// hundreds of ledger rows does not drift away from the cent values shown in the sheets.
package money

import (
	"fmt"
	"math"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the reporting currency of both portfolios.
const Currency = gomoney.USD

// Total is an exact running sum of float amounts. The zero value is ready to use.
type Total struct {
	d decimal.Decimal
}

// Add adds v to the total. Non-finite values are ignored.
func (t *Total) Add(v float64) {
	if !finite(v) {
		return
	}
	t.d = t.d.Add(decimal.NewFromFloat(v))
}

// Float returns the total as a float64.
func (t Total) Float() float64 {
	return t.d.InexactFloat64()
}

// Sum returns the exact sum of values.
func Sum(values ...float64) float64 {
	var t Total
	for _, v := range values {
		t.Add(v)
	}
	return t.Float()
}

// Round rounds to cents, half away from zero. Non-finite values round to 0.
func Round(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// IsZero reports whether v rounds to zero cents.
func IsZero(v float64) bool {
	return Round(v) == 0
}

// Format renders an amount as "$1,234.56". Zero and non-finite values render as "$0.00".
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return gomoney.New(cents, Currency).Display()
}

// Percent renders a fraction as a percentage with two decimals: 0.065 -> "6.50%".
func Percent(fraction float64) string {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		fraction = 0
	}
	return fmt.Sprintf("%.2f%%", fraction*100)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
