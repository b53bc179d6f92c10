package lifesettlement

import (
	"strings"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/money"
)

// Gender buckets.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = ""
)

// ClassifyGender buckets free-text gender: anything containing "female" is female,
// otherwise anything containing "male" is male. Everything else is unknown.
func ClassifyGender(s string) string {
	g := strings.ToLower(s)
	switch {
	case strings.Contains(g, "female"):
		return GenderFemale
	case strings.Contains(g, "male"):
		return GenderMale
	default:
		return GenderUnknown
	}
}

// Summarize computes the portfolio statistics. Age and remaining LE averages ignore
// values that are zero or negative; gender percentages ignore unclassified policies.
func Summarize(policies []model.Policy) model.LifeSettlementSnapshot {
	var face, valuation, cost, premiums money.Total
	var ageSum, leSum float64
	var ageN, leN int
	snap := model.LifeSettlementSnapshot{TotalPolicies: len(policies)}

	for _, p := range policies {
		face.Add(p.NetDeathBenefit)
		valuation.Add(p.Valuation)
		cost.Add(p.CostBasis)
		premiums.Add(p.AnnualPremium)
		if p.Age > 0 {
			ageSum += p.Age
			ageN++
		}
		if p.RemainingLEMonths > 0 {
			leSum += p.RemainingLEMonths
			leN++
		}
		switch ClassifyGender(p.Gender) {
		case GenderMale:
			snap.MaleCount++
		case GenderFemale:
			snap.FemaleCount++
		}
	}

	snap.TotalFaceValue = face.Float()
	snap.TotalValuation = valuation.Float()
	snap.TotalCostBasis = cost.Float()
	snap.TotalAnnualPremiums = premiums.Float()
	snap.UnrealizedGainLoss = money.Sum(snap.TotalValuation, -snap.TotalCostBasis)

	if snap.TotalCostBasis != 0 {
		snap.ReturnPct = snap.UnrealizedGainLoss / snap.TotalCostBasis * 100
	}
	if snap.TotalFaceValue != 0 {
		snap.PremiumsPctOfFace = snap.TotalAnnualPremiums / snap.TotalFaceValue * 100
	}
	if ageN > 0 {
		snap.AverageAge = ageSum / float64(ageN)
	}
	if leN > 0 {
		snap.AverageRemainingLE = leSum / float64(leN)
	}
	if classified := snap.MaleCount + snap.FemaleCount; classified > 0 {
		snap.MalePct = float64(snap.MaleCount) / float64(classified) * 100
		snap.FemalePct = float64(snap.FemaleCount) / float64(classified) * 100
	}
	return snap
}
