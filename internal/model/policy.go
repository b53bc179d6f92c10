package model

// Policy represents one life-settlement policy joined with its premium stream.
type Policy struct {
	PolicyID          string  `json:"policyId"`
	InsuredID         string  `json:"insuredId"`
	InsuredName       string  `json:"insuredName"`
	Age               float64 `json:"age"`
	Gender            string  `json:"gender"`
	NetDeathBenefit   float64 `json:"netDeathBenefit"` // Face value
	Valuation         float64 `json:"valuation"`
	CostBasis         float64 `json:"costBasis"`
	RemainingLEMonths float64 `json:"remainingLeMonths"`
	AnnualPremium     float64 `json:"annualPremium"`
	PremiumPctOfFace  float64 `json:"premiumPctOfFace"`
	SourceRow         int     `json:"sourceRow"`
}

// MonthlyPremium is the portfolio premium total for one premium-sheet month column.
type MonthlyPremium struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// LifeSettlementSnapshot holds the portfolio-level statistics of the policies.
type LifeSettlementSnapshot struct {
	TotalPolicies       int     `json:"totalPolicies"`
	TotalFaceValue      float64 `json:"totalFaceValue"`
	TotalValuation      float64 `json:"totalValuation"`
	TotalCostBasis      float64 `json:"totalCostBasis"`
	UnrealizedGainLoss  float64 `json:"unrealizedGainLoss"`
	ReturnPct           float64 `json:"returnPct"`
	AverageAge          float64 `json:"averageAge"`
	MaleCount           int     `json:"maleCount"`
	FemaleCount         int     `json:"femaleCount"`
	MalePct             float64 `json:"malePct"`
	FemalePct           float64 `json:"femalePct"`
	AverageRemainingLE  float64 `json:"averageRemainingLe"`
	TotalAnnualPremiums float64 `json:"totalAnnualPremiums"`
	PremiumsPctOfFace   float64 `json:"premiumsPctOfFace"`
}

// LifeSettlementPortfolio is the result of a life-settlement workbook extraction.
// When Available is false only ReportID and Reason are meaningful.
type LifeSettlementPortfolio struct {
	ReportID               string                 `json:"reportId"`
	Available              bool                   `json:"available"`
	Reason                 string                 `json:"reason,omitempty"`
	Policies               []Policy               `json:"policies"`
	Snapshot               LifeSettlementSnapshot `json:"snapshot"`
	MonthlyPremiums        []MonthlyPremium       `json:"monthlyPremiums"`
	SkippedRows            int                    `json:"skippedRows"`
	NormalizedIDs          bool                   `json:"normalizedIds"`
	UnmatchedPremiumIDs    []string               `json:"unmatchedPremiumIds,omitempty"`
	PoliciesWithoutPremium []string               `json:"policiesWithoutPremium,omitempty"`
}

// PremiumsByLabel returns the monthly premium totals keyed by their month label.
func (p LifeSettlementPortfolio) PremiumsByLabel() map[string]float64 {
	out := make(map[string]float64, len(p.MonthlyPremiums))
	for _, mp := range p.MonthlyPremiums {
		out[mp.Label] += mp.Amount
	}
	return out
}
