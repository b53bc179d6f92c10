package model

// ComparisonRow aligns loan collections and premiums due for one period.
// CoverageRatio is nil when no premium is due in the period.
type ComparisonRow struct {
	Period        YearMonth `json:"period"`
	LoanTotal     float64   `json:"loanTotal"`
	PremiumTotal  float64   `json:"premiumTotal"`
	Net           float64   `json:"net"`
	CoverageRatio *float64  `json:"coverageRatio"`
}

// ReconciliationSummary holds the scalar summaries of a reconciliation.
type ReconciliationSummary struct {
	Current         *ComparisonRow `json:"current"`
	Periods         int            `json:"periods"`
	AverageLoan     float64        `json:"averageLoan"`
	AveragePremium  float64        `json:"averagePremium"`
	AverageNet      float64        `json:"averageNet"`
	OverallCoverage *float64       `json:"overallCoverage"`
}

// Reconciliation is the month-indexed comparison of loan cash flows and premiums.
type Reconciliation struct {
	Rows           []ComparisonRow       `json:"rows"`
	Summary        ReconciliationSummary `json:"summary"`
	UnparsedLabels []string              `json:"unparsedLabels,omitempty"`
}

// Dashboard is the combined result of one Master upload and an optional life-settlement
// upload. LifeSettlement and Reconciliation are nil when no life-settlement workbook was
// supplied; Reconciliation is also nil when the life-settlement result is unavailable.
type Dashboard struct {
	Loans          *LoanPortfolio           `json:"loans"`
	LifeSettlement *LifeSettlementPortfolio `json:"lifeSettlement"`
	Reconciliation *Reconciliation          `json:"reconciliation"`
}
