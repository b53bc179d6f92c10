package model

import "time"

// LoanStatus is the three-state status of a participation loan. It is recomputed on
// every extraction; there is no persisted history.
type LoanStatus string

const (
	LoanStatusNotStarted LoanStatus = "NotStarted"
	LoanStatusActive     LoanStatus = "Active"
	LoanStatusClosed     LoanStatus = "Closed"
)

// StatusReference selects the date loan status is evaluated against.
type StatusReference string

const (
	// StatusReferenceNow evaluates status against the wall clock at extraction time.
	StatusReferenceNow StatusReference = "now"
	// StatusReferenceAsOf evaluates status against the report as-of date.
	StatusReferenceAsOf StatusReference = "as_of"
)

// AmortizationEntry is one row of a loan ledger, reported exactly as found in the sheet.
type AmortizationEntry struct {
	Row             int        `json:"row"`
	Month           *time.Time `json:"month"`
	RepaymentNumber float64    `json:"repaymentNumber"`
	OpeningBalance  float64    `json:"openingBalance"`
	Repayment       float64    `json:"repayment"`
	Interest        float64    `json:"interest"`
	PrincipalRepaid float64    `json:"principalRepaid"`
	ClosingBalance  float64    `json:"closingBalance"`
	PaymentDate     *time.Time `json:"paymentDate"`
	AmountPaid      float64    `json:"amountPaid"`
	Note            string     `json:"note,omitempty"`
}

// Loan represents one participation loan extracted from a single '#' sheet.
type Loan struct {
	SheetName        string     `json:"sheetName"` // Stable key
	Borrower         string     `json:"borrower"`  // Display only, not unique
	Profile          string     `json:"profile"`
	DataColumn       string     `json:"dataColumn"`
	Principal        float64    `json:"principal"`
	InterestRate     float64    `json:"interestRate"` // Annual, as a fraction
	TermMonths       int        `json:"termMonths"`
	Payment          float64    `json:"payment"`
	InterestOnly     bool       `json:"interestOnly"`
	StartDate        *time.Time `json:"startDate"`
	MaturityDate     *time.Time `json:"maturityDate"`
	OpeningBalance   float64    `json:"openingBalance"`
	CurrentBalance   float64    `json:"currentBalance"`
	PrincipalRepaid  float64    `json:"principalRepaid"`
	InterestRepaid   float64    `json:"interestRepaid"`
	LastPayment      float64    `json:"lastPayment"`
	MonthsToMaturity *float64   `json:"monthsToMaturity"`
	AgeMonths        *float64   `json:"ageMonths"`
	Notes            string     `json:"notes,omitempty"`
	Status           LoanStatus `json:"status"`

	Ledger []AmortizationEntry `json:"-"`
}

// CohortStats aggregates the loans sharing one status.
type CohortStats struct {
	Count           int     `json:"count"`
	OriginalBalance float64 `json:"originalBalance"`
	CurrentBalance  float64 `json:"currentBalance"`
	PrincipalRepaid float64 `json:"principalRepaid"`
	InterestRepaid  float64 `json:"interestRepaid"`
}

// PortfolioSnapshot holds the portfolio-level loan statistics. Sums cover every loan
// regardless of status; rate and time averages cover active loans only.
type PortfolioSnapshot struct {
	TotalOriginalBalance    float64                    `json:"totalOriginalBalance"`
	TotalCurrentBalance     float64                    `json:"totalCurrentBalance"`
	TotalPrincipalRepaid    float64                    `json:"totalPrincipalRepaid"`
	TotalInterestRepaid     float64                    `json:"totalInterestRepaid"`
	TotalLoans              int                        `json:"totalLoans"`
	Cohorts                 map[LoanStatus]CohortStats `json:"cohorts"`
	WeightedAverageRate     float64                    `json:"weightedAverageRate"`
	RateOutliersExcluded    int                        `json:"rateOutliersExcluded"`
	AverageMonthsToMaturity float64                    `json:"averageMonthsToMaturity"`
	AverageLoanAgeMonths    float64                    `json:"averageLoanAgeMonths"`
}

// ProjectionMonth is one month of the forward cash-flow projection.
type ProjectionMonth struct {
	Period    YearMonth `json:"period"`
	Payment   float64   `json:"payment"`
	Interest  float64   `json:"interest"`
	Principal float64   `json:"principal"`
	Loans     int       `json:"loans"`
}

// ProjectionQuarter is the quarterly roll-up of the projection's total payment.
type ProjectionQuarter struct {
	Quarter string  `json:"quarter"`
	Payment float64 `json:"payment"`
}

// CashflowProjection is the forward cash-flow projection over a fixed horizon.
type CashflowProjection struct {
	HorizonMonths int                 `json:"horizonMonths"`
	From          time.Time           `json:"from"`
	Months        []ProjectionMonth   `json:"months"`
	Quarters      []ProjectionQuarter `json:"quarters"`
	Total         float64             `json:"total"`
}

// DistributionBucket counts active loans falling in one half-open band.
type DistributionBucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Balance float64 `json:"balance"`
}

// LoanDistributions are the informational breakdowns of active loans.
type LoanDistributions struct {
	ByBalance  []DistributionBucket `json:"byBalance"`
	ByRate     []DistributionBucket `json:"byRate"`
	ByMaturity []DistributionBucket `json:"byMaturity"`
}

// SheetError records a loan sheet that could not be extracted.
type SheetError struct {
	Sheet   string `json:"sheet"`
	Message string `json:"message"`
}

// LoanPortfolio is the complete result of one loan workbook extraction.
type LoanPortfolio struct {
	ReportID        string                         `json:"reportId"`
	AsOfDate        *time.Time                     `json:"asOfDate"`
	AsOfSource      string                         `json:"asOfSource"`
	StatusReference StatusReference                `json:"statusReference"`
	EvaluatedAt     time.Time                      `json:"evaluatedAt"`
	Loans           []Loan                         `json:"loans"`
	Active          []Loan                         `json:"active"`
	Closed          []Loan                         `json:"closed"`
	NotStarted      []Loan                         `json:"notStarted"`
	Ledgers         map[string][]AmortizationEntry `json:"ledgers"` // Keyed by sheet name
	Snapshot        PortfolioSnapshot              `json:"snapshot"`
	Projection      CashflowProjection             `json:"projection"`
	Distributions   LoanDistributions              `json:"distributions"`
	Errors          []SheetError                   `json:"errors,omitempty"`
	Warnings        []string                       `json:"warnings,omitempty"`
}
