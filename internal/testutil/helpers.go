package testutil

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/service"
)

// FixedNow is the clock used by the sample workbooks: mid-June 2025, with the Master
// as-of date at the end of May and premiums due from July.
var FixedNow = Date(2025, time.June, 15)

// DefaultOptions are the report settings used by the test services.
var DefaultOptions = service.DashboardOptions{
	ProjectionMonths:   12,
	StatusReference:    model.StatusReferenceNow,
	NormalizePolicyIDs: true,
}

// NewTestDashboardService creates a DashboardService with the embedded profiles and a
// clock fixed at now.
func NewTestDashboardService(t *testing.T, now time.Time) *service.DashboardService {
	t.Helper()

	return service.NewDashboardService(profile.Default(), DefaultOptions).
		WithClock(func() time.Time { return now })
}

func NewTestSystemService(t *testing.T) *service.SystemService {
	t.Helper()

	return service.NewSystemService(profile.Default(), DefaultOptions)
}

// SampleMasterWorkbook returns a Master workbook with one active loan repaying through
// January 2026, one closed loan and one loan starting in 2026.
//
// Example usage:
//
//	data := testutil.SampleMasterWorkbook(t)
//	portfolio, err := svc.ExtractLoanPortfolio(data, nil, "")
func SampleMasterWorkbook(t *testing.T) []byte {
	t.Helper()

	activeStart := Date(2025, time.January, 1)
	closedStart := Date(2024, time.January, 1)
	futureStart := Date(2026, time.March, 1)

	return NewLoanWorkbook().
		WithAsOf(Date(2025, time.May, 31)).
		WithSheet(NewLoanSheet("#1").
			WithBorrower(MakeBorrowerName("Harbor")).
			WithLedger(AmortizedLedger(activeStart, 100000, 0.12, 12)...).
			WithStartDate(activeStart)).
		WithSheet(NewLoanSheet("#2").
			WithBorrower(MakeBorrowerName("Summit")).
			InColumnC("Loan Principal Amount").
			WithPrincipal(24000.0).
			WithRate(0.1).
			WithTerm(6).
			WithStartDate(closedStart).
			WithLedger(AmortizedLedger(closedStart, 24000, 0.1, 6)...)).
		WithSheet(NewLoanSheet("#3").
			WithBorrower(MakeBorrowerName("Pipeline")).
			WithStartDate(futureStart)).
		WithSheet(NewLoanSheet("#AddSheet")).
		Bytes(t)
}

// SampleLifeSettlementWorkbook returns a life-settlement workbook with two policies and
// premiums due July to September 2025.
func SampleLifeSettlementWorkbook(t *testing.T) []byte {
	t.Helper()

	return NewLifeSettlementWorkbook().
		WithPolicy(PolicyRow{
			PolicyID: "LS-001", InsuredID: "INS-1", Name: "A. Insured", Age: 84.0, Gender: "Male",
			NDB: 1000000.0, Valuation: 310000.0, CostBasis: 280000.0, RemainingLE: 54.0,
		}).
		WithPolicy(PolicyRow{
			PolicyID: "LS-002", InsuredID: "INS-2", Name: "B. Insured", Age: 88.0, Gender: "Female",
			NDB: 500000.0, Valuation: 140000.0, CostBasis: 150000.0, RemainingLE: 40.0,
		}).
		WithMonths("Jul-25", "Aug-25", "Sep-25").
		WithPremium("LS-001", "Jul-25", 3000).
		WithPremium("LS-001", "Aug-25", 3000).
		WithPremium("LS-001", "Sep-25", 3000).
		WithPremium("LS-002", "Jul-25", 1000).
		Bytes(t)
}

// MakeBorrowerName generates a unique borrower name for testing.
//
// Example usage:
//
//	name := testutil.MakeBorrowerName("Harbor")
//	// Returns: "Harbor Holdings X1Y2Z3"
func MakeBorrowerName(base string) string {
	if base == "" {
		base = "Borrower"
	}
	return base + " Holdings " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
