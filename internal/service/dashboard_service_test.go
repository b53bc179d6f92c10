package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/testutil"
)

func sampleLedger() []testutil.LedgerRow {
	return testutil.AmortizedLedger(testutil.Date(2025, time.January, 1), 100000, 0.12, 12)
}

// TestDashboardService_ExtractLoanPortfolio tests loan extraction from upload bytes.
//
// WHY: This is the entry point behind POST /api/loans and the CLI. It must decode the
// workbook, honor the as-of override and reject structurally broken uploads outright.
func TestDashboardService_ExtractLoanPortfolio(t *testing.T) {
	t.Run("extracts the sample portfolio", func(t *testing.T) {
		svc := testutil.NewTestDashboardService(t, testutil.FixedNow)

		portfolio, err := svc.ExtractLoanPortfolio(testutil.SampleMasterWorkbook(t), nil, "")
		if err != nil {
			t.Fatalf("ExtractLoanPortfolio() returned unexpected error: %v", err)
		}

		if len(portfolio.Active) != 1 || len(portfolio.Closed) != 1 || len(portfolio.NotStarted) != 1 {
			t.Errorf("Expected 1/1/1 partitions, got %d/%d/%d",
				len(portfolio.Active), len(portfolio.Closed), len(portfolio.NotStarted))
		}
		if want := sampleLedger()[3].Closing; portfolio.Active[0].CurrentBalance != want {
			t.Errorf("Expected current balance %v as of 2025-05-31, got %v", want, portfolio.Active[0].CurrentBalance)
		}
		if portfolio.StatusReference != model.StatusReferenceNow {
			t.Errorf("Expected default status reference, got %s", portfolio.StatusReference)
		}
		if !portfolio.EvaluatedAt.Equal(testutil.FixedNow) {
			t.Errorf("Expected evaluation at the service clock, got %v", portfolio.EvaluatedAt)
		}
		if portfolio.Projection.HorizonMonths != 12 || len(portfolio.Projection.Months) != 7 {
			t.Errorf("Expected 7 projected months over a 12 month horizon, got %d over %d",
				len(portfolio.Projection.Months), portfolio.Projection.HorizonMonths)
		}
	})

	t.Run("as-of override", func(t *testing.T) {
		svc := testutil.NewTestDashboardService(t, testutil.FixedNow)
		asOf := testutil.Date(2025, time.February, 28)

		portfolio, err := svc.ExtractLoanPortfolio(testutil.SampleMasterWorkbook(t), &asOf, model.StatusReferenceAsOf)
		if err != nil {
			t.Fatalf("ExtractLoanPortfolio() returned unexpected error: %v", err)
		}
		if want := sampleLedger()[0].Closing; portfolio.Active[0].CurrentBalance != want {
			t.Errorf("Expected current balance %v, got %v", want, portfolio.Active[0].CurrentBalance)
		}
		if portfolio.StatusReference != model.StatusReferenceAsOf {
			t.Errorf("Expected status reference as_of, got %s", portfolio.StatusReference)
		}
	})

	t.Run("rejects bytes that are not a workbook", func(t *testing.T) {
		svc := testutil.NewTestDashboardService(t, testutil.FixedNow)

		portfolio, err := svc.ExtractLoanPortfolio([]byte("Borrower,Principal\nAcme,1000\n"), nil, "")
		if !errors.Is(err, apperrors.ErrUnsupportedFormat) {
			t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
		}
		if portfolio != nil {
			t.Error("Expected no partial portfolio")
		}
	})

	t.Run("rejects a workbook without a Dashboard", func(t *testing.T) {
		svc := testutil.NewTestDashboardService(t, testutil.FixedNow)
		data := testutil.NewLoanWorkbook().WithoutDashboard().WithSheet(testutil.NewLoanSheet("#1")).Bytes(t)

		_, err := svc.ExtractLoanPortfolio(data, nil, "")
		if !errors.Is(err, apperrors.ErrDashboardSheetMissing) {
			t.Errorf("Expected ErrDashboardSheetMissing, got %v", err)
		}
	})

	t.Run("uses the configured projection horizon", func(t *testing.T) {
		svc := service.NewDashboardService(profile.Default(), service.DashboardOptions{ProjectionMonths: 3}).
			WithClock(func() time.Time { return testutil.FixedNow })

		portfolio, err := svc.ExtractLoanPortfolio(testutil.SampleMasterWorkbook(t), nil, "")
		if err != nil {
			t.Fatalf("ExtractLoanPortfolio() returned unexpected error: %v", err)
		}
		if len(portfolio.Projection.Months) != 3 {
			t.Errorf("Expected 3 projected months, got %d", len(portfolio.Projection.Months))
		}
	})
}

// TestDashboardService_ExtractLifeSettlementPortfolio tests the never-failing LS path.
//
// WHY: A bad or partial life-settlement upload must degrade to an unavailable result so
// the loan report can still be shown.
func TestDashboardService_ExtractLifeSettlementPortfolio(t *testing.T) {
	svc := testutil.NewTestDashboardService(t, testutil.FixedNow)

	t.Run("sample workbook", func(t *testing.T) {
		ls := svc.ExtractLifeSettlementPortfolio(testutil.SampleLifeSettlementWorkbook(t))
		if !ls.Available {
			t.Fatalf("Expected available result, got reason %q", ls.Reason)
		}
		if ls.Snapshot.TotalPolicies != 2 || ls.Snapshot.TotalAnnualPremiums != 10000 {
			t.Errorf("Unexpected snapshot: %+v", ls.Snapshot)
		}
	})

	t.Run("garbage bytes", func(t *testing.T) {
		ls := svc.ExtractLifeSettlementPortfolio([]byte("not a workbook"))
		if ls.Available || ls.Reason == "" {
			t.Errorf("Expected unavailable result with a reason, got %+v", ls)
		}
	})

	t.Run("missing Premium Stream leaves loans untouched", func(t *testing.T) {
		data := testutil.NewLifeSettlementWorkbook().
			WithPolicy(testutil.PolicyRow{PolicyID: "LS-1", NDB: 100000.0}).
			WithoutPremiumSheet().
			Bytes(t)

		ls := svc.ExtractLifeSettlementPortfolio(data)
		if ls.Available {
			t.Error("Expected unavailable result")
		}

		portfolio, err := svc.ExtractLoanPortfolio(testutil.SampleMasterWorkbook(t), nil, "")
		if err != nil || len(portfolio.Loans) != 3 {
			t.Errorf("Expected loan extraction to be unaffected, got err=%v", err)
		}
	})
}

// TestDashboardService_BuildDashboard tests the combined upload.
func TestDashboardService_BuildDashboard(t *testing.T) {
	svc := testutil.NewTestDashboardService(t, testutil.FixedNow)

	t.Run("reconciles when both workbooks are supplied", func(t *testing.T) {
		dash, err := svc.BuildDashboard(testutil.SampleMasterWorkbook(t), testutil.SampleLifeSettlementWorkbook(t), nil, "")
		if err != nil {
			t.Fatalf("BuildDashboard() returned unexpected error: %v", err)
		}
		if dash.Reconciliation == nil {
			t.Fatal("Expected a reconciliation")
		}

		rows := dash.Reconciliation.Rows
		if len(rows) != 7 {
			t.Fatalf("Expected 7 periods, got %d", len(rows))
		}
		july := rows[0]
		wantLoan := sampleLedger()[5].Repayment
		if july.Period != (model.YearMonth{Year: 2025, Month: time.July}) || july.LoanTotal != wantLoan || july.PremiumTotal != 4000 {
			t.Errorf("Unexpected July row: %+v", july)
		}
		if july.CoverageRatio == nil || *july.CoverageRatio != wantLoan/4000*100 {
			t.Errorf("Unexpected July coverage: %v", july.CoverageRatio)
		}
		if rows[6].PremiumTotal != 0 || rows[6].CoverageRatio != nil {
			t.Errorf("Expected January 2026 without premiums, got %+v", rows[6])
		}
	})

	t.Run("loans only", func(t *testing.T) {
		dash, err := svc.BuildDashboard(testutil.SampleMasterWorkbook(t), nil, nil, "")
		if err != nil {
			t.Fatalf("BuildDashboard() returned unexpected error: %v", err)
		}
		if dash.LifeSettlement != nil || dash.Reconciliation != nil {
			t.Error("Expected no life-settlement sections")
		}
	})

	t.Run("unavailable life settlement skips reconciliation", func(t *testing.T) {
		ls := testutil.NewLifeSettlementWorkbook().WithoutValuationSheet().Bytes(t)

		dash, err := svc.BuildDashboard(testutil.SampleMasterWorkbook(t), ls, nil, "")
		if err != nil {
			t.Fatalf("BuildDashboard() returned unexpected error: %v", err)
		}
		if dash.LifeSettlement == nil || dash.LifeSettlement.Available {
			t.Errorf("Expected an unavailable life-settlement section, got %+v", dash.LifeSettlement)
		}
		if dash.Reconciliation != nil {
			t.Error("Expected no reconciliation")
		}
	})

	t.Run("loan failure fails the dashboard", func(t *testing.T) {
		_, err := svc.BuildDashboard(nil, testutil.SampleLifeSettlementWorkbook(t), nil, "")
		if !errors.Is(err, apperrors.ErrInvalidWorkbook) {
			t.Errorf("Expected ErrInvalidWorkbook, got %v", err)
		}
	})
}
