package service

import (
	"log"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/lifesettlement"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/loans"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/reconcile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/workbook"
)

// DashboardOptions are the report settings applied to every extraction.
type DashboardOptions struct {
	ProjectionMonths   int
	StatusReference    model.StatusReference
	NormalizePolicyIDs bool
}

// DashboardService runs the extraction pipelines over uploaded workbook bytes.
// It holds no per-request state; every call decodes and processes its own workbook.
type DashboardService struct {
	profiles profile.Set
	opts     DashboardOptions
	now      func() time.Time
}

// NewDashboardService creates a DashboardService using the given workbook profiles.
func NewDashboardService(profiles profile.Set, opts DashboardOptions) *DashboardService {
	if opts.StatusReference == "" {
		opts.StatusReference = model.StatusReferenceNow
	}
	if opts.ProjectionMonths <= 0 {
		opts.ProjectionMonths = loans.DefaultProjectionMonths
	}
	return &DashboardService{
		profiles: profiles,
		opts:     opts,
		now:      time.Now,
	}
}

// WithClock replaces the service clock. Used by tests and the CLI.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// ExtractLoanPortfolio decodes a Master workbook and extracts the loan portfolio.
//
// asOf overrides the Dashboard as-of date when non-nil. An empty statusRef uses the
// configured default. Undecodable workbooks and a missing Dashboard sheet are returned
// as errors; no partial portfolio is produced.
func (s *DashboardService) ExtractLoanPortfolio(data []byte, asOf *time.Time, statusRef model.StatusReference) (*model.LoanPortfolio, error) {
	wb, err := workbook.Open(data)
	if err != nil {
		log.Printf("[service] master workbook rejected: %v", err)
		return nil, err
	}

	if statusRef == "" {
		statusRef = s.opts.StatusReference
	}
	return loans.Extract(wb, loans.Options{
		AsOf:             asOf,
		StatusReference:  statusRef,
		ProjectionMonths: s.opts.ProjectionMonths,
		Profiles:         s.profiles.LoanSheets,
		Now:              s.now,
	})
}

// ExtractLifeSettlementPortfolio decodes a life-settlement workbook and extracts its
// policies. It never fails: undecodable workbooks and missing sheets produce an
// unavailable result with the reason.
func (s *DashboardService) ExtractLifeSettlementPortfolio(data []byte) *model.LifeSettlementPortfolio {
	wb, err := workbook.Open(data)
	if err != nil {
		log.Printf("[service] life-settlement workbook rejected: %v", err)
		return lifesettlement.Unavailable(err.Error())
	}
	return lifesettlement.Extract(wb, lifesettlement.Options{
		Valuation:    s.profiles.Valuation,
		Premium:      s.profiles.Premium,
		NormalizeIDs: s.opts.NormalizePolicyIDs,
	})
}

// Reconcile aligns a loan projection with a premium series. The summary's current row is
// the period containing the service clock's today.
func (s *DashboardService) Reconcile(projection model.CashflowProjection, premiums []model.MonthlyPremium) model.Reconciliation {
	return reconcile.Reconcile(loans.MonthlyTotals(projection), premiums, model.YearMonthOf(s.now()))
}

// BuildDashboard runs the loan pipeline and, when lifeSettlement is non-empty, the
// life-settlement pipeline and the reconciliation. Only loan failures are errors.
func (s *DashboardService) BuildDashboard(master, lifeSettlement []byte, asOf *time.Time, statusRef model.StatusReference) (*model.Dashboard, error) {
	portfolio, err := s.ExtractLoanPortfolio(master, asOf, statusRef)
	if err != nil {
		return nil, err
	}

	dashboard := &model.Dashboard{Loans: portfolio}
	if len(lifeSettlement) == 0 {
		return dashboard, nil
	}

	dashboard.LifeSettlement = s.ExtractLifeSettlementPortfolio(lifeSettlement)
	if dashboard.LifeSettlement.Available {
		rec := s.Reconcile(portfolio.Projection, dashboard.LifeSettlement.MonthlyPremiums)
		dashboard.Reconciliation = &rec
	}
	return dashboard, nil
}
