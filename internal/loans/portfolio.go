package loans

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/cells"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/workbook"
)

// DefaultProjectionMonths is the cash-flow projection horizon used when none is configured.
const DefaultProjectionMonths = 12

// As-of date sources recorded on the result.
const (
	AsOfFromDashboard = "dashboard"
	AsOfFromOverride  = "override"
	AsOfUnknown       = "unknown"
)

// Options controls one loan portfolio extraction.
type Options struct {
	// AsOf overrides the Dashboard as-of date when non-nil.
	AsOf *time.Time
	// StatusReference selects the date NotStarted status is judged against.
	StatusReference model.StatusReference
	// ProjectionMonths is the cash-flow horizon; zero means DefaultProjectionMonths.
	ProjectionMonths int
	// Profiles are tried in order on every loan sheet; empty means the embedded defaults.
	Profiles []profile.LoanSheet
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Extract runs the full loan pipeline over a decoded Master workbook: sheet selection,
// per-sheet extraction, partitioning, statistics, projection and distributions.
//
// A missing Dashboard sheet is a structural failure and returns
// apperrors.ErrDashboardSheetMissing with no partial result. Individual sheets that fail
// are recorded in the result's Errors; sheets without a principal are dropped.
func Extract(wb *workbook.Workbook, opts Options) (*model.LoanPortfolio, error) {
	dashboard, ok := wb.Sheet(profile.DashboardSheet)
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q not found", apperrors.ErrDashboardSheetMissing, profile.DashboardSheet)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	evaluatedAt := now()

	profiles := opts.Profiles
	if len(profiles) == 0 {
		profiles = profile.Default().LoanSheets
	}
	horizon := opts.ProjectionMonths
	if horizon <= 0 {
		horizon = DefaultProjectionMonths
	}
	statusRef := opts.StatusReference
	if statusRef == "" {
		statusRef = model.StatusReferenceNow
	}

	result := &model.LoanPortfolio{
		ReportID:        uuid.New().String(),
		AsOfSource:      AsOfUnknown,
		StatusReference: statusRef,
		EvaluatedAt:     evaluatedAt,
		Ledgers:         make(map[string][]model.AmortizationEntry),
	}

	switch {
	case opts.AsOf != nil:
		asOf := *opts.AsOf
		result.AsOfDate = &asOf
		result.AsOfSource = AsOfFromOverride
	default:
		if asOf, ok := cells.Date(dashboard.Cell(profile.AsOfCell)); ok {
			result.AsOfDate = &asOf
			result.AsOfSource = AsOfFromDashboard
		}
	}

	statusDate := evaluatedAt
	if statusRef == model.StatusReferenceAsOf && result.AsOfDate != nil {
		statusDate = *result.AsOfDate
	}

	log.Printf("[loans] report %s: extracting (as-of %s, source %s, status reference %s)",
		result.ReportID, formatDate(result.AsOfDate), result.AsOfSource, statusRef)

	in := SheetInput{AsOf: result.AsOfDate, StatusDate: statusDate}
	var loans []model.Loan
	for _, name := range LoanSheetNames(wb) {
		sheet, _ := wb.Sheet(name)
		loan, err := ExtractSheet(sheet, profiles, in)
		switch {
		case errors.Is(err, apperrors.ErrNoPrincipal):
			continue
		case err != nil:
			result.Errors = append(result.Errors, model.SheetError{Sheet: name, Message: err.Error()})
			log.Printf("[loans] report %s: sheet %q: %v", result.ReportID, name, err)
			continue
		}
		setTiming(&loan, statusDate)
		loans = append(loans, loan)
	}

	result.Loans = Dedupe(loans)
	sort.Slice(result.Loans, func(i, j int) bool { return result.Loans[i].SheetName < result.Loans[j].SheetName })
	for _, l := range result.Loans {
		result.Ledgers[l.SheetName] = l.Ledger
	}
	result.Warnings = BorrowerCollisions(result.Loans)

	result.Active, result.Closed, result.NotStarted = Partition(result.Loans)
	result.Snapshot = Summarize(result.Loans, statusDate)
	result.Projection = Project(result.Loans, evaluatedAt, horizon)
	result.Distributions = Distribute(result.Active)

	log.Printf("[loans] report %s: %d loans (%d active, %d closed, %d not started), %d sheet errors",
		result.ReportID, len(result.Loans), len(result.Active), len(result.Closed), len(result.NotStarted), len(result.Errors))
	return result, nil
}

// LoanSheetNames returns the workbook's loan sheets in workbook order: every sheet whose
// name starts with '#', except the template sheet.
func LoanSheetNames(wb *workbook.Workbook) []string {
	var names []string
	for _, name := range wb.SheetNames() {
		if strings.HasPrefix(name, profile.LoanSheetMark) && name != profile.TemplateSheet {
			names = append(names, name)
		}
	}
	return names
}

// Dedupe keeps the first loan seen for each sheet name.
func Dedupe(loans []model.Loan) []model.Loan {
	seen := make(map[string]bool, len(loans))
	out := make([]model.Loan, 0, len(loans))
	for _, l := range loans {
		if seen[l.SheetName] {
			continue
		}
		seen[l.SheetName] = true
		out = append(out, l)
	}
	return out
}

// BorrowerCollisions reports borrower names shared by more than one sheet. Ledgers are
// keyed by sheet name so nothing is lost; the warning is a data-quality notice.
func BorrowerCollisions(loans []model.Loan) []string {
	sheets := make(map[string][]string)
	var order []string
	for _, l := range loans {
		key := strings.ToLower(strings.TrimSpace(l.Borrower))
		if _, ok := sheets[key]; !ok {
			order = append(order, key)
		}
		sheets[key] = append(sheets[key], l.SheetName)
	}

	var warnings []string
	for _, key := range order {
		if names := sheets[key]; len(names) > 1 {
			warnings = append(warnings, fmt.Sprintf("borrower %q appears on %d sheets: %s",
				key, len(names), strings.Join(names, ", ")))
		}
	}
	return warnings
}

// setTiming fills the per-loan month counts relative to ref.
func setTiming(l *model.Loan, ref time.Time) {
	if l.MaturityDate != nil {
		m := monthsBetween(ref, *l.MaturityDate)
		l.MonthsToMaturity = &m
	}
	if l.StartDate != nil {
		a := monthsBetween(*l.StartDate, ref)
		l.AgeMonths = &a
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return t.Format("2006-01-02")
}
