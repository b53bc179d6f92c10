package validation

import (
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
)

// ReportParams are the validated report settings of an upload.
type ReportParams struct {
	AsOf            *time.Time
	StatusReference model.StatusReference
}

func validateReportParams(errors map[string]string, asOf, statusRef string) ReportParams {
	var params ReportParams
	var err error
	if params.AsOf, err = ParseAsOf(asOf); err != nil {
		errors[request.FieldAsOf] = err.Error()
	}
	if params.StatusReference, err = ParseStatusReference(statusRef); err != nil {
		errors[request.FieldStatusReference] = err.Error()
	}
	return params
}

// ValidateLoanUpload checks the loan upload's file name and report parameters.
func ValidateLoanUpload(req request.LoanUploadRequest) (ReportParams, error) {
	errors := make(map[string]string)

	validateWorkbookName(errors, request.FieldFile, req.File.Filename)
	params := validateReportParams(errors, req.AsOf, req.StatusReference)

	if len(errors) > 0 {
		return ReportParams{}, &Error{Fields: errors}
	}
	return params, nil
}

// ValidateLifeSettlementUpload checks the life-settlement upload's file name.
func ValidateLifeSettlementUpload(req request.LifeSettlementUploadRequest) error {
	errors := make(map[string]string)

	validateWorkbookName(errors, request.FieldFile, req.File.Filename)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateDashboardUpload checks both file names and the report parameters.
func ValidateDashboardUpload(req request.DashboardUploadRequest) (ReportParams, error) {
	errors := make(map[string]string)

	validateWorkbookName(errors, request.FieldMaster, req.Master.Filename)
	validateWorkbookName(errors, request.FieldLifeSettlement, req.LifeSettlement.Filename)
	params := validateReportParams(errors, req.AsOf, req.StatusReference)

	if len(errors) > 0 {
		return ReportParams{}, &Error{Fields: errors}
	}
	return params, nil
}
