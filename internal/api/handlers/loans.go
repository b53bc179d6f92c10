package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/validation"
)

// LoanHandler handles HTTP requests for Master workbook uploads.
// It parses the multipart form and delegates extraction to the dashboardService.
type LoanHandler struct {
	dashboardService *service.DashboardService
	maxUploadBytes   int64
}

// NewLoanHandler creates a new LoanHandler with the provided service dependency.
func NewLoanHandler(dashboardService *service.DashboardService, maxUploadBytes int64) *LoanHandler {
	return &LoanHandler{
		dashboardService: dashboardService,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Upload handles POST requests carrying a Master workbook.
//
// Endpoint: POST /api/loans
// Form fields: file (required), as_of (YYYY-MM-DD), status_reference (now|as_of)
// Response: 200 OK with model.LoanPortfolio
// Error: 400 Bad Request for a missing file or invalid fields
// Error: 413 Request Entity Too Large when the upload exceeds the limit
// Error: 422 Unprocessable Entity when the workbook cannot be decoded or has no Dashboard sheet
func (h *LoanHandler) Upload(w http.ResponseWriter, r *http.Request) {
	req, err := request.ParseLoanUpload(w, r, h.maxUploadBytes)
	if err != nil {
		respondError(w, "failed to read upload", err)
		return
	}

	params, err := validation.ValidateLoanUpload(req)
	if err != nil {
		respondError(w, "validation failed", err)
		return
	}

	portfolio, err := h.dashboardService.ExtractLoanPortfolio(req.File.Data, params.AsOf, params.StatusReference)
	if err != nil {
		respondError(w, "failed to extract loan portfolio", err)
		return
	}

	respondJSON(w, http.StatusOK, portfolio)
}
