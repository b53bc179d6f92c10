package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/validation"
)

// LifeSettlementHandler handles HTTP requests for life-settlement workbook uploads.
type LifeSettlementHandler struct {
	dashboardService *service.DashboardService
	maxUploadBytes   int64
}

// NewLifeSettlementHandler creates a new LifeSettlementHandler.
func NewLifeSettlementHandler(dashboardService *service.DashboardService, maxUploadBytes int64) *LifeSettlementHandler {
	return &LifeSettlementHandler{
		dashboardService: dashboardService,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Upload handles POST requests carrying a life-settlement workbook. A workbook the
// extractor cannot use is still a 200 with available=false and the reason.
//
// Endpoint: POST /api/life-settlements
// Form fields: file (required)
// Response: 200 OK with model.LifeSettlementPortfolio
// Error: 400 Bad Request for a missing file or an unsupported file name
func (h *LifeSettlementHandler) Upload(w http.ResponseWriter, r *http.Request) {
	req, err := request.ParseLifeSettlementUpload(w, r, h.maxUploadBytes)
	if err != nil {
		respondError(w, "failed to read upload", err)
		return
	}

	if err := validation.ValidateLifeSettlementUpload(req); err != nil {
		respondError(w, "validation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, h.dashboardService.ExtractLifeSettlementPortfolio(req.File.Data))
}
