package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/validation"
)

// DashboardHandler handles combined Master and life-settlement uploads.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	maxUploadBytes   int64
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, maxUploadBytes int64) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Upload handles POST requests carrying both workbooks and returns loans, life
// settlements and their reconciliation in one response.
//
// Endpoint: POST /api/dashboard
// Form fields: master (required), life_settlement, as_of, status_reference
// Response: 200 OK with model.Dashboard
// Error: 400, 413 and 422 as for POST /api/loans; life-settlement problems never fail the request
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	req, err := request.ParseDashboardUpload(w, r, h.maxUploadBytes)
	if err != nil {
		respondError(w, "failed to read upload", err)
		return
	}

	params, err := validation.ValidateDashboardUpload(req)
	if err != nil {
		respondError(w, "validation failed", err)
		return
	}

	dashboard, err := h.dashboardService.BuildDashboard(req.Master.Data, req.LifeSettlement.Data, params.AsOf, params.StatusReference)
	if err != nil {
		respondError(w, "failed to build dashboard", err)
		return
	}

	respondJSON(w, http.StatusOK, dashboard)
}
