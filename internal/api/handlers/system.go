package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Profiles string `json:"profiles"`
	Error    string `json:"error,omitempty"`
}

// Health reports whether the server can extract workbooks with its active profiles.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response := HealthResponse{
			Status:   "unhealthy",
			Profiles: "invalid",
			Error:    err.Error(),
		}
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	response := HealthResponse{
		Status:   "healthy",
		Profiles: "valid",
	}
	respondJSON(w, http.StatusOK, response)
}

// Version handles GET requests to retrieve version information and feature availability.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.systemService.CheckVersion()
	if err != nil {
		errorResponse := map[string]string{
			"error":  "failed to get version information",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse)
		return
	}

	respondJSON(w, http.StatusOK, version)
}

// Profiles returns the active workbook profiles and the layout contract they accept.
//
// Endpoint: GET /api/profiles
// Response: 200 OK with service.ProfilesResponse
func (h *SystemHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.systemService.Profiles())
}
