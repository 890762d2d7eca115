package handlers

import (
	"github.com/gin-gonic/gin"

	"radiology-app-server/internal/services"
	"radiology-app-server/internal/utils"
)

// DashboardHandler serves the role-specific worklist views.
type DashboardHandler struct {
	Scans *services.ScanService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(scans *services.ScanService) *DashboardHandler {
	return &DashboardHandler{Scans: scans}
}

// Radiologist returns the radiologist worklist: pending scans, recent
// completions and status totals.
func (h *DashboardHandler) Radiologist(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	dash, err := h.Scans.Radiologist(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Dashboard fetched successfully", dash)
}

// Technician returns the technician's uploads and their workflow progress.
func (h *DashboardHandler) Technician(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	dash, err := h.Scans.Technician(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Dashboard fetched successfully", dash)
}
