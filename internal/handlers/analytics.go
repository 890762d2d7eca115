package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"radiology-app-server/internal/services"
	"radiology-app-server/internal/utils"
)

// AnalyticsHandler serves the analytics dashboard and its chart APIs. The
// chart endpoints return the raw series shapes the charts consume instead of
// the standard envelope.
type AnalyticsHandler struct {
	Service *services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Service: service}
}

// Summary returns the analytics dashboard payload.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	summary, err := h.Service.BuildSummary(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Analytics fetched successfully", summary)
}

// DailyScans returns daily scan counts for the last 30 days.
func (h *AnalyticsHandler) DailyScans(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	series, err := h.Service.DailyScans(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// ScanTypes returns the scan type distribution.
func (h *AnalyticsHandler) ScanTypes(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	series, err := h.Service.ScanTypes(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// Workload returns completed counts per reviewing radiologist.
func (h *AnalyticsHandler) Workload(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	series, err := h.Service.Workload(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// Heatmap returns sparse per-day activity counts for the last 365 days.
func (h *AnalyticsHandler) Heatmap(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	points, err := h.Service.Heatmap(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// Performance returns per-day completed/pending counts for the last 7 days.
func (h *AnalyticsHandler) Performance(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	series, err := h.Service.Performance(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}
