package handlers

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"radiology-app-server/internal/services"
	"radiology-app-server/internal/utils"
)

// ScanHandler handles scan workflow requests: uploads, listings, report
// submission and PDF generation.
type ScanHandler struct {
	Scans   *services.ScanService
	Reports *services.ReportService
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scans *services.ScanService, reports *services.ReportService) *ScanHandler {
	return &ScanHandler{Scans: scans, Reports: reports}
}

// Upload handles a technician's multipart scan upload.
func (h *ScanHandler) Upload(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	in := services.UploadInput{
		PatientName: c.PostForm("patient_name"),
		PatientID:   c.PostForm("patient_id"),
		Age:         c.PostForm("age"),
		Gender:      c.PostForm("gender"),
		ScanType:    c.PostForm("scan_type"),
	}

	file, header, err := c.Request.FormFile("scan_file")
	if err == nil {
		defer file.Close()
		in.FileName = header.Filename
		in.File = file
		in.FileSize = header.Size
	}

	scan, err := h.Scans.Upload(c.Request.Context(), p, in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "Scan uploaded successfully for patient "+scan.PatientName+"!", scan.ListItem())
}

// Pending lists scans awaiting analysis.
func (h *ScanHandler) Pending(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	scans, err := h.Scans.ListPending(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Pending scans fetched successfully", scans)
}

// Mine lists the technician's own uploads.
func (h *ScanHandler) Mine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	scans, err := h.Scans.ListMine(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Uploaded scans fetched successfully", scans)
}

// Completed lists completed reports with filters and pagination.
func (h *ScanHandler) Completed(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := h.Scans.ListCompleted(c.Request.Context(), p, services.CompletedQuery{
		Name:     c.Query("name"),
		ScanType: c.Query("scan_type"),
		FromDate: c.Query("from_date"),
		ToDate:   c.Query("to_date"),
		Page:     page,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Completed reports fetched successfully", result)
}

// Get returns a single scan for the review page.
func (h *ScanHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	scan, err := h.Scans.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Scan fetched successfully", scan)
}

// SubmitReportRequest represents the request body for report submission.
type SubmitReportRequest struct {
	ReportText string `json:"reportText"`
}

// SubmitReport records the radiologist's report and completes the scan.
func (h *ScanHandler) SubmitReport(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req SubmitReportRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	scan, err := h.Scans.SubmitReport(c.Request.Context(), p, c.Param("id"), req.ReportText)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Report submitted successfully for patient "+scan.PatientName+"!", scan)
}

// Image serves the uploaded scan file for the review page.
func (h *ScanHandler) Image(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	img, err := h.Scans.Image(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer img.Data.Close()

	data, err := io.ReadAll(img.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(200, img.ContentType, data)
}

// GeneratePDF renders and returns the report document for a completed scan.
func (h *ScanHandler) GeneratePDF(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	generated, err := h.Reports.Generate(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", generated.FileName))
	c.Data(200, "application/pdf", generated.PDF)
}
