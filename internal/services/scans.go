package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"radiology-app-server/internal/ai"
	"radiology-app-server/internal/models"
	"radiology-app-server/internal/storage"
	"radiology-app-server/internal/store"
)

const (
	maxPatientAge     = 150
	completedPageSize = 15
)

var allowedScanExtensions = map[string]bool{
	"jpg":   true,
	"jpeg":  true,
	"png":   true,
	"dcm":   true,
	"dicom": true,
}

// ScanService is the workflow engine: it enforces role-gated transitions on
// scan records and serves the listing views.
type ScanService struct {
	scans     store.ScanStore
	files     storage.ObjectStorage
	predictor ai.Predictor // nil disables AI triage
	clock     Clock
}

// NewScanService creates a ScanService. predictor may be nil.
func NewScanService(scans store.ScanStore, files storage.ObjectStorage, predictor ai.Predictor, clock Clock) *ScanService {
	return &ScanService{scans: scans, files: files, predictor: predictor, clock: clock}
}

// UploadInput carries the upload form fields and the scan image itself. Age
// arrives as submitted so the service owns its validation.
type UploadInput struct {
	PatientName string
	PatientID   string
	Age         string
	Gender      string
	ScanType    string
	FileName    string
	File        io.Reader
	FileSize    int64
}

// Upload validates a technician's submission, persists the image under a
// collision-resistant name and inserts the scan with status Pending Analysis.
// The file write and the record insert are not atomic together; a crash in
// between can orphan the file.
func (s *ScanService) Upload(ctx context.Context, p models.Principal, in UploadInput) (*models.Scan, error) {
	if err := requireRole(p, models.RoleTechnician); err != nil {
		return nil, err
	}

	patientName := strings.TrimSpace(in.PatientName)
	patientID := strings.TrimSpace(in.PatientID)
	gender := strings.TrimSpace(in.Gender)
	scanType := strings.TrimSpace(in.ScanType)
	ageStr := strings.TrimSpace(in.Age)

	if patientName == "" || patientID == "" || ageStr == "" || gender == "" || scanType == "" || in.FileName == "" || in.File == nil {
		return nil, validationErrorf("All fields are required!")
	}

	age, err := strconv.Atoi(ageStr)
	if err != nil {
		return nil, validationErrorf("Age must be a number!")
	}
	if age <= 0 || age > maxPatientAge {
		return nil, validationErrorf("Please enter a valid age!")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(in.FileName), "."))
	if !allowedScanExtensions[ext] {
		return nil, validationErrorf("Invalid file format! Allowed: JPG, PNG, JPEG, DICOM")
	}

	now := s.clock.Now()
	fileName := fmt.Sprintf("%s_%s.%s", patientID, now.Format("20060102_150405"), ext)
	key := "scans/" + fileName

	if err := s.files.Put(ctx, key, in.File, in.FileSize, storage.ContentTypeForExt(ext)); err != nil {
		return nil, fmt.Errorf("storing scan file: %w", err)
	}

	scan := &models.Scan{
		PatientName: patientName,
		PatientID:   patientID,
		Age:         age,
		Gender:      gender,
		ScanType:    scanType,
		FilePath:    key,
		UploadedBy:  p.Email,
		UploadedAt:  now,
		Status:      models.StatusPendingAnalysis,
	}

	// Best-effort triage. A failed prediction is logged and the upload
	// proceeds without one.
	if s.predictor != nil {
		if pred, err := s.predictor.Predict(ctx, scanType, fileName); err != nil {
			log.Printf("ai prediction failed for %s: %v", fileName, err)
		} else {
			confidence := pred.Confidence
			scan.AIPrediction = pred.Label
			scan.AIConfidence = &confidence
		}
	}

	if err := s.scans.Create(ctx, scan); err != nil {
		return nil, fmt.Errorf("creating scan record: %w", err)
	}
	return scan, nil
}

// SubmitReport performs the terminal workflow transition: the scan gets the
// radiologist's report, reviewer stamps and status Completed. The transition
// is one-way; a completed scan cannot be reported again.
func (s *ScanService) SubmitReport(ctx context.Context, p models.Principal, scanID, reportText string) (*models.Scan, error) {
	if err := requireRole(p, models.RoleRadiologist); err != nil {
		return nil, err
	}

	reportText = strings.TrimSpace(reportText)
	if reportText == "" {
		return nil, validationErrorf("Report text is required!")
	}

	scan, err := s.byID(ctx, scanID)
	if err != nil {
		return nil, err
	}
	if scan.Completed() {
		return nil, fmt.Errorf("scan %s already completed: %w", scanID, ErrInvalidState)
	}

	now := s.clock.Now()
	if err := s.scans.Complete(ctx, scanID, reportText, p.Email, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("completing scan: %w", err)
	}

	scan.RadiologistReport = reportText
	scan.ReviewedBy = p.Email
	scan.ReviewedAt = &now
	scan.Status = models.StatusCompleted
	return scan, nil
}

// Get returns a single scan for the radiologist review page, AI fields
// included.
func (s *ScanService) Get(ctx context.Context, p models.Principal, scanID string) (*models.Scan, error) {
	if err := requireRole(p, models.RoleRadiologist); err != nil {
		return nil, err
	}
	return s.byID(ctx, scanID)
}

// ScanImage is an uploaded scan file opened for delivery.
type ScanImage struct {
	ContentType string
	Data        io.ReadCloser
}

// Image opens the stored file for a scan, for the review page and upload
// previews. The caller must close Data.
func (s *ScanService) Image(ctx context.Context, p models.Principal, scanID string) (*ScanImage, error) {
	if err := requireRole(p, models.RoleRadiologist, models.RoleTechnician); err != nil {
		return nil, err
	}
	scan, err := s.byID(ctx, scanID)
	if err != nil {
		return nil, err
	}
	data, err := s.files.Get(ctx, scan.FilePath)
	if err != nil {
		return nil, fmt.Errorf("opening scan file: %w", err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(scan.FilePath), "."))
	return &ScanImage{ContentType: storage.ContentTypeForExt(ext), Data: data}, nil
}

// ListPending returns every scan awaiting analysis, most recent upload first.
func (s *ScanService) ListPending(ctx context.Context, p models.Principal) ([]models.ScanListItem, error) {
	if err := requireRole(p, models.RoleRadiologist); err != nil {
		return nil, err
	}
	scans, err := s.scans.List(ctx, store.ScanFilter{
		Status:  models.StatusPendingAnalysis,
		OrderBy: "uploaded_at DESC",
	})
	if err != nil {
		return nil, fmt.Errorf("listing pending scans: %w", err)
	}
	return listItems(scans), nil
}

// ListMine returns the technician's own uploads, most recent first.
func (s *ScanService) ListMine(ctx context.Context, p models.Principal) ([]models.ScanListItem, error) {
	if err := requireRole(p, models.RoleTechnician); err != nil {
		return nil, err
	}
	scans, err := s.scans.List(ctx, store.ScanFilter{
		UploadedBy: p.Email,
		OrderBy:    "uploaded_at DESC",
	})
	if err != nil {
		return nil, fmt.Errorf("listing uploaded scans: %w", err)
	}
	return listItems(scans), nil
}

// CompletedQuery carries the optional filters for the completed reports view.
// Dates are YYYY-MM-DD; unparseable values are ignored, matching the
// forgiving behavior of the filter form.
type CompletedQuery struct {
	Name     string
	ScanType string
	FromDate string
	ToDate   string
	Page     int
}

// CompletedPage is one page of the completed reports listing.
type CompletedPage struct {
	Scans      []models.ScanListItem `json:"scans"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"totalPages"`
	ScanTypes  []string              `json:"scanTypes"`
}

// ListCompleted returns completed scans ordered by review time descending,
// filtered and paginated (15 per page).
func (s *ScanService) ListCompleted(ctx context.Context, p models.Principal, q CompletedQuery) (*CompletedPage, error) {
	if err := requireRole(p, models.RoleRadiologist, models.RoleTechnician); err != nil {
		return nil, err
	}

	filter := store.ScanFilter{
		Status:       models.StatusCompleted,
		NameContains: strings.TrimSpace(q.Name),
		ScanType:     strings.TrimSpace(q.ScanType),
		OrderBy:      "reviewed_at DESC",
	}
	if from, err := time.Parse("2006-01-02", strings.TrimSpace(q.FromDate)); err == nil {
		filter.UploadedFrom = &from
	}
	if to, err := time.Parse("2006-01-02", strings.TrimSpace(q.ToDate)); err == nil {
		// Include the entire end date.
		until := to.AddDate(0, 0, 1)
		filter.UploadedUntil = &until
	}

	total, err := s.scans.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("counting completed scans: %w", err)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	totalPages := int((total + completedPageSize - 1) / completedPageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	filter.Limit = completedPageSize
	filter.Offset = (page - 1) * completedPageSize
	scans, err := s.scans.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing completed scans: %w", err)
	}

	scanTypes, err := s.scans.DistinctScanTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing scan types: %w", err)
	}

	return &CompletedPage{
		Scans:      listItems(scans),
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		ScanTypes:  scanTypes,
	}, nil
}

func (s *ScanService) byID(ctx context.Context, scanID string) (*models.Scan, error) {
	scan, err := s.scans.ByID(ctx, scanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading scan: %w", err)
	}
	return scan, nil
}

func listItems(scans []models.Scan) []models.ScanListItem {
	items := make([]models.ScanListItem, 0, len(scans))
	for i := range scans {
		items = append(items, scans[i].ListItem())
	}
	return items
}
