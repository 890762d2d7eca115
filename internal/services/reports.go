package services

import (
	"bytes"
	"context"
	"fmt"

	"radiology-app-server/internal/models"
	"radiology-app-server/internal/report"
	"radiology-app-server/internal/storage"
	"radiology-app-server/internal/store"
)

// GeneratedReport is a freshly rendered report artifact, returned for
// immediate delivery to the caller.
type GeneratedReport struct {
	FileName string
	PDF      []byte
}

// ReportService renders completed scans into PDF artifacts, persists them
// under the reports/ prefix and records their location on the scan record.
type ReportService struct {
	scans    store.ScanStore
	files    storage.ObjectStorage
	renderer *report.Renderer
	clock    Clock
}

// NewReportService creates a ReportService.
func NewReportService(scans store.ScanStore, files storage.ObjectStorage, renderer *report.Renderer, clock Clock) *ReportService {
	return &ReportService{scans: scans, files: files, renderer: renderer, clock: clock}
}

// Generate renders the report for a completed scan. A non-completed scan is
// rejected with ErrInvalidState. Writing the artifact and updating pdf_path
// are not atomic together; a crash in between leaves a record without its
// artifact path, which the next generation request repairs.
func (s *ReportService) Generate(ctx context.Context, p models.Principal, scanID string) (*GeneratedReport, error) {
	if err := requireRole(p, models.RoleRadiologist, models.RoleTechnician); err != nil {
		return nil, err
	}

	scan, err := s.scans.ByID(ctx, scanID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading scan: %w", err)
	}
	if !scan.Completed() {
		return nil, fmt.Errorf("scan %s is %q: %w", scanID, scan.Status, ErrInvalidState)
	}

	pdf, err := s.renderer.Render(scan, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	fileName := report.FileName(scan)
	key := "reports/" + fileName
	if err := s.files.Put(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return nil, fmt.Errorf("storing report artifact: %w", err)
	}
	if err := s.scans.SetPDFPath(ctx, scan.ID, key); err != nil {
		return nil, fmt.Errorf("recording report path: %w", err)
	}

	return &GeneratedReport{FileName: fileName, PDF: pdf}, nil
}
