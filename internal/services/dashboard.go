package services

import (
	"context"
	"fmt"

	"radiology-app-server/internal/models"
	"radiology-app-server/internal/store"
)

const recentCompletedLimit = 5

// RadiologistDashboard is the worklist view for radiologists: everything
// pending, the latest completed reports and the status totals.
type RadiologistDashboard struct {
	PendingScans     []models.ScanListItem `json:"pendingScans"`
	RecentCompleted  []models.ScanListItem `json:"recentCompleted"`
	TotalPending     int64                 `json:"totalPending"`
	TotalCompleted   int64                 `json:"totalCompleted"`
	TotalUnderReview int64                 `json:"totalUnderReview"`
}

// TechnicianDashboard shows a technician their own uploads and how far each
// has moved through the workflow.
type TechnicianDashboard struct {
	UploadedScans []models.ScanListItem `json:"uploadedScans"`
	TotalUploads  int                   `json:"totalUploads"`
	Pending       int                   `json:"pending"`
	UnderReview   int                   `json:"underReview"`
	Completed     int                   `json:"completed"`
}

// Radiologist builds the radiologist dashboard.
func (s *ScanService) Radiologist(ctx context.Context, p models.Principal) (*RadiologistDashboard, error) {
	if err := requireRole(p, models.RoleRadiologist); err != nil {
		return nil, err
	}

	pending, err := s.scans.List(ctx, store.ScanFilter{
		Status:  models.StatusPendingAnalysis,
		OrderBy: "uploaded_at DESC",
	})
	if err != nil {
		return nil, fmt.Errorf("listing pending scans: %w", err)
	}

	recent, err := s.scans.List(ctx, store.ScanFilter{
		Status:  models.StatusCompleted,
		OrderBy: "uploaded_at DESC",
		Limit:   recentCompletedLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing recent completed scans: %w", err)
	}

	totalCompleted, err := s.scans.Count(ctx, store.ScanFilter{Status: models.StatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("counting completed scans: %w", err)
	}
	totalUnderReview, err := s.scans.Count(ctx, store.ScanFilter{Status: models.StatusUnderReview})
	if err != nil {
		return nil, fmt.Errorf("counting scans under review: %w", err)
	}

	return &RadiologistDashboard{
		PendingScans:     listItems(pending),
		RecentCompleted:  listItems(recent),
		TotalPending:     int64(len(pending)),
		TotalCompleted:   totalCompleted,
		TotalUnderReview: totalUnderReview,
	}, nil
}

// Technician builds the technician dashboard from their own uploads.
func (s *ScanService) Technician(ctx context.Context, p models.Principal) (*TechnicianDashboard, error) {
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

	dash := &TechnicianDashboard{
		UploadedScans: listItems(scans),
		TotalUploads:  len(scans),
	}
	for i := range scans {
		switch scans[i].Status {
		case models.StatusPendingAnalysis:
			dash.Pending++
		case models.StatusUnderReview:
			dash.UnderReview++
		case models.StatusCompleted:
			dash.Completed++
		}
	}
	return dash, nil
}
