package models

import (
	"time"
)

// ScanStatus is the lifecycle state of a scan. Transitions only ever move
// forward: Pending Analysis -> (optionally) Under Review -> Completed.
type ScanStatus string

const (
	StatusPendingAnalysis ScanStatus = "Pending Analysis"
	StatusUnderReview     ScanStatus = "Under Review"
	StatusCompleted       ScanStatus = "Completed"
)

// Scan represents a patient imaging record moving through the upload ->
// review -> completion workflow. It is created by a technician upload and
// mutated exactly once, by a radiologist's report submission; the PDF path is
// attached afterwards without altering status.
type Scan struct {
	BaseModel
	PatientName string     `gorm:"size:255;not null" json:"patientName"`
	PatientID   string     `gorm:"size:100;not null;index" json:"patientId"`
	Age         int        `gorm:"not null" json:"age"`
	Gender      string     `gorm:"size:20;not null" json:"gender"`
	ScanType    string     `gorm:"size:100;not null" json:"scanType"`
	FilePath    string     `gorm:"size:512;not null" json:"filePath"`
	UploadedBy  string     `gorm:"size:255;not null;index" json:"uploadedBy"`
	UploadedAt  time.Time  `gorm:"not null;index" json:"uploadedAt"`
	Status      ScanStatus `gorm:"size:30;not null;index" json:"status"`

	// Review fields, set if and only if Status is Completed.
	RadiologistReport string     `gorm:"type:text" json:"radiologistReport,omitempty"`
	ReviewedBy        string     `gorm:"size:255;index" json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time `json:"reviewedAt,omitempty"`

	// Optional AI triage attached at upload time.
	AIPrediction string   `gorm:"size:255" json:"aiPrediction,omitempty"`
	AIConfidence *float64 `json:"aiConfidence,omitempty"`

	// Relative location of the generated report artifact, if any.
	PDFPath string `gorm:"size:512" json:"pdfPath,omitempty"`
}

// Completed reports whether the scan has gone through review.
func (s *Scan) Completed() bool {
	return s.Status == StatusCompleted
}

// ScanListItem is the compact scan representation used in dashboard and
// listing responses.
type ScanListItem struct {
	ID           string     `json:"id"`
	PatientName  string     `json:"patientName"`
	PatientID    string     `json:"patientId"`
	ScanType     string     `json:"scanType"`
	UploadedDate string     `json:"uploadedDate"`
	ReviewedDate string     `json:"reviewedDate,omitempty"`
	ReviewedBy   string     `json:"reviewedBy,omitempty"`
	Status       ScanStatus `json:"status"`
}

// ListItem converts a scan to its listing representation.
func (s *Scan) ListItem() ScanListItem {
	item := ScanListItem{
		ID:           s.ID,
		PatientName:  s.PatientName,
		PatientID:    s.PatientID,
		ScanType:     s.ScanType,
		UploadedDate: s.UploadedAt.Format("2006-01-02"),
		Status:       s.Status,
	}
	if s.ReviewedAt != nil {
		item.ReviewedDate = s.ReviewedAt.Format("2006-01-02 15:04")
		item.ReviewedBy = s.ReviewedBy
	}
	return item
}
