package store

import (
	"context"
	"errors"
	"time"

	"radiology-app-server/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user insert violates the unique email
// constraint.
var ErrDuplicateEmail = errors.New("email already registered")

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// ScanFilter narrows scan queries. Zero values are ignored. When
// IncludePending is set together with ReviewedBy, the two conditions are
// OR'ed: scans reviewed by that radiologist plus every scan still pending.
type ScanFilter struct {
	Status         models.ScanStatus
	UploadedBy     string
	ReviewedBy     string
	IncludePending bool
	NameContains   string
	ScanType       string
	UploadedFrom   *time.Time
	UploadedUntil  *time.Time // exclusive
	OrderBy        string     // e.g. "uploaded_at DESC"; defaults to uploaded_at DESC
	Limit          int
	Offset         int
}

// ScanStore defines persistence operations for scans.
type ScanStore interface {
	Create(ctx context.Context, scan *models.Scan) error
	ByID(ctx context.Context, id string) (*models.Scan, error)
	List(ctx context.Context, f ScanFilter) ([]models.Scan, error)
	Count(ctx context.Context, f ScanFilter) (int64, error)
	// Complete performs the terminal workflow transition: attaches the
	// report, stamps the reviewer and review time, and sets status Completed.
	Complete(ctx context.Context, id, report, reviewer string, at time.Time) error
	// SetPDFPath records the generated report artifact's location without
	// touching the scan status.
	SetPDFPath(ctx context.Context, id, path string) error
	DistinctScanTypes(ctx context.Context) ([]string, error)
}
