package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"radiology-app-server/internal/models"
)

const duplicateEntryErrNo = 1062

// GormUserStore implements UserStore on top of gorm.
type GormUserStore struct {
	DB *gorm.DB
}

// NewGormUserStore creates a GormUserStore.
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryErrNo {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *GormUserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) ByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (s *GormUserStore) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

// GormScanStore implements ScanStore on top of gorm.
type GormScanStore struct {
	DB *gorm.DB
}

// NewGormScanStore creates a GormScanStore.
func NewGormScanStore(db *gorm.DB) *GormScanStore {
	return &GormScanStore{DB: db}
}

func (s *GormScanStore) Create(ctx context.Context, scan *models.Scan) error {
	return s.DB.WithContext(ctx).Create(scan).Error
}

func (s *GormScanStore) ByID(ctx context.Context, id string) (*models.Scan, error) {
	var scan models.Scan
	err := s.DB.WithContext(ctx).First(&scan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &scan, nil
}

func (s *GormScanStore) query(ctx context.Context, f ScanFilter) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&models.Scan{})
	if f.ReviewedBy != "" && f.IncludePending {
		q = q.Where("reviewed_by = ? OR status = ?", f.ReviewedBy, models.StatusPendingAnalysis)
	} else if f.ReviewedBy != "" {
		q = q.Where("reviewed_by = ?", f.ReviewedBy)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UploadedBy != "" {
		q = q.Where("uploaded_by = ?", f.UploadedBy)
	}
	if f.NameContains != "" {
		q = q.Where("patient_name LIKE ?", "%"+f.NameContains+"%")
	}
	if f.ScanType != "" {
		q = q.Where("scan_type = ?", f.ScanType)
	}
	if f.UploadedFrom != nil {
		q = q.Where("uploaded_at >= ?", *f.UploadedFrom)
	}
	if f.UploadedUntil != nil {
		q = q.Where("uploaded_at < ?", *f.UploadedUntil)
	}
	return q
}

func (s *GormScanStore) List(ctx context.Context, f ScanFilter) ([]models.Scan, error) {
	order := f.OrderBy
	if order == "" {
		order = "uploaded_at DESC"
	}
	q := s.query(ctx, f).Order(order)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var scans []models.Scan
	if err := q.Find(&scans).Error; err != nil {
		return nil, err
	}
	return scans, nil
}

func (s *GormScanStore) Count(ctx context.Context, f ScanFilter) (int64, error) {
	var n int64
	err := s.query(ctx, f).Count(&n).Error
	return n, err
}

func (s *GormScanStore) Complete(ctx context.Context, id, report, reviewer string, at time.Time) error {
	res := s.DB.WithContext(ctx).Model(&models.Scan{}).Where("id = ?", id).Updates(map[string]interface{}{
		"radiologist_report": report,
		"reviewed_by":        reviewer,
		"reviewed_at":        at,
		"status":             models.StatusCompleted,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormScanStore) SetPDFPath(ctx context.Context, id, path string) error {
	res := s.DB.WithContext(ctx).Model(&models.Scan{}).Where("id = ?", id).Update("pdf_path", path)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormScanStore) DistinctScanTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := s.DB.WithContext(ctx).Model(&models.Scan{}).Distinct("scan_type").Order("scan_type").Pluck("scan_type", &types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}
