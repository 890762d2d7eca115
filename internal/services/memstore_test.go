package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"radiology-app-server/internal/ai"
	"radiology-app-server/internal/models"
	"radiology-app-server/internal/store"
)

// In-memory store fakes mirroring the gorm implementations' filter semantics.

type memUserStore struct {
	users []models.User
	seq   int
}

func (m *memUserStore) Create(ctx context.Context, user *models.User) error {
	for i := range m.users {
		if m.users[i].Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		m.seq++
		user.ID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *memUserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	for i := range m.users {
		if m.users[i].Email == email {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUserStore) ByID(ctx context.Context, id string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUserStore) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *memUserStore) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	for i := range m.users {
		if m.users[i].Role == role {
			n++
		}
	}
	return n, nil
}

type memScanStore struct {
	scans []models.Scan
	seq   int
}

func (m *memScanStore) Create(ctx context.Context, scan *models.Scan) error {
	if scan.ID == "" {
		m.seq++
		scan.ID = fmt.Sprintf("scan-%d", m.seq)
	}
	m.scans = append(m.scans, *scan)
	return nil
}

func (m *memScanStore) ByID(ctx context.Context, id string) (*models.Scan, error) {
	for i := range m.scans {
		if m.scans[i].ID == id {
			scan := m.scans[i]
			return &scan, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memScanStore) matches(s *models.Scan, f store.ScanFilter) bool {
	if f.ReviewedBy != "" && f.IncludePending {
		if s.ReviewedBy != f.ReviewedBy && s.Status != models.StatusPendingAnalysis {
			return false
		}
	} else if f.ReviewedBy != "" && s.ReviewedBy != f.ReviewedBy {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.UploadedBy != "" && s.UploadedBy != f.UploadedBy {
		return false
	}
	if f.NameContains != "" && !strings.Contains(strings.ToLower(s.PatientName), strings.ToLower(f.NameContains)) {
		return false
	}
	if f.ScanType != "" && s.ScanType != f.ScanType {
		return false
	}
	if f.UploadedFrom != nil && s.UploadedAt.Before(*f.UploadedFrom) {
		return false
	}
	if f.UploadedUntil != nil && !s.UploadedAt.Before(*f.UploadedUntil) {
		return false
	}
	return true
}

func (m *memScanStore) List(ctx context.Context, f store.ScanFilter) ([]models.Scan, error) {
	var out []models.Scan
	for i := range m.scans {
		if m.matches(&m.scans[i], f) {
			out = append(out, m.scans[i])
		}
	}
	if f.OrderBy == "reviewed_at DESC" {
		sort.SliceStable(out, func(i, j int) bool {
			var ti, tj time.Time
			if out[i].ReviewedAt != nil {
				ti = *out[i].ReviewedAt
			}
			if out[j].ReviewedAt != nil {
				tj = *out[j].ReviewedAt
			}
			return ti.After(tj)
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		})
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			out = nil
		} else {
			out = out[f.Offset:]
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memScanStore) Count(ctx context.Context, f store.ScanFilter) (int64, error) {
	var n int64
	for i := range m.scans {
		if m.matches(&m.scans[i], f) {
			n++
		}
	}
	return n, nil
}

func (m *memScanStore) Complete(ctx context.Context, id, report, reviewer string, at time.Time) error {
	for i := range m.scans {
		if m.scans[i].ID == id {
			m.scans[i].RadiologistReport = report
			m.scans[i].ReviewedBy = reviewer
			reviewedAt := at
			m.scans[i].ReviewedAt = &reviewedAt
			m.scans[i].Status = models.StatusCompleted
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memScanStore) SetPDFPath(ctx context.Context, id, path string) error {
	for i := range m.scans {
		if m.scans[i].ID == id {
			m.scans[i].PDFPath = path
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memScanStore) DistinctScanTypes(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var types []string
	for i := range m.scans {
		if !seen[m.scans[i].ScanType] {
			seen[m.scans[i].ScanType] = true
			types = append(types, m.scans[i].ScanType)
		}
	}
	sort.Strings(types)
	return types, nil
}

type memStorage struct {
	objects map[string][]byte
	putErr  error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type stubPredictor struct {
	prediction ai.Prediction
	err        error
	calls      int
}

func (p *stubPredictor) Predict(ctx context.Context, scanType, fileName string) (ai.Prediction, error) {
	p.calls++
	return p.prediction, p.err
}
