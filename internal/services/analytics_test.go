package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"radiology-app-server/internal/models"
)

func scanAt(uploaded time.Time) models.Scan {
	return models.Scan{
		PatientName: "Patient",
		PatientID:   "P1",
		ScanType:    "MRI",
		UploadedAt:  uploaded,
		Status:      models.StatusPendingAnalysis,
	}
}

func completedScan(uploaded time.Time, hours float64, reviewer string) models.Scan {
	scan := scanAt(uploaded)
	scan.Status = models.StatusCompleted
	scan.ReviewedBy = reviewer
	at := uploaded.Add(time.Duration(hours * float64(time.Hour)))
	scan.ReviewedAt = &at
	return scan
}

func TestDailyCounts(t *testing.T) {
	now := time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC)
	scans := []models.Scan{
		scanAt(now),
		scanAt(now),
		scanAt(now.AddDate(0, 0, -5)),
		scanAt(now.AddDate(0, 0, -40)), // outside the window
	}

	series := dailyCounts(scans, now, 30)
	if len(series.Labels) != 30 || len(series.Data) != 30 {
		t.Fatalf("lengths = %d/%d, want 30/30", len(series.Labels), len(series.Data))
	}

	var sum int
	for _, n := range series.Data {
		sum += n
	}
	if sum != 3 {
		t.Errorf("sum = %d, want 3 in-window scans", sum)
	}
	if series.Labels[29] != "Mar 30" {
		t.Errorf("last label = %q, want Mar 30", series.Labels[29])
	}
	if series.Data[29] != 2 {
		t.Errorf("today's count = %d, want 2", series.Data[29])
	}
	if series.Data[24] != 1 {
		t.Errorf("count 5 days back = %d, want 1", series.Data[24])
	}
	if series.Data[0] != 0 {
		t.Errorf("oldest day = %d, want zero-filled", series.Data[0])
	}
}

func TestAverageProcessingHours(t *testing.T) {
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("no qualifying scans returns exactly zero", func(t *testing.T) {
		scans := []models.Scan{scanAt(base), scanAt(base.Add(time.Hour))}
		if got := averageProcessingHours(scans); got != 0 {
			t.Errorf("avg = %v, want 0", got)
		}
	})

	t.Run("mean over completed scans only", func(t *testing.T) {
		scans := []models.Scan{
			completedScan(base, 2, "rad@example.com"),
			completedScan(base, 4, "rad@example.com"),
			scanAt(base), // pending, excluded
		}
		if got := averageProcessingHours(scans); got != 3 {
			t.Errorf("avg = %v, want 3", got)
		}
	})
}

func TestBadgesFor(t *testing.T) {
	names := func(badges []Badge) []string {
		out := make([]string, 0, len(badges))
		for _, b := range badges {
			out = append(out, b.Name)
		}
		return out
	}

	cases := []struct {
		name      string
		completed int
		avgHours  float64
		pending   int
		total     int
		want      []string
	}{
		{"empty history", 0, 0, 0, 0, nil},
		{"ten reports", 10, 30, 5, 15, []string{"10 Reports Completed"}},
		{"fifty cascades", 50, 30, 5, 55, []string{"50 Reports Milestone", "10 Reports Completed"}},
		{"hundred cascades", 100, 30, 5, 105, []string{"100 Reports Completed", "50 Reports Milestone", "10 Reports Completed"}},
		{"fast response", 3, 12.5, 1, 4, []string{"Fast Response 24H"}},
		{"zero avg is not fast", 3, 0, 1, 4, nil},
		{"caught up", 5, 30, 0, 5, []string{"All Caught Up"}},
		{"caught up needs scans", 0, 0, 0, 0, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := names(badgesFor(tc.completed, tc.avgHours, tc.pending, tc.total))
			if len(got) != len(tc.want) {
				t.Fatalf("badges = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("badge[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestHeatmapPoints(t *testing.T) {
	now := time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC)
	scans := []models.Scan{
		scanAt(now),
		scanAt(now),
		scanAt(now.AddDate(0, 0, -10)),
		scanAt(now.AddDate(0, 0, -400)), // outside the trailing year
	}

	points := heatmapPoints(scans, now, 365)
	if len(points) != 2 {
		t.Fatalf("len = %d, want 2 sparse entries", len(points))
	}
	if points[0].Date != "2025-03-20" || points[0].Count != 1 {
		t.Errorf("points[0] = %+v", points[0])
	}
	if points[1].Date != "2025-03-30" || points[1].Count != 2 {
		t.Errorf("points[1] = %+v", points[1])
	}
}

func TestPerformanceSeries(t *testing.T) {
	now := time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC) // a Sunday
	scans := []models.Scan{
		completedScan(now, 1, "rad@example.com"),
		scanAt(now),
		scanAt(now.AddDate(0, 0, -2)),
	}

	series := performanceSeries(scans, now, 7)
	if len(series.Labels) != 7 {
		t.Fatalf("labels = %d, want 7", len(series.Labels))
	}
	if series.Labels[6] != "Sun" {
		t.Errorf("last label = %q, want Sun", series.Labels[6])
	}
	if series.Completed[6] != 1 || series.Pending[6] != 1 {
		t.Errorf("today = %d completed / %d pending, want 1/1", series.Completed[6], series.Pending[6])
	}
	if series.Pending[4] != 1 {
		t.Errorf("two days back pending = %d, want 1", series.Pending[4])
	}
	if series.Completed[0] != 0 || series.Pending[0] != 0 {
		t.Error("oldest day not zero-filled")
	}
}

func TestAnalyticsScoping(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC)
	scans := &memScanStore{}
	users := &memUserStore{}

	add := func(scan models.Scan) {
		if err := scans.Create(ctx, &scan); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	// 3 uploads by the technician, 5 by someone else. 2 of the others were
	// reviewed by the radiologist, 1 by a colleague; the rest stay pending.
	for i := 0; i < 3; i++ {
		scan := scanAt(now.AddDate(0, 0, -i))
		scan.UploadedBy = technician.Email
		add(scan)
	}
	add(completedScan(now.AddDate(0, 0, -1), 2, radiologist.Email))
	add(completedScan(now.AddDate(0, 0, -2), 3, radiologist.Email))
	add(completedScan(now.AddDate(0, 0, -3), 4, "colleague@example.com"))
	add(scanAt(now.AddDate(0, 0, -4)))
	add(scanAt(now.AddDate(0, 0, -5)))

	svc := NewAnalyticsService(scans, users, fixedClock{now})

	t.Run("technician charts cover own uploads only", func(t *testing.T) {
		series, err := svc.DailyScans(ctx, technician)
		if err != nil {
			t.Fatalf("DailyScans: %v", err)
		}
		var sum int
		for _, n := range series.Data {
			sum += n
		}
		if sum != 3 {
			t.Errorf("technician sum = %d, want 3 of 8", sum)
		}
	})

	t.Run("radiologist charts cover own reviews only", func(t *testing.T) {
		series, err := svc.DailyScans(ctx, radiologist)
		if err != nil {
			t.Fatalf("DailyScans: %v", err)
		}
		var sum int
		for _, n := range series.Data {
			sum += n
		}
		if sum != 2 {
			t.Errorf("radiologist sum = %d, want 2 reviewed", sum)
		}
	})

	t.Run("radiologist summary unions in pending", func(t *testing.T) {
		summary, err := svc.BuildSummary(ctx, radiologist)
		if err != nil {
			t.Fatalf("BuildSummary: %v", err)
		}
		// 2 own reviews plus the 5 pending scans store-wide.
		if summary.TotalScans != 7 {
			t.Errorf("totalScans = %d, want 7", summary.TotalScans)
		}
		if summary.CompletedScans != 2 {
			t.Errorf("completedScans = %d, want 2", summary.CompletedScans)
		}
		if summary.PendingScans != 5 {
			t.Errorf("pendingScans = %d, want 5", summary.PendingScans)
		}
	})

	t.Run("workload is technician-forbidden", func(t *testing.T) {
		if _, err := svc.Workload(ctx, technician); !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("workload groups completed by reviewer", func(t *testing.T) {
		series, err := svc.Workload(ctx, radiologist)
		if err != nil {
			t.Fatalf("Workload: %v", err)
		}
		counts := make(map[string]int, len(series.Labels))
		for i, label := range series.Labels {
			counts[label] = series.Data[i]
		}
		if counts[radiologist.Email] != 2 {
			t.Errorf("radiologist workload = %d, want 2", counts[radiologist.Email])
		}
		if counts["colleague@example.com"] != 1 {
			t.Errorf("colleague workload = %d, want 1", counts["colleague@example.com"])
		}
	})
}

func TestBuildSummaryRollup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC)
	scans := &memScanStore{}
	users := &memUserStore{}

	for _, user := range []models.User{
		{FullName: "Rad One", Email: "rad@example.com", Role: models.RoleRadiologist},
		{FullName: "Tech One", Email: "tech@example.com", Role: models.RoleTechnician},
		{FullName: "Tech Two", Email: "tech2@example.com", Role: models.RoleTechnician},
	} {
		u := user
		if err := users.Create(ctx, &u); err != nil {
			t.Fatalf("Create user: %v", err)
		}
	}

	three := completedScan(now.Add(-6*time.Hour), 3, radiologist.Email)
	if err := scans.Create(ctx, &three); err != nil {
		t.Fatalf("Create: %v", err)
	}
	pending := scanAt(now.Add(-1 * time.Hour))
	if err := scans.Create(ctx, &pending); err != nil {
		t.Fatalf("Create: %v", err)
	}

	svc := NewAnalyticsService(scans, users, fixedClock{now})
	summary, err := svc.BuildSummary(ctx, models.Principal{Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("BuildSummary: %v", err)
	}

	if summary.TotalScans != 2 || summary.CompletedScans != 1 || summary.PendingScans != 1 {
		t.Errorf("rollup = %d/%d/%d", summary.TotalScans, summary.CompletedScans, summary.PendingScans)
	}
	if summary.AvgProcessingHours != 3 {
		t.Errorf("avgProcessingHours = %v, want 3", summary.AvgProcessingHours)
	}
	if summary.CompletionPercentage != 50 {
		t.Errorf("completionPercentage = %v, want 50", summary.CompletionPercentage)
	}
	if summary.TotalUsers != 3 || summary.Radiologists != 1 || summary.Technicians != 2 {
		t.Errorf("user counts = %d/%d/%d", summary.TotalUsers, summary.Radiologists, summary.Technicians)
	}
	if len(summary.Badges) != 1 || summary.Badges[0].Name != "Fast Response 24H" {
		t.Errorf("badges = %+v", summary.Badges)
	}
	if summary.ScanTypes["MRI"] != 2 {
		t.Errorf("scanTypes[MRI] = %d", summary.ScanTypes["MRI"])
	}
}
