package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"radiology-app-server/internal/models"
	"radiology-app-server/internal/store"
)

const (
	dailyWindowDays       = 30
	heatmapWindowDays     = 365
	performanceWindowDays = 7
	recentScansLimit      = 10
)

const dayKeyFormat = "2006-01-02"

// ChartSeries is the JSON shape consumed by single-series charts.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// PerformanceSeries is the JSON shape of the 7-day performance chart.
type PerformanceSeries struct {
	Labels    []string `json:"labels"`
	Completed []int    `json:"completed"`
	Pending   []int    `json:"pending"`
}

// HeatmapPoint is one active day on the activity grid.
type HeatmapPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Badge is a derived achievement label. Badges are recomputed on every call,
// never persisted.
type Badge struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Summary is the analytics dashboard payload.
type Summary struct {
	TotalScans           int                   `json:"totalScans"`
	CompletedScans       int                   `json:"completedScans"`
	PendingScans         int                   `json:"pendingScans"`
	UnderReview          int                   `json:"underReview"`
	AvgProcessingHours   float64               `json:"avgProcessingHours"`
	CompletionPercentage float64               `json:"completionPercentage"`
	TotalUsers           int64                 `json:"totalUsers"`
	Radiologists         int64                 `json:"radiologists"`
	Technicians          int64                 `json:"technicians"`
	ScanTypes            map[string]int        `json:"scanTypes"`
	Badges               []Badge               `json:"badges"`
	RecentScans          []models.ScanListItem `json:"recentScans"`
}

// AnalyticsService performs read-only rollups over the scan store, scoped by
// the caller's role: technicians see their uploads, radiologists their
// reviews, anyone else the full set.
type AnalyticsService struct {
	scans store.ScanStore
	users store.UserStore
	clock Clock
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(scans store.ScanStore, users store.UserStore, clock Clock) *AnalyticsService {
	return &AnalyticsService{scans: scans, users: users, clock: clock}
}

func scopeFilter(p models.Principal, includePending bool) store.ScanFilter {
	switch p.Role {
	case models.RoleTechnician:
		return store.ScanFilter{UploadedBy: p.Email}
	case models.RoleRadiologist:
		return store.ScanFilter{ReviewedBy: p.Email, IncludePending: includePending}
	default:
		return store.ScanFilter{}
	}
}

func (s *AnalyticsService) scopedScans(ctx context.Context, p models.Principal, includePending bool) ([]models.Scan, error) {
	scans, err := s.scans.List(ctx, scopeFilter(p, includePending))
	if err != nil {
		return nil, fmt.Errorf("loading scoped scans: %w", err)
	}
	return scans, nil
}

// DailyScans buckets the caller's scans by upload day over the trailing 30
// days, zero-filling inactive days, most-recent last.
func (s *AnalyticsService) DailyScans(ctx context.Context, p models.Principal) (*ChartSeries, error) {
	scans, err := s.scopedScans(ctx, p, false)
	if err != nil {
		return nil, err
	}
	series := dailyCounts(scans, s.clock.Now(), dailyWindowDays)
	return &series, nil
}

// ScanTypes returns the scan type frequency distribution for the caller's
// scope. Scans without a type group under "Unknown".
func (s *AnalyticsService) ScanTypes(ctx context.Context, p models.Principal) (*ChartSeries, error) {
	scans, err := s.scopedScans(ctx, p, false)
	if err != nil {
		return nil, err
	}
	series := toChartSeries(typeDistribution(scans))
	return &series, nil
}

// Workload counts completed scans per reviewing radiologist across the whole
// store. Scans missing a reviewer group under "Unassigned".
func (s *AnalyticsService) Workload(ctx context.Context, p models.Principal) (*ChartSeries, error) {
	if err := requireRole(p, models.RoleRadiologist, models.RoleAdmin); err != nil {
		return nil, err
	}
	completed, err := s.scans.List(ctx, store.ScanFilter{Status: models.StatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("loading completed scans: %w", err)
	}
	series := workloadDistribution(completed)
	return &series, nil
}

// Heatmap returns sparse per-day activity counts for the trailing year. Days
// without activity are omitted, unlike DailyScans which zero-fills.
func (s *AnalyticsService) Heatmap(ctx context.Context, p models.Principal) ([]HeatmapPoint, error) {
	scans, err := s.scopedScans(ctx, p, false)
	if err != nil {
		return nil, err
	}
	return heatmapPoints(scans, s.clock.Now(), heatmapWindowDays), nil
}

// Performance returns per-day completed/non-completed counts for the
// trailing week, zero-filled, most-recent last.
func (s *AnalyticsService) Performance(ctx context.Context, p models.Principal) (*PerformanceSeries, error) {
	scans, err := s.scopedScans(ctx, p, false)
	if err != nil {
		return nil, err
	}
	series := performanceSeries(scans, s.clock.Now(), performanceWindowDays)
	return &series, nil
}

// BuildSummary assembles the analytics dashboard. The radiologist scope
// additionally unions in every currently pending scan so the worklist totals
// line up with their dashboard.
func (s *AnalyticsService) BuildSummary(ctx context.Context, p models.Principal) (*Summary, error) {
	scans, err := s.scopedScans(ctx, p, true)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalScans: len(scans),
		ScanTypes:  typeDistribution(scans),
	}
	for i := range scans {
		switch scans[i].Status {
		case models.StatusCompleted:
			summary.CompletedScans++
		case models.StatusPendingAnalysis:
			summary.PendingScans++
		case models.StatusUnderReview:
			summary.UnderReview++
		}
	}

	summary.AvgProcessingHours = round2(averageProcessingHours(scans))
	if summary.TotalScans > 0 {
		summary.CompletionPercentage = round1(float64(summary.CompletedScans) / float64(summary.TotalScans) * 100)
	}

	if summary.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if summary.Radiologists, err = s.users.CountByRole(ctx, models.RoleRadiologist); err != nil {
		return nil, fmt.Errorf("counting radiologists: %w", err)
	}
	if summary.Technicians, err = s.users.CountByRole(ctx, models.RoleTechnician); err != nil {
		return nil, fmt.Errorf("counting technicians: %w", err)
	}

	summary.Badges = badgesFor(summary.CompletedScans, summary.AvgProcessingHours, summary.PendingScans, summary.TotalScans)

	recent := scans
	if len(recent) > recentScansLimit {
		recent = recent[:recentScansLimit]
	}
	summary.RecentScans = listItems(recent)

	return summary, nil
}

// --- aggregation passes -----------------------------------------------------

func dailyCounts(scans []models.Scan, now time.Time, days int) ChartSeries {
	cutoff := now.AddDate(0, 0, -days)
	counts := make(map[string]int)
	for i := range scans {
		uploaded := scans[i].UploadedAt
		if uploaded.Before(cutoff) {
			continue
		}
		counts[uploaded.Format(dayKeyFormat)]++
	}

	series := ChartSeries{
		Labels: make([]string, 0, days),
		Data:   make([]int, 0, days),
	}
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - 1 - i))
		series.Labels = append(series.Labels, day.Format("Jan 02"))
		series.Data = append(series.Data, counts[day.Format(dayKeyFormat)])
	}
	return series
}

func typeDistribution(scans []models.Scan) map[string]int {
	dist := make(map[string]int)
	for i := range scans {
		scanType := scans[i].ScanType
		if scanType == "" {
			scanType = "Unknown"
		}
		dist[scanType]++
	}
	return dist
}

func workloadDistribution(completed []models.Scan) ChartSeries {
	workload := make(map[string]int)
	for i := range completed {
		reviewer := completed[i].ReviewedBy
		if reviewer == "" {
			reviewer = "Unassigned"
		}
		workload[reviewer]++
	}
	return toChartSeries(workload)
}

func heatmapPoints(scans []models.Scan, now time.Time, days int) []HeatmapPoint {
	cutoff := now.AddDate(0, 0, -days)
	counts := make(map[string]int)
	for i := range scans {
		uploaded := scans[i].UploadedAt
		if uploaded.Before(cutoff) {
			continue
		}
		counts[uploaded.Format(dayKeyFormat)]++
	}

	points := make([]HeatmapPoint, 0, len(counts))
	for date, count := range counts {
		points = append(points, HeatmapPoint{Date: date, Count: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

func performanceSeries(scans []models.Scan, now time.Time, days int) PerformanceSeries {
	cutoff := now.AddDate(0, 0, -days)
	completed := make(map[string]int)
	pending := make(map[string]int)
	for i := range scans {
		uploaded := scans[i].UploadedAt
		if uploaded.Before(cutoff) {
			continue
		}
		key := uploaded.Format(dayKeyFormat)
		if scans[i].Completed() {
			completed[key]++
		} else {
			pending[key]++
		}
	}

	series := PerformanceSeries{
		Labels:    make([]string, 0, days),
		Completed: make([]int, 0, days),
		Pending:   make([]int, 0, days),
	}
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - 1 - i))
		key := day.Format(dayKeyFormat)
		series.Labels = append(series.Labels, day.Format("Mon"))
		series.Completed = append(series.Completed, completed[key])
		series.Pending = append(series.Pending, pending[key])
	}
	return series
}

// averageProcessingHours is the mean upload-to-review time over completed
// scans carrying both timestamps. Returns exactly 0 when no scan qualifies.
func averageProcessingHours(scans []models.Scan) float64 {
	var total float64
	var n int
	for i := range scans {
		s := &scans[i]
		if !s.Completed() || s.ReviewedAt == nil || s.UploadedAt.IsZero() {
			continue
		}
		total += s.ReviewedAt.Sub(s.UploadedAt).Hours()
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// badgesFor applies the fixed achievement rule table. Badges are additive.
func badgesFor(completed int, avgHours float64, pending, total int) []Badge {
	var badges []Badge
	if completed >= 100 {
		badges = append(badges, Badge{Name: "100 Reports Completed", Icon: "trophy", Color: "gold"})
	}
	if completed >= 50 {
		badges = append(badges, Badge{Name: "50 Reports Milestone", Icon: "star", Color: "silver"})
	}
	if completed >= 10 {
		badges = append(badges, Badge{Name: "10 Reports Completed", Icon: "target", Color: "bronze"})
	}
	if avgHours > 0 && avgHours < 24 {
		badges = append(badges, Badge{Name: "Fast Response 24H", Icon: "bolt", Color: "blue"})
	}
	if pending == 0 && total > 0 {
		badges = append(badges, Badge{Name: "All Caught Up", Icon: "check", Color: "green"})
	}
	return badges
}

func toChartSeries(m map[string]int) ChartSeries {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series := ChartSeries{Labels: labels, Data: make([]int, 0, len(labels))}
	for _, label := range labels {
		series.Data = append(series.Data, m[label])
	}
	return series
}

func round2(v float64) float64 { return float64(int(v*100+0.5)) / 100 }
func round1(v float64) float64 { return float64(int(v*10+0.5)) / 10 }
