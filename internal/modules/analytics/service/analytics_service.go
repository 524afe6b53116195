package service

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"timeledger/internal/modules/analytics/domain"
	analyticsout "timeledger/internal/modules/analytics/port/out"
	"timeledger/internal/platform/clock"
)

const (
	DailyFromIndex  = "index"
	DailyFromLedger = "ledger"
)

type AnalyticsService struct {
	clock     clock.Clock
	source    analyticsout.LedgerSource
	daily     analyticsout.DailyTotalsReader
	writer    analyticsout.ReportWriter
	exportDir string
}

// NewAnalyticsService builds the exporter. daily may be nil, in which case
// per-day totals are always computed from the ledger sessions.
func NewAnalyticsService(
	clock clock.Clock,
	source analyticsout.LedgerSource,
	daily analyticsout.DailyTotalsReader,
	writer analyticsout.ReportWriter,
	exportDir string,
) *AnalyticsService {
	return &AnalyticsService{clock: clock, source: source, daily: daily, writer: writer, exportDir: exportDir}
}

func (s *AnalyticsService) Build(ctx context.Context) (domain.Report, error) {
	view, err := s.source.Snapshot(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("read ledger: %w", err)
	}
	return domain.NewReport(view, s.clock.Now()), nil
}

// IndexedDaily reads per-day totals from the index. ok is false when no index
// is configured. An index whose totals disagree with the report is stale and
// returned as an error.
func (s *AnalyticsService) IndexedDaily(ctx context.Context, report domain.Report) ([]domain.DailyTotal, bool, error) {
	if s.daily == nil {
		return nil, false, nil
	}
	days, err := s.daily.DailyTotals(ctx)
	if err != nil {
		return nil, true, err
	}
	if sum := domain.SumDaily(days); math.Abs(sum-report.TotalActiveTime) > 0.01 {
		return nil, true, fmt.Errorf("session index is stale: %.2f indexed minutes, %.2f in ledger", sum, report.TotalActiveTime)
	}
	return days, true, nil
}

func (s *AnalyticsService) Write(ctx context.Context, dir string, report domain.Report) (string, error) {
	if dir == "" {
		dir = s.exportDir
	}
	path := filepath.Join(dir, domain.ReportFileName(report.StudentID, report.GeneratedAt))
	if err := s.writer.Write(ctx, path, report); err != nil {
		return "", err
	}
	return path, nil
}
