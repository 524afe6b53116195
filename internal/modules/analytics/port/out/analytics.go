package out

import (
	"context"

	"timeledger/internal/modules/analytics/domain"
)

type LedgerSource interface {
	Snapshot(ctx context.Context) (domain.LedgerView, error)
}

// DailyTotalsReader returns per-day minutes ordered by day.
type DailyTotalsReader interface {
	DailyTotals(ctx context.Context) ([]domain.DailyTotal, error)
}

type ReportWriter interface {
	Write(ctx context.Context, path string, report domain.Report) error
}
