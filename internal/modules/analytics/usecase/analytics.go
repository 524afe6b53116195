package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"timeledger/internal/modules/analytics/dto"
	analyticsin "timeledger/internal/modules/analytics/port/in"
	"timeledger/internal/modules/analytics/service"
)

type Interactor struct {
	svc *service.AnalyticsService
	log zerolog.Logger
}

func NewInteractor(svc *service.AnalyticsService, log zerolog.Logger) analyticsin.Usecase {
	return &Interactor{svc: svc, log: log}
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	report, err := i.svc.Build(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}

	source := service.DailyFromLedger
	days, ok, err := i.svc.IndexedDaily(ctx, report)
	switch {
	case !ok:
	case err != nil:
		i.log.Warn().Err(err).Msg("daily totals computed from ledger; run reindex")
	default:
		report.DailyMinutes = days
		source = service.DailyFromIndex
	}

	path, err := i.svc.Write(ctx, input.Dir, report)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	i.log.Info().Str("path", path).Str("daily_source", source).Msg("analytics exported")
	return dto.ExportOutput{
		Path:         path,
		TotalMinutes: report.TotalActiveTime,
		Sessions:     len(report.Sessions),
		DailySource:  source,
	}, nil
}
