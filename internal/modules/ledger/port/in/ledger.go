package in

import (
	"context"

	"timeledger/internal/modules/ledger/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	End(ctx context.Context) (dto.EndOutput, error)
	Submit(ctx context.Context) (dto.SubmitOutput, error)
	Summary(ctx context.Context) (dto.SummaryOutput, error)
	GetActive(ctx context.Context) (dto.ActiveSessionOutput, error)
	History(ctx context.Context, input dto.HistoryInput) ([]dto.SessionOutput, error)
	Snapshot(ctx context.Context) (dto.LedgerOutput, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
}
