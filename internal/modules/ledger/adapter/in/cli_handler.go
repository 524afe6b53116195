package in

import (
	"context"

	"timeledger/internal/modules/ledger/dto"
	ledgerin "timeledger/internal/modules/ledger/port/in"
)

type CLIHandler struct {
	usecase ledgerin.Usecase
}

func NewCLIHandler(usecase ledgerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, category string, switchOpen bool) (dto.StartOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Category: category, Switch: switchOpen})
}

func (h CLIHandler) End(ctx context.Context) (dto.EndOutput, error) {
	return h.usecase.End(ctx)
}

func (h CLIHandler) Submit(ctx context.Context) (dto.SubmitOutput, error) {
	return h.usecase.Submit(ctx)
}

func (h CLIHandler) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (dto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) History(ctx context.Context, category string) ([]dto.SessionOutput, error) {
	return h.usecase.History(ctx, dto.HistoryInput{Category: category})
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}
