package in

import (
	"context"

	"timeledger/internal/modules/ledger/dto"
	ledgerin "timeledger/internal/modules/ledger/port/in"
)

// TUIHandler is the dashboard's view of the ledger. Starting from the
// dashboard always switches away from an open session.
type TUIHandler struct {
	usecase ledgerin.Usecase
}

func NewTUIHandler(usecase ledgerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Start(ctx context.Context, category string) (dto.StartOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Category: category, Switch: true})
}

func (h TUIHandler) End(ctx context.Context) (dto.EndOutput, error) {
	return h.usecase.End(ctx)
}

func (h TUIHandler) Submit(ctx context.Context) (dto.SubmitOutput, error) {
	return h.usecase.Submit(ctx)
}

func (h TUIHandler) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx)
}

func (h TUIHandler) Active(ctx context.Context) (dto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}
