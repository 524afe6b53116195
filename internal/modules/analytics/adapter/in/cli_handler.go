package in

import (
	"context"

	"timeledger/internal/modules/analytics/dto"
	analyticsin "timeledger/internal/modules/analytics/port/in"
)

type CLIHandler struct {
	usecase analyticsin.Usecase
}

func NewCLIHandler(usecase analyticsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context, dir string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{Dir: dir})
}
