package in

import (
	"context"

	"timeledger/internal/modules/analytics/dto"
)

type Usecase interface {
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
