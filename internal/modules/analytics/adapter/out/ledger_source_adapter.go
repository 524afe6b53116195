package out

import (
	"context"

	"timeledger/internal/modules/analytics/domain"
	analyticsout "timeledger/internal/modules/analytics/port/out"
	ledgerin "timeledger/internal/modules/ledger/port/in"
)

type LedgerSourceAdapter struct {
	ledger ledgerin.Usecase
}

func NewLedgerSourceAdapter(ledger ledgerin.Usecase) analyticsout.LedgerSource {
	return &LedgerSourceAdapter{ledger: ledger}
}

func (a *LedgerSourceAdapter) Snapshot(ctx context.Context) (domain.LedgerView, error) {
	snap, err := a.ledger.Snapshot(ctx)
	if err != nil {
		return domain.LedgerView{}, err
	}
	sessions := make([]domain.SessionRecord, 0, len(snap.Sessions))
	for _, s := range snap.Sessions {
		sessions = append(sessions, domain.SessionRecord{
			ID:              s.ID,
			Category:        s.Category,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationMinutes: s.DurationMin,
		})
	}
	return domain.LedgerView{
		StudentID:       snap.StudentID,
		AssignmentStart: snap.AssignmentStart,
		Sessions:        sessions,
		CategoryTime:    snap.CategoryTime,
		TotalActiveTime: snap.TotalActiveTime,
		SubmissionCount: snap.SubmissionCount,
		LastSubmission:  snap.LastSubmission,
		Completion:      snap.Completion,
		Efficiency:      snap.Efficiency,
		Distribution:    snap.Distribution,
	}, nil
}
