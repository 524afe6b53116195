package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"timeledger/internal/modules/ledger/domain"
	"timeledger/internal/modules/ledger/dto"
	ledgerin "timeledger/internal/modules/ledger/port/in"
	ledgerout "timeledger/internal/modules/ledger/port/out"
	"timeledger/internal/modules/ledger/service"
	apperrors "timeledger/internal/platform/errors"
)

// Interactor serializes every operation on the shared ledger. The dashboard
// runs commands on separate goroutines.
type Interactor struct {
	mu          sync.Mutex
	svc         *service.LedgerService
	activeStore ledgerout.ActiveSessionStore
	index       ledgerout.SessionIndex
	notes       ledgerout.SessionNotes
	log         zerolog.Logger
}

// NewInteractor wires the ledger service to its optional side stores. A nil
// activeStore keeps the open session in memory only; a nil index or notes
// store disables that projection.
func NewInteractor(
	svc *service.LedgerService,
	activeStore ledgerout.ActiveSessionStore,
	index ledgerout.SessionIndex,
	notes ledgerout.SessionNotes,
	log zerolog.Logger,
) ledgerin.Usecase {
	return &Interactor{svc: svc, activeStore: activeStore, index: index, notes: notes, log: log}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return dto.StartOutput{}, err
	}
	if err := i.syncActive(ctx); err != nil {
		return dto.StartOutput{}, err
	}

	var previous *dto.SessionOutput
	if open, ok := i.svc.Open(); ok {
		if !input.Switch {
			return dto.StartOutput{}, fmt.Errorf("%w: %s since %s", apperrors.ErrActiveSessionExists, open.Category, open.StartedAt.Format("15:04:05"))
		}
		closed, _, err := i.closeOpen(ctx)
		if err != nil {
			return dto.StartOutput{}, fmt.Errorf("close previous session: %w", err)
		}
		out := toSessionOutput(closed)
		previous = &out
	}

	open, err := i.svc.Start(category)
	if err != nil {
		return dto.StartOutput{}, err
	}
	if i.activeStore != nil {
		if err := i.activeStore.SaveActive(ctx, open); err != nil {
			i.svc.Forget()
			return dto.StartOutput{}, err
		}
	}
	i.log.Info().Str("session_id", open.SessionID).Str("category", string(category)).Msg("session started")

	return dto.StartOutput{
		SessionID:     open.SessionID,
		Category:      string(open.Category),
		CategoryLabel: open.Category.Label(),
		StartedAt:     open.StartedAt,
		Previous:      previous,
	}, nil
}

func (i *Interactor) End(ctx context.Context) (dto.EndOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.syncActive(ctx); err != nil {
		return dto.EndOutput{}, err
	}
	if _, ok := i.svc.Open(); !ok {
		i.log.Warn().Msg("no active session to end")
		return dto.EndOutput{Ended: false}, nil
	}
	session, notePath, err := i.closeOpen(ctx)
	if err != nil {
		return dto.EndOutput{}, err
	}
	return dto.EndOutput{
		Ended:        true,
		Session:      toSessionOutput(session),
		TotalMinutes: i.svc.Ledger().TotalActiveTime,
		NotePath:     notePath,
	}, nil
}

// closeOpen persists the open session, clears the marker and feeds the
// projections. Projection failures are logged and swallowed.
func (i *Interactor) closeOpen(ctx context.Context) (domain.Session, string, error) {
	session, err := i.svc.End(ctx)
	if err != nil {
		return domain.Session{}, "", err
	}
	if i.activeStore != nil {
		if err := i.activeStore.ClearActive(ctx); err != nil {
			return domain.Session{}, "", err
		}
	}
	i.log.Info().
		Str("session_id", session.ID).
		Str("category", string(session.Category)).
		Float64("minutes", session.DurationMinutes).
		Msg("session ended")

	if i.index != nil {
		if err := i.index.UpsertSession(ctx, session); err != nil {
			i.log.Warn().Err(err).Str("session_id", session.ID).Msg("session index update failed; run reindex")
		}
	}
	notePath := ""
	if i.notes != nil {
		path, err := i.notes.Save(ctx, i.svc.Ledger().StudentID, session)
		if err != nil {
			i.log.Warn().Err(err).Str("session_id", session.ID).Msg("session note not written")
		} else {
			notePath = path
		}
	}
	return session, notePath, nil
}

func (i *Interactor) Submit(ctx context.Context) (dto.SubmitOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	count, at, err := i.svc.LogSubmission(ctx)
	if err != nil {
		return dto.SubmitOutput{}, err
	}
	i.log.Info().Int("count", count).Msg("submission logged")
	return dto.SubmitOutput{Count: count, At: at}, nil
}

func (i *Interactor) Summary(_ context.Context) (dto.SummaryOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	ledger := i.svc.Ledger()
	metrics := ledger.Metrics()
	categories := make([]dto.CategoryMinutes, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		categories = append(categories, dto.CategoryMinutes{Category: string(c), Label: c.Label(), Minutes: ledger.CategoryTime[c]})
	}
	return dto.SummaryOutput{
		StudentID:       ledger.StudentID,
		AssignmentStart: ledger.AssignmentStart,
		Categories:      categories,
		TotalMinutes:    ledger.TotalActiveTime,
		TotalHours:      metrics.TotalHours,
		Submissions:     ledger.SubmissionCount,
		Sessions:        len(ledger.Sessions),
		AvgPerQuestion:  metrics.AvgPerQuestionMin,
		MinutesPerPoint: metrics.MinutesPerPoint,
		CompletionBand:  string(metrics.Completion),
		Completion:      metrics.Completion.Label(),
		Efficiency:      metrics.Efficiency,
		Text:            i.svc.Summary(),
	}, nil
}

func (i *Interactor) GetActive(ctx context.Context) (dto.ActiveSessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.syncActive(ctx); err != nil {
		return dto.ActiveSessionOutput{}, err
	}
	open, ok := i.svc.Open()
	if !ok {
		return dto.ActiveSessionOutput{}, apperrors.ErrNoActiveSession
	}
	return dto.ActiveSessionOutput{
		SessionID:     open.SessionID,
		Category:      string(open.Category),
		CategoryLabel: open.Category.Label(),
		StartedAt:     open.StartedAt,
		ElapsedMin:    i.svc.Elapsed(open).Minutes(),
	}, nil
}

func (i *Interactor) History(_ context.Context, input dto.HistoryInput) ([]dto.SessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var filter domain.Category
	if input.Category != "" {
		c, err := domain.ParseCategory(input.Category)
		if err != nil {
			return nil, err
		}
		filter = c
	}
	ledger := i.svc.Ledger()
	out := make([]dto.SessionOutput, 0, len(ledger.Sessions))
	for _, s := range ledger.Sessions {
		if filter != "" && s.Category != filter {
			continue
		}
		out = append(out, toSessionOutput(s))
	}
	return out, nil
}

func (i *Interactor) Snapshot(_ context.Context) (dto.LedgerOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	ledger := i.svc.Ledger()
	metrics := ledger.Metrics()

	sessions := make([]dto.SessionOutput, 0, len(ledger.Sessions))
	for _, s := range ledger.Sessions {
		sessions = append(sessions, toSessionOutput(s))
	}
	categoryTime := make(map[string]float64, len(ledger.CategoryTime))
	for c, minutes := range ledger.CategoryTime {
		categoryTime[string(c)] = minutes
	}
	distribution := make(map[string]float64, len(metrics.Distribution))
	for c, pct := range metrics.Distribution {
		distribution[string(c)] = pct
	}
	return dto.LedgerOutput{
		StudentID:       ledger.StudentID,
		AssignmentStart: ledger.AssignmentStart,
		Sessions:        sessions,
		CategoryTime:    categoryTime,
		TotalActiveTime: ledger.TotalActiveTime,
		SubmissionCount: ledger.SubmissionCount,
		LastSubmission:  ledger.LastSubmission,
		Completion:      metrics.Completion.Label(),
		Efficiency:      metrics.Efficiency,
		Distribution:    distribution,
	}, nil
}

func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.index == nil {
		return dto.ReindexOutput{}, fmt.Errorf("%w: session index is disabled", apperrors.ErrInvalidInput)
	}
	if err := i.index.Reset(ctx); err != nil {
		return dto.ReindexOutput{}, fmt.Errorf("reset index: %w", err)
	}
	ledger := i.svc.Ledger()
	for _, s := range ledger.Sessions {
		if err := i.index.UpsertSession(ctx, s); err != nil {
			return dto.ReindexOutput{}, fmt.Errorf("index session %s: %w", s.ID, err)
		}
	}
	i.log.Info().Int("sessions", len(ledger.Sessions)).Msg("session index rebuilt")
	return dto.ReindexOutput{Sessions: len(ledger.Sessions)}, nil
}

// syncActive mirrors the marker file into the service so a session started by
// another invocation can be ended by this one. A marker whose session is
// already in the ledger was left behind by an interrupted end and is dropped.
func (i *Interactor) syncActive(ctx context.Context) error {
	if i.activeStore == nil {
		return nil
	}
	open, err := i.activeStore.LoadActive(ctx)
	if errors.Is(err, apperrors.ErrNoActiveSession) {
		i.svc.Forget()
		return nil
	}
	if err != nil {
		return err
	}
	if i.svc.Recorded(open.SessionID) {
		i.log.Warn().Str("session_id", open.SessionID).Msg("active session marker already recorded in ledger; clearing it")
		if err := i.activeStore.ClearActive(ctx); err != nil {
			return err
		}
		i.svc.Forget()
		return nil
	}
	return i.svc.Resume(open)
}

func toSessionOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		ID:          s.ID,
		Category:    string(s.Category),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		DurationMin: s.DurationMinutes,
	}
}
