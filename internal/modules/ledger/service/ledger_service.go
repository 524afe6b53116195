package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timeledger/internal/modules/ledger/domain"
	ledgerout "timeledger/internal/modules/ledger/port/out"
	"timeledger/internal/platform/clock"
	apperrors "timeledger/internal/platform/errors"
	"timeledger/internal/platform/id"
)

// LedgerService owns one loaded Ledger and at most one open session.
// It is not safe for concurrent use; callers serialize access.
type LedgerService struct {
	clock  clock.Clock
	idGen  id.Generator
	store  ledgerout.LedgerStore
	ledger *domain.Ledger
	open   *domain.OpenSession
}

// NewLedgerService loads the stored ledger, or starts a fresh one for
// studentID when none exists yet. A stored ledger that cannot be decoded is
// returned as an error rather than replaced.
func NewLedgerService(ctx context.Context, clock clock.Clock, idGen id.Generator, store ledgerout.LedgerStore, studentID string) (*LedgerService, error) {
	ledger, err := store.Load(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		ledger = domain.NewLedger(studentID, clock.Now())
	case err != nil:
		return nil, err
	default:
		ledger.Normalize()
	}
	return &LedgerService{clock: clock, idGen: idGen, store: store, ledger: ledger}, nil
}

func (s *LedgerService) Start(category domain.Category) (domain.OpenSession, error) {
	if err := category.Validate(); err != nil {
		return domain.OpenSession{}, err
	}
	if s.open != nil {
		return domain.OpenSession{}, apperrors.ErrActiveSessionExists
	}
	open := domain.OpenSession{
		SessionID: s.idGen.New(),
		Category:  category,
		StartedAt: s.clock.Now(),
	}
	s.open = &open
	return open, nil
}

// Resume installs an open session that was started elsewhere, e.g. by an
// earlier invocation of the command line.
func (s *LedgerService) Resume(open domain.OpenSession) error {
	if err := open.Category.Validate(); err != nil {
		return fmt.Errorf("resume session: %w", err)
	}
	s.open = &open
	return nil
}

// Recorded reports whether a closed session with this id is already in the
// ledger.
func (s *LedgerService) Recorded(sessionID string) bool {
	if sessionID == "" {
		return false
	}
	for _, session := range s.ledger.Sessions {
		if session.ID == sessionID {
			return true
		}
	}
	return false
}

func (s *LedgerService) Forget() {
	s.open = nil
}

func (s *LedgerService) Open() (domain.OpenSession, bool) {
	if s.open == nil {
		return domain.OpenSession{}, false
	}
	return *s.open, true
}

// End closes the open session and persists the ledger. The in-memory ledger
// is left untouched when the write fails.
func (s *LedgerService) End(ctx context.Context) (domain.Session, error) {
	if s.open == nil {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	next := s.ledger.Clone()
	session := next.Close(*s.open, s.clock.Now())
	if err := s.store.Save(ctx, next); err != nil {
		return domain.Session{}, err
	}
	s.ledger = next
	s.open = nil
	return session, nil
}

func (s *LedgerService) LogSubmission(ctx context.Context) (int, time.Time, error) {
	next := s.ledger.Clone()
	at := s.clock.Now()
	count := next.RecordSubmission(at)
	if err := s.store.Save(ctx, next); err != nil {
		return 0, time.Time{}, err
	}
	s.ledger = next
	return count, at, nil
}

func (s *LedgerService) Elapsed(open domain.OpenSession) time.Duration {
	elapsed := s.clock.Now().Sub(open.StartedAt)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Ledger returns a copy of the current record.
func (s *LedgerService) Ledger() *domain.Ledger {
	return s.ledger.Clone()
}

func (s *LedgerService) Summary() string {
	return RenderSummary(s.ledger)
}

func (s *LedgerService) EstimateCompletion() domain.CompletionBand {
	return domain.EstimateCompletion(s.ledger.TotalActiveTime)
}

func (s *LedgerService) EfficiencyScore() float64 {
	return domain.EfficiencyScore(s.ledger.CategoryTime)
}
