package service_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"timeledger/internal/modules/ledger/domain"
	"timeledger/internal/modules/ledger/service"
	"timeledger/internal/platform/clock"
	apperrors "timeledger/internal/platform/errors"
)

type memoryStore struct {
	ledger  *domain.Ledger
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryStore) Load(context.Context) (*domain.Ledger, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.ledger == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.ledger.Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, l *domain.Ledger) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.ledger = l.Clone()
	return nil
}

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return "sess-" + string(rune('0'+s.n))
}

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, store *memoryStore, times ...time.Time) *service.LedgerService {
	t.Helper()
	svc, err := service.NewLedgerService(context.Background(), clock.NewSequence(times...), &seqID{}, store, "student-1")
	if err != nil {
		t.Fatalf("new ledger service: %v", err)
	}
	return svc
}

func TestFortyFiveMinuteBasicSession(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	svc := newService(t, store, t0, t0, t0.Add(45*time.Minute))

	if _, err := svc.Start(domain.CategoryBasic); err != nil {
		t.Fatalf("start: %v", err)
	}
	session, err := svc.End(context.Background())
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if session.Category != domain.CategoryBasic || math.Abs(session.DurationMinutes-45) > 1e-9 {
		t.Fatalf("unexpected session %+v", session)
	}
	l := svc.Ledger()
	if len(l.Sessions) != 1 || l.CategoryTime[domain.CategoryBasic] != 45 || l.TotalActiveTime != 45 {
		t.Fatalf("unexpected ledger %+v", l)
	}
	if store.saves != 1 || store.ledger.TotalActiveTime != 45 {
		t.Fatalf("ledger must be persisted once, saves=%d", store.saves)
	}
	if _, ok := svc.Open(); ok {
		t.Fatalf("open session must be cleared after end")
	}
}

func TestEndWithoutStartChangesNothing(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	svc := newService(t, store, t0)
	if _, err := svc.End(context.Background()); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	l := svc.Ledger()
	if len(l.Sessions) != 0 || l.TotalActiveTime != 0 || store.saves != 0 {
		t.Fatalf("ledger must stay untouched: %+v saves=%d", l, store.saves)
	}
}

func TestStartTwiceFails(t *testing.T) {
	t.Parallel()
	svc := newService(t, &memoryStore{}, t0)
	first, err := svc.Start(domain.CategoryAdvanced)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := svc.Start(domain.CategoryBackend); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected active session exists, got %v", err)
	}
	open, ok := svc.Open()
	if !ok || open.SessionID != first.SessionID || open.Category != domain.CategoryAdvanced {
		t.Fatalf("first session must survive a rejected start: %+v", open)
	}
	if _, err := svc.Start("general"); !errors.Is(err, apperrors.ErrUnknownCategory) {
		t.Fatalf("expected unknown category, got %v", err)
	}
}

func TestTotalsMatchSumOfSessions(t *testing.T) {
	t.Parallel()
	durations := []time.Duration{12 * time.Minute, 7*time.Minute + 13*time.Second, 61 * time.Minute, 333 * time.Millisecond}
	categories := []domain.Category{domain.CategoryBasic, domain.CategorySetup, domain.CategoryBasic, domain.CategoryBackend}
	var times []time.Time
	cursor := t0
	for _, d := range durations {
		times = append(times, cursor, cursor.Add(d))
		cursor = cursor.Add(d + time.Minute)
	}
	svc := newService(t, &memoryStore{}, append([]time.Time{t0}, times...)...)

	var want float64
	perCategory := map[domain.Category]float64{}
	for i, c := range categories {
		if _, err := svc.Start(c); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		s, err := svc.End(context.Background())
		if err != nil {
			t.Fatalf("end %d: %v", i, err)
		}
		want += s.DurationMinutes
		perCategory[c] += s.DurationMinutes
	}
	l := svc.Ledger()
	if math.Abs(l.TotalActiveTime-want) > 1e-9 || math.Abs(l.TotalActiveTime-l.CategorySum()) > 1e-9 {
		t.Fatalf("total %.6f, sessions %.6f, categories %.6f", l.TotalActiveTime, want, l.CategorySum())
	}
	for _, c := range domain.Categories {
		if math.Abs(l.CategoryTime[c]-perCategory[c]) > 1e-9 {
			t.Fatalf("category %s: expected %.6f, got %.6f", c, perCategory[c], l.CategoryTime[c])
		}
	}
}

func TestLogSubmissionIndependentOfSession(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	svc := newService(t, store, t0, t0.Add(time.Minute), t0.Add(2*time.Minute), t0.Add(3*time.Minute))
	if _, _, err := svc.LogSubmission(context.Background()); err != nil {
		t.Fatalf("submit without session: %v", err)
	}
	if _, err := svc.Start(domain.CategoryIntermediate); err != nil {
		t.Fatalf("start: %v", err)
	}
	count, at, err := svc.LogSubmission(context.Background())
	if err != nil {
		t.Fatalf("submit with open session: %v", err)
	}
	if count != 2 || store.ledger.SubmissionCount != 2 {
		t.Fatalf("expected 2 submissions, got %d / %d", count, store.ledger.SubmissionCount)
	}
	if store.ledger.LastSubmission == nil || !store.ledger.LastSubmission.Equal(at) {
		t.Fatalf("last submission not persisted")
	}
	if _, ok := svc.Open(); !ok {
		t.Fatalf("submission must not close the open session")
	}
}

func TestSaveFailureKeepsStateIntact(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	svc := newService(t, store, t0, t0, t0.Add(10*time.Minute))
	if _, err := svc.Start(domain.CategoryBasic); err != nil {
		t.Fatalf("start: %v", err)
	}
	store.saveErr = errors.New("disk full")
	if _, err := svc.End(context.Background()); err == nil {
		t.Fatalf("expected save failure to propagate")
	}
	if l := svc.Ledger(); len(l.Sessions) != 0 || l.TotalActiveTime != 0 {
		t.Fatalf("failed save must not change the ledger: %+v", l)
	}
	if _, ok := svc.Open(); !ok {
		t.Fatalf("failed save must keep the session open")
	}
	if _, _, err := svc.LogSubmission(context.Background()); err == nil {
		t.Fatalf("expected submission save failure")
	}
	if svc.Ledger().SubmissionCount != 0 {
		t.Fatalf("failed submission must not be counted")
	}
}

func TestLoadErrorsPropagate(t *testing.T) {
	t.Parallel()
	store := &memoryStore{loadErr: apperrors.ErrCorruptLedger}
	if _, err := service.NewLedgerService(context.Background(), clock.NewSequence(t0), &seqID{}, store, "s"); !errors.Is(err, apperrors.ErrCorruptLedger) {
		t.Fatalf("expected corrupt ledger error, got %v", err)
	}
}

func TestExistingLedgerIsKept(t *testing.T) {
	t.Parallel()
	existing := domain.NewLedger("original-student", t0.Add(-24*time.Hour))
	existing.SubmissionCount = 3
	svc := newService(t, &memoryStore{ledger: existing}, t0)
	l := svc.Ledger()
	if l.StudentID != "original-student" || l.SubmissionCount != 3 || !l.AssignmentStart.Equal(t0.Add(-24*time.Hour)) {
		t.Fatalf("stored ledger must be loaded as is: %+v", l)
	}
}

func TestResumeAndElapsed(t *testing.T) {
	t.Parallel()
	svc := newService(t, &memoryStore{}, t0, t0.Add(20*time.Minute))
	open := domain.OpenSession{SessionID: "x", Category: domain.CategoryBackend, StartedAt: t0}
	if err := svc.Resume(open); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got := svc.Elapsed(open); got != 20*time.Minute {
		t.Fatalf("expected 20m elapsed, got %s", got)
	}
	if err := svc.Resume(domain.OpenSession{Category: "nope"}); err == nil {
		t.Fatalf("resume with unknown category must fail")
	}
	svc.Forget()
	if _, ok := svc.Open(); ok {
		t.Fatalf("forget must drop the open session")
	}
}

func TestSummaryAndEstimates(t *testing.T) {
	t.Parallel()
	svc := newService(t, &memoryStore{}, t0, t0, t0.Add(95*time.Minute))
	if _, err := svc.Start(domain.CategoryAdvanced); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.End(context.Background()); err != nil {
		t.Fatalf("end: %v", err)
	}
	if svc.EstimateCompletion() != domain.BandSubstantialProgress {
		t.Fatalf("unexpected band %s", svc.EstimateCompletion())
	}
	// advanced only: |0-.2| + |0-.25| + |1-.3| + |0-.25| = 1.4
	if svc.EfficiencyScore() != 0 {
		t.Fatalf("unexpected efficiency %v", svc.EfficiencyScore())
	}
	text := svc.Summary()
	for _, want := range []string{"student-1", "Advanced Python (Q11-Q15):", "95.0 min", "(1.6 hours)", "Average time per question: 4.8 minutes", "Time per point:            0.9 minutes", "Substantial Progress (50-75%)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}
}
