package domain_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"timeledger/internal/modules/ledger/domain"
	apperrors "timeledger/internal/platform/errors"
)

const tolerance = 1e-9

func TestNewLedgerStartsZeroed(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := domain.NewLedger("student-1", now)
	if l.StudentID != "student-1" || !l.AssignmentStart.Equal(now) {
		t.Fatalf("unexpected identity fields: %+v", l)
	}
	if len(l.Sessions) != 0 || l.TotalActiveTime != 0 || l.SubmissionCount != 0 {
		t.Fatalf("expected zeroed ledger, got %+v", l)
	}
	if len(l.CategoryTime) != len(domain.Categories) {
		t.Fatalf("expected every category key, got %v", l.CategoryTime)
	}
	for _, c := range domain.Categories {
		if l.CategoryTime[c] != 0 {
			t.Fatalf("category %s should start at 0", c)
		}
	}
}

func TestCloseAppendsSessionAndUpdatesTotals(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := domain.NewLedger("s", start)

	got := l.Close(domain.OpenSession{SessionID: "a", Category: domain.CategoryBasic, StartedAt: start}, start.Add(45*time.Minute))
	if got.DurationMinutes != 45 || got.Category != domain.CategoryBasic {
		t.Fatalf("unexpected session: %+v", got)
	}
	l.Close(domain.OpenSession{SessionID: "b", Category: domain.CategoryAdvanced, StartedAt: start.Add(time.Hour)}, start.Add(time.Hour+90*time.Second))
	l.Close(domain.OpenSession{SessionID: "c", Category: domain.CategoryBasic, StartedAt: start.Add(2 * time.Hour)}, start.Add(2*time.Hour+10*time.Minute))

	if len(l.Sessions) != 3 || l.Sessions[0].ID != "a" || l.Sessions[2].ID != "c" {
		t.Fatalf("sessions must be appended in order: %+v", l.Sessions)
	}
	if l.CategoryTime[domain.CategoryBasic] != 55 {
		t.Fatalf("expected 55 basic minutes, got %v", l.CategoryTime[domain.CategoryBasic])
	}
	if l.CategoryTime[domain.CategoryAdvanced] != 1.5 {
		t.Fatalf("expected 1.5 advanced minutes, got %v", l.CategoryTime[domain.CategoryAdvanced])
	}
	if l.CategoryTime[domain.CategoryBackend] != 0 || l.CategoryTime[domain.CategorySetup] != 0 {
		t.Fatalf("untouched categories must stay 0: %v", l.CategoryTime)
	}
	if math.Abs(l.TotalActiveTime-56.5) > tolerance || math.Abs(l.TotalActiveTime-l.CategorySum()) > tolerance {
		t.Fatalf("total %.4f does not match category sum %.4f", l.TotalActiveTime, l.CategorySum())
	}
}

func TestCloseClampsNegativeDuration(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := domain.NewLedger("s", start)
	got := l.Close(domain.OpenSession{Category: domain.CategorySetup, StartedAt: start}, start.Add(-time.Minute))
	if got.DurationMinutes != 0 || got.EndTime.Before(got.StartTime) {
		t.Fatalf("clock skew must not produce negative sessions: %+v", got)
	}
}

func TestRecordSubmissionCounts(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := domain.NewLedger("s", now)
	for i := 1; i <= 4; i++ {
		if n := l.RecordSubmission(now.Add(time.Duration(i) * time.Minute)); n != i {
			t.Fatalf("expected count %d, got %d", i, n)
		}
	}
	if l.LastSubmission == nil || !l.LastSubmission.Equal(now.Add(4*time.Minute)) {
		t.Fatalf("last submission not recorded: %v", l.LastSubmission)
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	t.Parallel()
	l := &domain.Ledger{StudentID: "s"}
	l.Normalize()
	if l.SchemaVersion != domain.SchemaVersion || l.Sessions == nil || len(l.CategoryTime) != len(domain.Categories) {
		t.Fatalf("normalize should fill defaults: %+v", l)
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("normalized ledger should be valid: %v", err)
	}

	bad := domain.NewLedger("s", time.Now().UTC())
	bad.CategoryTime["golf"] = 3
	if err := bad.Validate(); !errors.Is(err, apperrors.ErrUnknownCategory) {
		t.Fatalf("expected unknown category, got %v", err)
	}

	negative := domain.NewLedger("s", time.Now().UTC())
	negative.TotalActiveTime = -1
	if err := negative.Validate(); err == nil {
		t.Fatalf("negative total must fail")
	}

	backwards := domain.NewLedger("s", time.Now().UTC())
	now := time.Now().UTC()
	backwards.Sessions = append(backwards.Sessions, domain.Session{Category: domain.CategoryBasic, StartTime: now, EndTime: now.Add(-time.Second)})
	if err := backwards.Validate(); err == nil {
		t.Fatalf("session ending before start must fail")
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.Category{
		"basic":               domain.CategoryBasic,
		"Intermediate":        domain.CategoryIntermediate,
		" advanced_python ":   domain.CategoryAdvanced,
		"backend":             domain.CategoryBackend,
		"setup_debugging":     domain.CategorySetup,
		"backend_development": domain.CategoryBackend,
	}
	for raw, want := range cases {
		got, err := domain.ParseCategory(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", raw, want, got)
		}
	}
	if _, err := domain.ParseCategory("general"); !errors.Is(err, apperrors.ErrUnknownCategory) {
		t.Fatalf("expected unknown category error, got %v", err)
	}
	if domain.CategoryBackend.Alias() != "backend" {
		t.Fatalf("unexpected alias %q", domain.CategoryBackend.Alias())
	}
}

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
