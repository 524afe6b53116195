package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"timeledger/internal/modules/ledger/domain"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()
	cases := map[string]time.Time{
		"2026-03-01T09:00:00Z":        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		"2026-03-01T09:00:00.5+02:00": time.Date(2026, 3, 1, 7, 0, 0, 500000000, time.UTC),
		"2026-03-01T09:00:00.123456":  time.Date(2026, 3, 1, 9, 0, 0, 123456000, time.Local),
		"2026-03-01T09:00:00":         time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local),
		"2026-03-01 09:00:00.000001":  time.Date(2026, 3, 1, 9, 0, 0, 1000, time.Local),
	}
	for in, want := range cases {
		got, err := domain.ParseTimestamp(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}
	for _, bad := range []string{"", "yesterday", "2026-03-01"} {
		if _, err := domain.ParseTimestamp(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestSessionDecodesNaiveTimes(t *testing.T) {
	t.Parallel()
	var s domain.Session
	raw := `{"category":"setup_debugging","start_time":"2026-03-01T09:00:00.25","end_time":"2026-03-01T09:10:00.25","duration_minutes":10}`
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Category != domain.CategorySetup || s.DurationMinutes != 10 {
		t.Fatalf("unexpected session: %+v", s)
	}
	if got := s.EndTime.Sub(s.StartTime); got != 10*time.Minute {
		t.Fatalf("expected 10 minutes between times, got %s", got)
	}
}
