package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Records written by the older tracker carry local wall-clock timestamps
// without an offset, e.g. 2026-03-01T09:00:00.123456.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts RFC 3339 and offset-less ISO 8601 values. The latter
// are read in the local zone.
func ParseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

func parseOptionalTimestamp(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	type plain Ledger
	aux := struct {
		*plain
		AssignmentStart string  `json:"assignment_start"`
		LastSubmission  *string `json:"last_submission"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.AssignmentStart != "" {
		start, err := ParseTimestamp(aux.AssignmentStart)
		if err != nil {
			return fmt.Errorf("assignment_start: %w", err)
		}
		l.AssignmentStart = start
	}
	last, err := parseOptionalTimestamp(aux.LastSubmission)
	if err != nil {
		return fmt.Errorf("last_submission: %w", err)
	}
	l.LastSubmission = last
	return nil
}

func (s *Session) UnmarshalJSON(data []byte) error {
	type plain Session
	aux := struct {
		*plain
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	start, err := ParseTimestamp(aux.StartTime)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	end, err := ParseTimestamp(aux.EndTime)
	if err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	s.StartTime, s.EndTime = start, end
	return nil
}
