package domain

import (
	"fmt"
	"time"
)

const SchemaVersion = 1

// Ledger is the persisted time-tracking record for one student.
type Ledger struct {
	SchemaVersion   int                  `json:"schema_version"`
	StudentID       string               `json:"student_id"`
	AssignmentStart time.Time            `json:"assignment_start"`
	Sessions        []Session            `json:"sessions"`
	CategoryTime    map[Category]float64 `json:"category_time"`
	TotalActiveTime float64              `json:"total_active_time"`
	SubmissionCount int                  `json:"submission_count"`
	LastSubmission  *time.Time           `json:"last_submission,omitempty"`
}

// Session is one closed interval of work attributed to a category.
type Session struct {
	ID              string    `json:"id"`
	Category        Category  `json:"category"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes float64   `json:"duration_minutes"`
}

// OpenSession is the in-progress interval between start and end. It is never
// part of the Ledger record.
type OpenSession struct {
	SessionID string    `json:"session_id"`
	Category  Category  `json:"category"`
	StartedAt time.Time `json:"started_at"`
}

func NewLedger(studentID string, now time.Time) *Ledger {
	l := &Ledger{
		SchemaVersion:   SchemaVersion,
		StudentID:       studentID,
		AssignmentStart: now,
		Sessions:        []Session{},
	}
	l.Normalize()
	return l
}

// Normalize fills in fields that older or hand-edited records may lack.
func (l *Ledger) Normalize() {
	if l.SchemaVersion == 0 {
		l.SchemaVersion = SchemaVersion
	}
	if l.Sessions == nil {
		l.Sessions = []Session{}
	}
	if l.CategoryTime == nil {
		l.CategoryTime = make(map[Category]float64, len(Categories))
	}
	for _, c := range Categories {
		if _, ok := l.CategoryTime[c]; !ok {
			l.CategoryTime[c] = 0
		}
	}
}

func (l *Ledger) Validate() error {
	for c, minutes := range l.CategoryTime {
		if err := c.Validate(); err != nil {
			return err
		}
		if minutes < 0 {
			return fmt.Errorf("category %s has negative time %.2f", c, minutes)
		}
	}
	if l.TotalActiveTime < 0 {
		return fmt.Errorf("total active time is negative: %.2f", l.TotalActiveTime)
	}
	if l.SubmissionCount < 0 {
		return fmt.Errorf("submission count is negative: %d", l.SubmissionCount)
	}
	for i, s := range l.Sessions {
		if err := s.Category.Validate(); err != nil {
			return fmt.Errorf("session %d: %w", i, err)
		}
		if s.EndTime.Before(s.StartTime) {
			return fmt.Errorf("session %d ends before it starts", i)
		}
	}
	return nil
}

// Close turns an open session into an immutable Session ending at endedAt and
// folds its duration into the totals.
func (l *Ledger) Close(open OpenSession, endedAt time.Time) Session {
	if endedAt.Before(open.StartedAt) {
		endedAt = open.StartedAt
	}
	session := Session{
		ID:              open.SessionID,
		Category:        open.Category,
		StartTime:       open.StartedAt,
		EndTime:         endedAt,
		DurationMinutes: endedAt.Sub(open.StartedAt).Minutes(),
	}
	l.Normalize()
	l.Sessions = append(l.Sessions, session)
	l.CategoryTime[session.Category] += session.DurationMinutes
	l.TotalActiveTime += session.DurationMinutes
	return session
}

func (l *Ledger) RecordSubmission(at time.Time) int {
	l.SubmissionCount++
	l.LastSubmission = &at
	return l.SubmissionCount
}

// CategorySum is the sum of every category total. After any close it equals
// TotalActiveTime.
func (l *Ledger) CategorySum() float64 {
	var sum float64
	for _, c := range Categories {
		sum += l.CategoryTime[c]
	}
	return sum
}

// Clone returns a deep copy.
func (l *Ledger) Clone() *Ledger {
	out := *l
	out.Sessions = make([]Session, len(l.Sessions))
	copy(out.Sessions, l.Sessions)
	out.CategoryTime = make(map[Category]float64, len(l.CategoryTime))
	for c, minutes := range l.CategoryTime {
		out.CategoryTime[c] = minutes
	}
	if l.LastSubmission != nil {
		at := *l.LastSubmission
		out.LastSubmission = &at
	}
	return &out
}
