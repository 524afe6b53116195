package dto

import "time"

type StartInput struct {
	Category string
	// Switch closes an already open session instead of failing.
	Switch bool
}

type StartOutput struct {
	SessionID     string
	Category      string
	CategoryLabel string
	StartedAt     time.Time
	Previous      *SessionOutput
}

type EndOutput struct {
	Ended        bool
	Session      SessionOutput
	TotalMinutes float64
	NotePath     string
}

type SubmitOutput struct {
	Count int
	At    time.Time
}

type ActiveSessionOutput struct {
	SessionID     string
	Category      string
	CategoryLabel string
	StartedAt     time.Time
	ElapsedMin    float64
}

type SessionOutput struct {
	ID          string
	Category    string
	StartTime   time.Time
	EndTime     time.Time
	DurationMin float64
}

type HistoryInput struct {
	Category string
}

type CategoryMinutes struct {
	Category string
	Label    string
	Minutes  float64
}

type SummaryOutput struct {
	StudentID       string
	AssignmentStart time.Time
	Categories      []CategoryMinutes
	TotalMinutes    float64
	TotalHours      float64
	Submissions     int
	Sessions        int
	AvgPerQuestion  float64
	MinutesPerPoint float64
	CompletionBand  string
	Completion      string
	Efficiency      float64
	Text            string
}

// LedgerOutput is the full persisted record plus derived metrics.
type LedgerOutput struct {
	StudentID       string
	AssignmentStart time.Time
	Sessions        []SessionOutput
	CategoryTime    map[string]float64
	TotalActiveTime float64
	SubmissionCount int
	LastSubmission  *time.Time
	Completion      string
	Efficiency      float64
	Distribution    map[string]float64
}

type ReindexOutput struct {
	Sessions int
}
