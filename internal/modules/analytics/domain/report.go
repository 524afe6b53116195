package domain

import (
	"fmt"
	"sort"
	"time"
)

// LedgerView is the read-only slice of the ledger the exporter needs.
type LedgerView struct {
	StudentID       string
	AssignmentStart time.Time
	Sessions        []SessionRecord
	CategoryTime    map[string]float64
	TotalActiveTime float64
	SubmissionCount int
	LastSubmission  *time.Time
	Completion      string
	Efficiency      float64
	Distribution    map[string]float64
}

type SessionRecord struct {
	ID              string    `json:"id,omitempty"`
	Category        string    `json:"category"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes float64   `json:"duration_minutes"`
}

type DailyTotal struct {
	Day     string  `json:"day"`
	Minutes float64 `json:"minutes"`
}

// Report is the analytics document: every ledger field plus derived figures.
type Report struct {
	StudentID        string             `json:"student_id"`
	AssignmentStart  time.Time          `json:"assignment_start"`
	Sessions         []SessionRecord    `json:"sessions"`
	CategoryTime     map[string]float64 `json:"category_time"`
	TotalActiveTime  float64            `json:"total_active_time"`
	SubmissionCount  int                `json:"submission_count"`
	LastSubmission   *time.Time         `json:"last_submission,omitempty"`
	CompletionRate   string             `json:"completion_rate"`
	EfficiencyScore  float64            `json:"efficiency_score"`
	TimeDistribution map[string]float64 `json:"time_distribution"`
	DailyMinutes     []DailyTotal       `json:"daily_minutes"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

func NewReport(view LedgerView, generatedAt time.Time) Report {
	sessions := view.Sessions
	if sessions == nil {
		sessions = []SessionRecord{}
	}
	distribution := view.Distribution
	if distribution == nil {
		distribution = map[string]float64{}
	}
	return Report{
		StudentID:        view.StudentID,
		AssignmentStart:  view.AssignmentStart,
		Sessions:         sessions,
		CategoryTime:     view.CategoryTime,
		TotalActiveTime:  view.TotalActiveTime,
		SubmissionCount:  view.SubmissionCount,
		LastSubmission:   view.LastSubmission,
		CompletionRate:   view.Completion,
		EfficiencyScore:  view.Efficiency,
		TimeDistribution: distribution,
		DailyMinutes:     DailyFromSessions(sessions),
		GeneratedAt:      generatedAt,
	}
}

// ReportFileName is analytics_<student>_<YYYYMMDD>.json, dated by the local
// calendar day of at.
func ReportFileName(studentID string, at time.Time) string {
	return fmt.Sprintf("analytics_%s_%s.json", studentID, at.Local().Format("20060102"))
}

// DailyFromSessions buckets session minutes by the UTC day they started,
// ordered by day.
func DailyFromSessions(sessions []SessionRecord) []DailyTotal {
	byDay := map[string]float64{}
	for _, s := range sessions {
		byDay[s.StartTime.UTC().Format(time.DateOnly)] += s.DurationMinutes
	}
	out := make([]DailyTotal, 0, len(byDay))
	for day, minutes := range byDay {
		out = append(out, DailyTotal{Day: day, Minutes: minutes})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func SumDaily(days []DailyTotal) float64 {
	total := 0.0
	for _, d := range days {
		total += d.Minutes
	}
	return total
}
