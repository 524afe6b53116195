package service

import (
	"fmt"
	"strings"
	"time"

	"timeledger/internal/modules/ledger/domain"
)

// RenderSummary formats the plain-text report printed by `summary`.
func RenderSummary(l *domain.Ledger) string {
	m := l.Metrics()
	b := strings.Builder{}
	fmt.Fprintf(&b, "Assessment time summary for %s\n", l.StudentID)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("Time by category:\n")
	for _, c := range domain.Categories {
		fmt.Fprintf(&b, "  %-32s %7.1f min\n", c.Label()+":", l.CategoryTime[c])
	}

	fmt.Fprintf(&b, "\nTotal active time: %.1f minutes (%.1f hours)\n", l.TotalActiveTime, m.TotalHours)
	fmt.Fprintf(&b, "Total submissions: %d\n", l.SubmissionCount)
	fmt.Fprintf(&b, "Started: %s\n", l.AssignmentStart.Format(time.DateTime))

	b.WriteString("\nEfficiency metrics:\n")
	fmt.Fprintf(&b, "  Average time per question: %.1f minutes\n", m.AvgPerQuestionMin)
	fmt.Fprintf(&b, "  Time per point:            %.1f minutes\n", m.MinutesPerPoint)
	fmt.Fprintf(&b, "  Sessions:                  %d\n", len(l.Sessions))
	fmt.Fprintf(&b, "  Completion estimate:       %s\n", m.Completion.Label())
	fmt.Fprintf(&b, "  Efficiency score:          %.1f\n", m.Efficiency)
	return b.String()
}
