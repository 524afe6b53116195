package out

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"timeledger/internal/modules/ledger/domain"
	ledgerout "timeledger/internal/modules/ledger/port/out"
	"timeledger/internal/platform/markdown"
)

type MarkdownSessionNotes struct {
	dir string
}

func NewMarkdownSessionNotes(dir string) ledgerout.SessionNotes {
	return &MarkdownSessionNotes{dir: dir}
}

func (s *MarkdownSessionNotes) Save(_ context.Context, studentID string, session domain.Session) (string, error) {
	date := session.StartTime.UTC()
	dir := filepath.Join(s.dir, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("150405"), strings.ReplaceAll(string(session.Category), "_", "-"))
	path := filepath.Join(dir, name)

	meta := map[string]any{
		"schema_version":   domain.SchemaVersion,
		"id":               session.ID,
		"student_id":       studentID,
		"category":         string(session.Category),
		"start_time":       session.StartTime.Format(time.RFC3339),
		"end_time":         session.EndTime.Format(time.RFC3339),
		"duration_minutes": roundMinutes(session.DurationMinutes),
	}
	body := fmt.Sprintf("# %s\n\n- Started: %s\n- Ended: %s\n- Duration: %.1f minutes\n\n## Notes\n\n",
		session.Category.Label(),
		session.StartTime.Format(time.DateTime),
		session.EndTime.Format(time.DateTime),
		session.DurationMinutes,
	)
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

func roundMinutes(v float64) float64 {
	return math.Round(v*100) / 100
}
