package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"timeledger/internal/modules/analytics/domain"
	analyticsout "timeledger/internal/modules/analytics/port/out"
)

type JSONReportWriter struct{}

func NewJSONReportWriter() analyticsout.ReportWriter {
	return JSONReportWriter{}
}

func (JSONReportWriter) Write(_ context.Context, path string, report domain.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
