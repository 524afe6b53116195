package dto

type ExportInput struct {
	// Dir overrides the configured export directory when set.
	Dir string
}

type ExportOutput struct {
	Path         string
	TotalMinutes float64
	Sessions     int
	DailySource  string
}
