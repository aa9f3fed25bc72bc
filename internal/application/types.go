package application

import (
	"path/filepath"
	"strings"

	"qbmerge/internal/domain"
)

// ReportSuffix replaces the output extension to name the default conflict
// report
const ReportSuffix = ".conflicts_report.json"

// Re-export domain types for use by adapters
type (
	Bank           = domain.Bank
	Conflict       = domain.Conflict
	ConflictReport = domain.ConflictReport
	MergeRun       = domain.MergeRun
	ApplyStats     = domain.ApplyStats
)

// SourceLabel returns the label an edited file is known by in conflicts
// and provenance: its base name
func SourceLabel(path string) string {
	return filepath.Base(path)
}

// DefaultReportPath derives the conflict report path from the merged
// output path (merged.json -> merged.conflicts_report.json)
func DefaultReportPath(outPath string) string {
	return strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ReportSuffix
}

// MergedPathForReport guesses the merged bank a default-named report
// belongs to. It returns "" for reports with a custom name.
func MergedPathForReport(reportPath string) string {
	if !strings.HasSuffix(reportPath, ReportSuffix) {
		return ""
	}
	return strings.TrimSuffix(reportPath, ReportSuffix) + ".json"
}
