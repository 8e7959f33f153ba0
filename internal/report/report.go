// Package report emits cleanup audit artifacts: once an export has removed
// rows, accounting workflows want a trail of exactly what left the file and
// why. Writers exist for a styled workbook, a Word summary, and a
// machine-readable JSON dump.
package report

import (
	"path/filepath"
	"strings"

	"sheetsweep/internal/config"
)

// Reason values recorded against a removed row.
const (
	ReasonMatch = "match" // the row's content contained a search term
	ReasonTotal = "total" // swept along as the summary row under a match
)

// Audit describes one completed cleanup.
type Audit struct {
	SourceFile  string
	CleanupDate string
	SearchTerms []string
	Columns     []string
	RowsBefore  int
	RowsAfter   int
	Removed     []RemovedRow
}

// RemovedRow is one deleted row with its provenance. Cells hold the display
// text of every cell, aligned with Audit.Columns.
type RemovedRow struct {
	SheetRow int
	Reason   string
	Cells    []string
}

// Writer is the unified interface for all audit artifact strategies
type Writer interface {
	Write(audit *Audit, cfg *config.Config) error
}

// ForFormats returns a list of Writers based on requested formats
func ForFormats(formats []string) []Writer {
	writers := []Writer{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))
		if seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "excel", "xlsx":
			writers = append(writers, NewExcelWriter())
		case "word", "docx":
			writers = append(writers, NewWordWriter())
		case "json":
			writers = append(writers, NewJSONWriter())
		}
	}

	return writers
}

// auditFileName derives the artifact name from the cleaned file's source:
// "ledger.xlsx" audits to "ledger_audit<ext>"
func auditFileName(sourceFile, ext string) string {
	base := filepath.Base(sourceFile)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_audit" + ext
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
