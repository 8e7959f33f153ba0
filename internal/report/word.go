package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"sheetsweep/internal/config"
)

// WordWriter renders the audit as a Word summary document
type WordWriter struct{}

// NewWordWriter creates a new WordWriter
func NewWordWriter() *WordWriter {
	return &WordWriter{}
}

// Write fills the generated template and saves the document
func (e *WordWriter) Write(audit *Audit, cfg *config.Config) error {
	template, err := auditTemplate()
	if err != nil {
		return err
	}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return fmt.Errorf("failed to open audit template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	// Replace Summary Placeholders
	doc.Replace("{{Source}}", audit.SourceFile, -1)
	doc.Replace("{{Date}}", audit.CleanupDate, -1)
	doc.Replace("{{RowsRemoved}}", fmt.Sprintf("%d", len(audit.Removed)), -1)

	// Inject content (the library handles XML encoding)
	doc.Replace("{{Content}}", buildAuditText(audit), -1)

	outFile := cfg.OutputPath(auditFileName(audit.SourceFile, ".docx"))
	if err := doc.WriteToFile(outFile); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}

	return nil
}

// buildAuditText builds plain text documentation of the cleanup
func buildAuditText(audit *Audit) string {
	var contentBuilder strings.Builder

	contentBuilder.WriteString("CLEANUP AUDIT\n\n")
	contentBuilder.WriteString("Summary Overview:\n")
	contentBuilder.WriteString(fmt.Sprintf("  • Rows Before: %d\n", audit.RowsBefore))
	contentBuilder.WriteString(fmt.Sprintf("  • Rows After: %d\n", audit.RowsAfter))
	contentBuilder.WriteString(fmt.Sprintf("  • Search Terms: %s\n\n", strings.Join(audit.SearchTerms, ", ")))
	contentBuilder.WriteString(strings.Repeat("=", 80) + "\n\n")

	contentBuilder.WriteString("REMOVED ROWS:\n")
	contentBuilder.WriteString(fmt.Sprintf("%-10s %-8s %s\n", "Sheet Row", "Reason", "Content"))
	contentBuilder.WriteString(strings.Repeat("-", 100) + "\n")

	for _, removed := range audit.Removed {
		contentBuilder.WriteString(fmt.Sprintf("%-10d %-8s %s\n",
			removed.SheetRow,
			removed.Reason,
			truncate(strings.Join(removed.Cells, " | "), 80)))
	}

	return contentBuilder.String()
}
