package report

import (
	"encoding/json"
	"os"

	"sheetsweep/internal/config"
)

// Audit document root object
type auditDocument struct {
	Tool        string         `json:"tool"`
	SourceFile  string         `json:"source_file"`
	CleanupDate string         `json:"cleanup_date"`
	SearchTerms []string       `json:"search_terms,omitempty"`
	Columns     []string       `json:"columns"`
	RowsBefore  int            `json:"rows_before"`
	RowsAfter   int            `json:"rows_after"`
	RemovedRows []removedEntry `json:"removed_rows"`
}

type removedEntry struct {
	SheetRow int      `json:"sheet_row"`
	Reason   string   `json:"reason"` // "match" or "total"
	Cells    []string `json:"cells"`
}

// JSONWriter constructs the machine-readable audit dump
type JSONWriter struct {
	// Stateless
}

// NewJSONWriter creates a new JSONWriter
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

// Write serializes the audit to an indented JSON file
func (b *JSONWriter) Write(audit *Audit, cfg *config.Config) error {
	doc := auditDocument{
		Tool:        "sheetsweep",
		SourceFile:  audit.SourceFile,
		CleanupDate: audit.CleanupDate,
		SearchTerms: audit.SearchTerms,
		Columns:     audit.Columns,
		RowsBefore:  audit.RowsBefore,
		RowsAfter:   audit.RowsAfter,
		RemovedRows: make([]removedEntry, 0, len(audit.Removed)),
	}

	for _, removed := range audit.Removed {
		doc.RemovedRows = append(doc.RemovedRows, removedEntry{
			SheetRow: removed.SheetRow,
			Reason:   removed.Reason,
			Cells:    removed.Cells,
		})
	}

	outputFile := cfg.OutputPath(auditFileName(audit.SourceFile, ".json"))

	// Write to file
	file, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
