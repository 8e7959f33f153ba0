package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"

	"sheetsweep/internal/config"
)

func sampleAudit() *Audit {
	return &Audit{
		SourceFile:  "ledger.xlsx",
		CleanupDate: "2024-11-02 10:30:00",
		SearchTerms: []string{"freight", "inv"},
		Columns:     []string{"Account", "Narration", "Amount"},
		RowsBefore:  12,
		RowsAfter:   9,
		Removed: []RemovedRow{
			{SheetRow: 4, Reason: ReasonMatch, Cells: []string{"A-102", "freight charges", "300"}},
			{SheetRow: 5, Reason: ReasonTotal, Cells: []string{"", "Freight Total", "300"}},
			{SheetRow: 9, Reason: ReasonMatch, Cells: []string{"A-106", "INV-2023 rent", "1200"}},
		},
	}
}

func outputConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Output: config.OutputConfig{Dir: t.TempDir(), FileSuffix: "_cleaned"},
	}
}

func TestExcelWriter(t *testing.T) {
	audit := sampleAudit()
	cfg := outputConfig(t)

	if err := NewExcelWriter().Write(audit, cfg); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	outputFile := filepath.Join(cfg.Output.Dir, "ledger_audit.xlsx")
	f, err := excelize.OpenFile(outputFile)
	if err != nil {
		t.Fatalf("Failed to open generated Excel: %v", err)
	}
	defer f.Close()

	// Default sheet must be gone
	sheets := f.GetSheetList()
	if !reflect.DeepEqual(sheets, []string{"Overview", "Removed Rows"}) {
		t.Errorf("Sheets = %v, expected [Overview, Removed Rows]", sheets)
	}

	// Overview carries the summary metrics
	overview, err := f.GetRows("Overview")
	if err != nil {
		t.Fatalf("Failed to read Overview: %v", err)
	}
	found := false
	for _, row := range overview {
		if len(row) >= 2 && row[0] == "Source File" && row[1] == "ledger.xlsx" {
			found = true
		}
	}
	if !found {
		t.Error("Overview missing the Source File metric")
	}

	// Removed Rows lists every deletion with its provenance
	removed, err := f.GetRows("Removed Rows")
	if err != nil {
		t.Fatalf("Failed to read Removed Rows: %v", err)
	}
	if len(removed) != 4 {
		t.Fatalf("Removed Rows has %d rows, expected header + 3", len(removed))
	}

	expected := []string{"1", "4", "match", "A-102", "freight charges", "300"}
	if !reflect.DeepEqual(removed[1], expected) {
		t.Errorf("First removed row = %v, expected %v", removed[1], expected)
	}
	if removed[2][2] != "total" {
		t.Errorf("Second removed row reason = %q, expected total", removed[2][2])
	}

	t.Logf("✅ Excel audit verified: %s", outputFile)
}

func TestWordWriter(t *testing.T) {
	audit := sampleAudit()
	cfg := outputConfig(t)

	if err := NewWordWriter().Write(audit, cfg); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	outputFile := filepath.Join(cfg.Output.Dir, "ledger_audit.docx")
	r, err := docx.ReadDocxFile(outputFile)
	if err != nil {
		t.Fatalf("Failed to open generated document: %v", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()

	checks := []string{"ledger.xlsx", "Rows Removed: 3", "freight charges", "Freight Total"}
	for _, want := range checks {
		if !strings.Contains(content, want) {
			t.Errorf("Document missing %q", want)
		}
	}
	if strings.Contains(content, "{{") {
		t.Error("Document still contains unfilled placeholders")
	}

	t.Logf("✅ Word audit verified: %s", outputFile)
}

func TestJSONWriter(t *testing.T) {
	audit := sampleAudit()
	cfg := outputConfig(t)

	if err := NewJSONWriter().Write(audit, cfg); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "ledger_audit.json"))
	if err != nil {
		t.Fatalf("Failed to read generated JSON: %v", err)
	}

	var doc auditDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Failed to unmarshal audit: %v", err)
	}

	if doc.Tool != "sheetsweep" {
		t.Errorf("tool = %q, expected sheetsweep", doc.Tool)
	}
	if doc.RowsBefore != 12 || doc.RowsAfter != 9 {
		t.Errorf("Row counts = %d/%d, expected 12/9", doc.RowsBefore, doc.RowsAfter)
	}
	if len(doc.RemovedRows) != 3 {
		t.Fatalf("removed_rows has %d entries, expected 3", len(doc.RemovedRows))
	}
	if doc.RemovedRows[1].Reason != ReasonTotal {
		t.Errorf("Second entry reason = %q, expected total", doc.RemovedRows[1].Reason)
	}
	if doc.RemovedRows[0].SheetRow != 4 {
		t.Errorf("First entry sheet_row = %d, expected 4", doc.RemovedRows[0].SheetRow)
	}
}

func TestForFormats(t *testing.T) {
	tests := []struct {
		name     string
		formats  []string
		expected int
	}{
		{"all three", []string{"excel", "word", "json"}, 3},
		{"aliases", []string{"xlsx", "docx"}, 2},
		{"duplicates collapse", []string{"excel", "EXCEL", " excel "}, 1},
		{"unknown ignored", []string{"pdf"}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writers := ForFormats(tt.formats)
			if len(writers) != tt.expected {
				t.Errorf("ForFormats(%v) returned %d writers, expected %d", tt.formats, len(writers), tt.expected)
			}
		})
	}
}

func TestAuditFileName(t *testing.T) {
	tests := []struct {
		source   string
		ext      string
		expected string
	}{
		{"ledger.xlsx", ".xlsx", "ledger_audit.xlsx"},
		{"ledger.xlsx", ".json", "ledger_audit.json"},
		{"/uploads/trial balance.csv", ".docx", "trial balance_audit.docx"},
	}

	for _, tt := range tests {
		result := auditFileName(tt.source, tt.ext)
		if result != tt.expected {
			t.Errorf("auditFileName(%s, %s) = %s, expected %s", tt.source, tt.ext, result, tt.expected)
		}
	}
}
