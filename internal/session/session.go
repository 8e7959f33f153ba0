// Package session owns the per-upload working state: one decoded table, the
// deletion queue staged against it, and the untouched original file bytes.
// Every session is independent; nothing is shared across sessions and nothing
// survives beyond the session's idle lifetime.
package session

import (
	"strings"
	"time"

	"sheetsweep/internal/queue"
	"sheetsweep/internal/report"
	"sheetsweep/internal/sheet"
	"sheetsweep/internal/table"
)

// MIME types served for export downloads.
const (
	MIMEWorkbook = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMECSV      = "text/csv"
)

// Session is one user's cleanup in progress. The table and queue reference
// the original, unmodified load for the whole session: deletion is deferred
// to export, so table indices never shift mid-session.
type Session struct {
	ID         string
	SourceName string
	Created    time.Time

	original []byte
	table    *table.Table
	queue    *queue.Queue
	terms    []string
	reasons  map[int]string
	timer    *time.Timer
}

// PendingRow is one queued row presented for review, with the sheet row
// number the removal will target.
type PendingRow struct {
	Index    int      `json:"index"`
	SheetRow int      `json:"sheet_row"`
	Reason   string   `json:"reason"`
	Cells    []string `json:"cells"`
}

// SearchResult carries one search's outcome: the fresh match set and the
// queue after merging it.
type SearchResult struct {
	Matches []int `json:"matches"`
	Queue   []int `json:"queue"`
}

// Export carries the cleaned file plus the audit describing what it removed.
type Export struct {
	Filename string
	MIME     string
	Data     []byte
	Audit    *report.Audit
}

// Table exposes the loaded table read-only for rendering.
func (s *Session) Table() *table.Table {
	return s.table
}

// Columns returns the table's column names.
func (s *Session) Columns() []string {
	return s.table.Columns()
}

// RowCount returns the number of loaded data rows.
func (s *Session) RowCount() int {
	return s.table.RowCount()
}

// PendingCount returns the number of rows staged for deletion.
func (s *Session) PendingCount() int {
	return s.queue.Len()
}

// QueuedIndices returns the staged table indices, ascending.
func (s *Session) QueuedIndices() []int {
	return s.queue.Snapshot()
}

// Preview returns up to n rows as column-keyed records for upload responses.
func (s *Session) Preview(n int) []map[string]any {
	return s.table.Records(n)
}

// Terms returns the search terms that have contributed matches so far.
func (s *Session) Terms() []string {
	return append([]string(nil), s.terms...)
}

// noteTerm records a term that produced matches, once.
func (s *Session) noteTerm(term string) {
	term = strings.TrimSpace(term)
	for _, t := range s.terms {
		if t == term {
			return
		}
	}
	s.terms = append(s.terms, term)
}

// noteReason records why an index was queued. A direct match never
// downgrades to an adjacent-total inclusion on later searches.
func (s *Session) noteReason(index int, reason string) {
	if existing, ok := s.reasons[index]; ok && existing == report.ReasonMatch {
		return
	}
	s.reasons[index] = reason
}

// pendingRows resolves the queue snapshot into reviewable rows with their
// sheet row numbers, provenance, and display cells.
func (s *Session) pendingRows(headerRows int) []PendingRow {
	snapshot := s.queue.Snapshot()
	rows := make([]PendingRow, 0, len(snapshot))
	for _, idx := range snapshot {
		row, ok := s.table.Row(idx)
		if !ok {
			continue
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = table.Display(v)
		}
		reason := s.reasons[idx]
		if reason == "" {
			reason = report.ReasonMatch
		}
		rows = append(rows, PendingRow{
			Index:    idx,
			SheetRow: sheet.SheetRow(idx, headerRows),
			Reason:   reason,
			Cells:    cells,
		})
	}
	return rows
}
