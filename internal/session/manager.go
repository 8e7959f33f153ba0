package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sheetsweep/internal/config"
	"sheetsweep/internal/match"
	"sheetsweep/internal/queue"
	"sheetsweep/internal/report"
	"sheetsweep/internal/sheet"
)

// ErrSessionNotFound is returned for operations on an unknown or expired
// session id.
var ErrSessionNotFound = errors.New("session not found or expired")

// Manager tracks live sessions by id and enforces their idle lifetime. Every
// operation that reaches a session resets its expiry clock.
type Manager struct {
	cfg *config.Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager using the given configuration
// for decode rules, matching defaults, and session lifetime.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Create validates and decodes an upload into a new session. The extension
// whitelist is checked first, then the file is decoded against the configured
// header and required-column rules. No session is installed on any failure.
func (m *Manager) Create(filename string, data []byte) (*Session, error) {
	if !m.cfg.AllowedExtension(filename) {
		return nil, fmt.Errorf("%w: %q (allowed: %s)",
			sheet.ErrUnsupportedExtension, filepath.Ext(filename),
			strings.Join(m.cfg.Upload.AllowedExtensions, ", "))
	}

	tbl, err := sheet.Decode(filename, data, sheet.DecodeOptions{
		HeaderRows:      m.cfg.Cleanup.HeaderRows,
		RequiredColumns: m.cfg.Cleanup.RequiredColumns,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:         uuid.New().String(),
		SourceName: filepath.Base(filename),
		Created:    time.Now(),
		original:   append([]byte(nil), data...),
		table:      tbl,
		queue:      queue.New(),
		reasons:    make(map[int]string),
	}
	s.timer = time.AfterFunc(m.cfg.Upload.SessionTTL, func() { m.Remove(s.ID) })

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s, nil
}

// Get returns the live session with the given id and resets its expiry.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.timer.Reset(m.cfg.Upload.SessionTTL)
	return s, nil
}

// Search runs one search against the session's table and merges the result
// into its queue. A term that is purely a comma-separated list of numbers is
// treated as direct table-index references (out-of-range entries are
// dropped); anything else is a substring search with the adjacent-total rule.
// Previous queue contents are never cleared by a new search.
func (m *Manager) Search(id, term string, caseSensitive bool) (*SearchResult, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	opts := match.Options{
		CaseSensitive: caseSensitive,
		TotalKeyword:  m.cfg.Cleanup.TotalKeyword,
	}

	var found []int
	if indices, ok := match.ParseIndexList(term); ok {
		for _, idx := range indices {
			if idx < s.table.RowCount() {
				found = append(found, idx)
				s.noteReason(idx, report.ReasonMatch)
			}
		}
	} else {
		found = match.Find(s.table, term, opts)
		for _, idx := range found {
			reason := report.ReasonTotal
			if match.RowMatches(s.table, idx, term, opts) {
				reason = report.ReasonMatch
			}
			s.noteReason(idx, reason)
		}
	}

	if len(found) > 0 {
		s.noteTerm(term)
	}
	s.queue.Merge(found)

	return &SearchResult{Matches: found, Queue: s.queue.Snapshot()}, nil
}

// Rescue removes one table index from the session's queue and returns the
// queue after the change. Rescuing an absent index is a no-op.
func (m *Manager) Rescue(id string, index int) ([]int, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if s.queue.Rescue(index) {
		delete(s.reasons, index)
	}
	return s.queue.Snapshot(), nil
}

// ClearQueue empties the session's queue and forgets the search history that
// built it.
func (m *Manager) ClearQueue(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.queue.Clear()
	s.reasons = make(map[int]string)
	s.terms = nil
	return nil
}

// Pending returns the queued rows for review, ascending by table index.
func (m *Manager) Pending(id string) ([]PendingRow, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return s.pendingRows(m.cfg.Cleanup.HeaderRows), nil
}

// Export applies the session's queue to a copy of the original file and
// returns the cleaned bytes with their download name, MIME type, and the
// audit of what was removed. The session itself is untouched: the queue and
// table survive, so a failed or repeated export can simply run again.
func (m *Manager) Export(ctx context.Context, id string) (*Export, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	headerRows := m.cfg.Cleanup.HeaderRows
	pending := s.pendingRows(headerRows)
	sheetRows := make([]int, len(pending))
	for i, p := range pending {
		sheetRows[i] = p.SheetRow
	}

	var (
		data []byte
		mime string
	)
	switch strings.ToLower(filepath.Ext(s.SourceName)) {
	case ".csv":
		data, err = sheet.RemoveCSVRows(s.original, sheetRows, headerRows)
		mime = MIMECSV
	default:
		data, err = sheet.RemoveRows(ctx, s.original, sheetRows, headerRows)
		mime = MIMEWorkbook
	}
	if err != nil {
		return nil, err
	}

	audit := &report.Audit{
		SourceFile:  s.SourceName,
		CleanupDate: time.Now().Format("2006-01-02 15:04:05"),
		SearchTerms: s.Terms(),
		Columns:     s.table.Columns(),
		RowsBefore:  s.table.RowCount(),
		RowsAfter:   s.table.RowCount() - len(pending),
		Removed:     make([]report.RemovedRow, 0, len(pending)),
	}
	for _, p := range pending {
		audit.Removed = append(audit.Removed, report.RemovedRow{
			SheetRow: p.SheetRow,
			Reason:   p.Reason,
			Cells:    p.Cells,
		})
	}

	return &Export{
		Filename: m.cfg.CleanedName(s.SourceName),
		MIME:     mime,
		Data:     data,
		Audit:    audit,
	}, nil
}

// Remove drops a session and stops its expiry timer. Removing an unknown id
// is a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		s.timer.Stop()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
