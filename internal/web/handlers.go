package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sheetsweep/internal/logger"
	"sheetsweep/internal/report"
	"sheetsweep/internal/session"
	"sheetsweep/internal/sheet"
)

type uploadResponse struct {
	SessionID string           `json:"session_id"`
	Filename  string           `json:"filename"`
	Columns   []string         `json:"columns"`
	TotalRows int              `json:"total_rows"`
	Preview   []map[string]any `json:"preview"`
}

type stateResponse struct {
	SessionID string   `json:"session_id"`
	Filename  string   `json:"filename"`
	Columns   []string `json:"columns"`
	TotalRows int      `json:"total_rows"`
	Pending   int      `json:"pending"`
	Queue     []int    `json:"queue"`
}

type searchRequest struct {
	Term string `json:"term"`

	// CaseSensitive overrides the configured default when present.
	CaseSensitive *bool `json:"case_sensitive"`
}

type rescueRequest struct {
	Index *int `json:"index"`
}

// handleUpload decodes a multipart upload into a new session and returns its
// id with a bounded preview of the loaded table.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	sess, err := s.sessions.Create(header.Filename, data)
	if err != nil {
		logger.LogCodecError(header.Filename, err, "upload decode")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("Upload accepted: %s (%d rows, session %s)", sess.SourceName, sess.RowCount(), sess.ID)
	writeJSON(w, http.StatusCreated, uploadResponse{
		SessionID: sess.ID,
		Filename:  sess.SourceName,
		Columns:   sess.Columns(),
		TotalRows: sess.RowCount(),
		Preview:   sess.Preview(s.cfg.Upload.PreviewRows),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stateResponse{
		SessionID: sess.ID,
		Filename:  sess.SourceName,
		Columns:   sess.Columns(),
		TotalRows: sess.RowCount(),
		Pending:   sess.PendingCount(),
		Queue:     sess.QueuedIndices(),
	})
}

// handleSearch runs one search and merges its matches into the session's
// queue. The response carries the fresh match set and the queue after the
// merge; an empty term matches nothing and is not an error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	caseSensitive := s.cfg.Cleanup.CaseSensitive
	if req.CaseSensitive != nil {
		caseSensitive = *req.CaseSensitive
	}

	result, err := s.sessions.Search(chi.URLParam(r, "id"), req.Term, caseSensitive)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRescue(w http.ResponseWriter, r *http.Request) {
	var req rescueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeError(w, http.StatusBadRequest, "missing row index")
		return
	}

	queue, err := s.sessions.Rescue(chi.URLParam(r, "id"), *req.Index)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"queue": queue})
}

func (s *Server) handleClearQueue(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.ClearQueue(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	rows, err := s.sessions.Pending(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":  rows,
		"count": len(rows),
	})
}

// handleExport applies the queue to a copy of the original file and serves
// the result as an attachment. The session is left untouched, so a failed
// download can simply be requested again.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := s.sessions.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	if _, err := w.Write(export.Data); err != nil {
		logger.Error("Failed to stream export %s: %v", export.Filename, err)
		return
	}

	logger.Info("Exported %s: %d rows removed", export.Filename, len(export.Audit.Removed))
	s.writeAudits(export)
}

// writeAudits emits the configured audit artifacts for a completed export.
// Artifact failures are logged, never surfaced: the download already went out.
func (s *Server) writeAudits(export *session.Export) {
	for _, writer := range report.ForFormats(s.cfg.Output.AuditFormats) {
		if err := writer.Write(export.Audit, s.cfg); err != nil {
			logger.Warn("Audit artifact failed for %s: %v", export.Filename, err)
		}
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// respondError maps an operation failure onto the error taxonomy: unknown
// sessions are 404, content problems 400, row-range precondition violations
// 409, and codec failures 500.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	writeError(w, errStatus(err), err.Error())
}

func errStatus(err error) int {
	var rangeErr *sheet.RowRangeError
	var missingErr *sheet.MissingColumnsError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &rangeErr):
		return http.StatusConflict
	case errors.Is(err, sheet.ErrUnsupportedExtension),
		errors.Is(err, sheet.ErrEmptyWorkbook),
		errors.Is(err, sheet.ErrMissingHeader),
		errors.As(err, &missingErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a JSON error response and keeps the detail in the log.
func writeError(w http.ResponseWriter, status int, message string) {
	logger.Debug("HTTP %d: %s", status, message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}
