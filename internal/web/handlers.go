package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cmcgovern/handy-scripts/internal/core"
	"github.com/cmcgovern/handy-scripts/internal/workbook"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 32 << 20

// openUpload reads the multipart "file" field as a workbook.
func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) (*workbook.Workbook, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxFileSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, tooLarge.Limit)
		}
		if strings.Contains(err.Error(), "request body too large") {
			return nil, "", fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, s.maxFileSize)
		}
		return nil, "", fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", core.ErrNoFile
	}
	defer file.Close()

	wb, err := workbook.OpenReader(file)
	if err != nil {
		return nil, "", err
	}
	return wb, header.Filename, nil
}

// handleImport imports every worksheet of the uploaded workbook.
// Responds 200 when all worksheets import and 422 with the full result
// when any worksheet fails.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	wb, name, err := s.openUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer wb.Close()

	sheets, err := wb.Sheets()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	result, err := s.service.Import(r.Context(), name, sheets)
	if result == nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	status := http.StatusOK
	if result.Failed() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// undoResponse is the body returned by the undo endpoint.
type undoResponse struct {
	Sheets []core.UndoResult `json:"sheets"`
}

// handleUndo drops the tables the uploaded workbook would create.
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	wb, _, err := s.openUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer wb.Close()

	results, err := s.service.Undo(r.Context(), wb.SheetNames())
	if results == nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, undoResponse{Sheets: results})
}

// handleImportStatus reports import slot usage.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.LimiterStatus())
}

// handleHealth pings the database.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
