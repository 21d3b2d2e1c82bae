package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/filingsight/internal/analysis"
	"github.com/dgallion1/filingsight/internal/parser"
	"github.com/dgallion1/filingsight/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	mode, err := analysis.ParseMode(r.FormValue("mode"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "No file was uploaded.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	// Read file data.
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	if len(data) == 0 {
		jsonError(w, "file is empty", http.StatusBadRequest)
		return
	}

	if parser.IsPDF(filename) {
		pages, err := parser.CountPDFPages(data)
		if err != nil {
			jsonError(w, "invalid pdf: "+err.Error(), http.StatusBadRequest)
			return
		}
		if pages == 0 {
			jsonError(w, "pdf has no pages", http.StatusBadRequest)
			return
		}
	}

	job := pipeline.NewJob(filename, strings.TrimSpace(r.FormValue("title")), mode, data)
	if err := s.orchestrator.Submit(job); err != nil {
		s.log.Warn("job rejected", "job_id", job.ID, "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("job queued", "job_id", job.ID, "filename", filename, "mode", mode, "bytes", len(data))

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":     job.ID,
		"status":     pipeline.StatusQueued,
		"mode":       mode,
		"poll_url":   fmt.Sprintf("/api/analyze/%s/status", job.ID),
		"result_url": fmt.Sprintf("/api/analyze/%s", job.ID),
	})
}

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// finished writes the error response for jobs without a result and reports
// whether the caller may read the result.
func finished(w http.ResponseWriter, snap pipeline.JobSnapshot) bool {
	switch snap.Status {
	case pipeline.StatusCompleted:
		return true
	case pipeline.StatusFailed:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "analysis failed",
			"job_id": snap.ID,
			"status": snap.Status,
			"phase":  snap.Phase,
			"errors": snap.Progress.Errors,
		})
	default:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "analysis not finished",
			"job_id": snap.ID,
			"status": snap.Status,
		})
	}
	return false
}

func (s *Server) handleAnalyzeResult(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	snap := job.Snapshot()
	if !finished(w, snap) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id": snap.ID,
		"status": snap.Status,
		"title":  snap.Title,
		"result": job.Result(),
	})
}

func (s *Server) handleAnalyzeHTML(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	snap := job.Snapshot()
	if !finished(w, snap) {
		return
	}
	res := job.Result()
	if res == nil || res.Mode != analysis.ModeComplex {
		jsonError(w, "html is only produced in complex mode", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, res.HTML)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
