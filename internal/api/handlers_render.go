package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/filingsight/internal/pageref"
)

type renderRequest struct {
	Markdown string `json:"markdown"`
}

type resolveRequest struct {
	Raw string `json:"raw"`
}

// decodeJSON reads a bounded JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		jsonError(w, "markdown is required", http.StatusBadRequest)
		return
	}

	res, err := s.renderer.Render(req.Markdown)
	if err != nil {
		s.log.Error("render failed", "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	pages := pageref.Resolve(req.Raw)
	if pages == nil {
		pages = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"raw":   req.Raw,
		"pages": pages,
	})
}
