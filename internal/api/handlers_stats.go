package api

import (
	"net/http"
)

func (s *Server) handleGenerationStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil || s.stats.Stats() == nil {
		jsonError(w, "generation stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"model":       s.stats.Model(),
		"stats":       s.stats.Stats().Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
