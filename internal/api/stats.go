package api

import (
	"net/http"
)

// statsResponse is the JSON response for GET /v1/stats.
type statsResponse struct {
	Total           int            `json:"total"`
	ByMode          map[string]int `json:"by_mode"`
	AgentsRun       int            `json:"agents_run"`
	AgentsSucceeded int            `json:"agents_succeeded"`
	AgentsFailed    int            `json:"agents_failed"`
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetRunStats(r.Context())
	if err != nil {
		s.logger.Error("get run stats", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	s.writeJSON(w, http.StatusOK, statsResponse{
		Total:           stats.Total,
		ByMode:          stats.CountByMode,
		AgentsRun:       stats.AgentsRun,
		AgentsSucceeded: stats.AgentsSucceeded,
		AgentsFailed:    stats.AgentsFailed,
	})
}
