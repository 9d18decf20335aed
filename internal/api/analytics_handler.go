package api

import (
	"net/http"
	"strconv"
)

const defaultAnalyticsDays = 30

// getAnalytics returns the trailing-window daily series.
// @Summary      Get learning analytics
// @Description  Aggregates generation and first-attempt rows into one entry per calendar day, zero-filled for inactive days.
// @Tags         Analytics
// @Produce      json
// @Param        days  query     int  false  "Window length in days"  default(30)
// @Success      200   {object}  analytics.Snapshot
// @Failure      400   {object}  map[string]string  "invalid days"
// @Router       /analytics [get]
func (h *Handler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	days := h.analyticsDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	snapshot, err := h.learning.Analytics(days)
	if h.handleServiceError(w, err) {
		return
	}

	if snapshot.KnowledgeGroups == nil {
		snapshot.KnowledgeGroups = []string{}
	}
	respondJSON(w, http.StatusOK, snapshot)
}
