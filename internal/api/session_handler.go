package api

import (
	"net/http"

	"github.com/coderecall/backend/internal/session"
)

// ── Request / Response types ────────────────────────────────────────────────

type SessionResponse struct {
	Source      string          `json:"source" example:"Codex CLI"`
	SessionDate string          `json:"session_date" example:"2024-05-01"`
	SessionDir  string          `json:"session_dir"`
	LatestFile  string          `json:"latest_file,omitempty"`
	Events      []session.Event `json:"events"`
	Error       string          `json:"error,omitempty"`
}

type SessionSummaryResponse struct {
	SessionDate string `json:"session_date" example:"2024-05-01"`
	Path        string `json:"path,omitempty"`
	Content     string `json:"content"`
	Error       string `json:"error,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getSession loads today's activity log.
// @Summary      Load today's session
// @Description  Discovers and parses the newest activity log for today. Parse issues are advisory and returned in the error field.
// @Tags         Session
// @Produce      json
// @Success      200  {object}  SessionResponse
// @Router       /session [get]
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	load, _ := h.learning.LoadSession()

	events := load.Events
	if events == nil {
		events = []session.Event{}
	}
	respondJSON(w, http.StatusOK, SessionResponse{
		Source:      load.Source,
		SessionDate: load.SessionDate,
		SessionDir:  load.SessionDir,
		LatestFile:  load.LatestFile,
		Events:      events,
		Error:       load.Error,
	})
}

// getSessionSummary renders the markdown digest for today's session.
// @Summary      Get the session digest
// @Description  Renders the filtered-event markdown digest. The path is set when artifact persistence is enabled.
// @Tags         Session
// @Produce      json
// @Success      200  {object}  SessionSummaryResponse
// @Router       /session/summary [get]
func (h *Handler) getSessionSummary(w http.ResponseWriter, r *http.Request) {
	load, artifact := h.learning.LoadSession()

	respondJSON(w, http.StatusOK, SessionSummaryResponse{
		SessionDate: load.SessionDate,
		Path:        artifact.Path,
		Content:     artifact.Content,
		Error:       mergeAdvisory(load.Error, artifact.Error),
	})
}

func mergeAdvisory(existing, message string) string {
	if existing == "" {
		return message
	}
	if message == "" {
		return existing
	}
	return existing + " | " + message
}
