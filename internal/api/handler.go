// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coderecall/backend/internal/service"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	learning      *service.LearningService
	logger        *slog.Logger
	analyticsDays int
}

// NewHandler creates a Handler with the given dependencies. analyticsDays is
// the window applied when the analytics endpoint receives no days parameter.
func NewHandler(learning *service.LearningService, logger *slog.Logger, analyticsDays int) *Handler {
	if analyticsDays <= 0 {
		analyticsDays = defaultAnalyticsDays
	}
	return &Handler{
		learning:      learning,
		logger:        logger,
		analyticsDays: analyticsDays,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes an error message as JSON.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleServiceError maps the learning service's sentinel errors onto HTTP
// responses. Returns true if an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, service.ErrNoLearningContent):
		respondError(w, http.StatusNotFound, "no learning content generated yet")
	case errors.Is(err, service.ErrGenerationInFlight):
		respondError(w, http.StatusConflict, "generation already in progress")
	default:
		h.logger.Error("service error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
