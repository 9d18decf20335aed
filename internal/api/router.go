// internal/api/router.go
package api

import "net/http"

// RegisterRoutes attaches every endpoint to the mux using method patterns.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Session ingestion
	mux.HandleFunc("GET /session", h.getSession)
	mux.HandleFunc("GET /session/summary", h.getSessionSummary)

	// Learning content
	mux.HandleFunc("POST /learning/generate", h.generateLearning)
	mux.HandleFunc("GET /learning", h.getLearning)
	mux.HandleFunc("GET /learning/quiz", h.getQuiz)
	mux.HandleFunc("POST /learning/quiz/{action}", h.applyQuizAction)

	// Analytics
	mux.HandleFunc("GET /analytics", h.getAnalytics)
}
