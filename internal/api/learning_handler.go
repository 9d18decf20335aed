package api

import (
	"errors"
	"net/http"

	"github.com/coderecall/backend/internal/domain/knowledge"
	"github.com/coderecall/backend/internal/quiz"
	"github.com/coderecall/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type GenerateResponse struct {
	RunID string `json:"run_id" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
}

type LearningResponse struct {
	Status      string          `json:"status" example:"ready"` // pending, ready, error
	SessionDate string          `json:"session_date,omitempty" example:"2024-05-01"`
	StatusLine  string          `json:"status_line,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	Groups      []LearningGroup `json:"groups,omitempty"`
	Quiz        *QuizView       `json:"quiz,omitempty"`
}

type LearningGroup struct {
	Name          string   `json:"name"`
	Language      string   `json:"language,omitempty"`
	Resources     []string `json:"resources,omitempty"`
	QuestionCount int      `json:"question_count"`
}

type QuizView struct {
	GroupIndex      int      `json:"group_index"`
	GroupCount      int      `json:"group_count"`
	GroupName       string   `json:"group_name,omitempty"`
	Language        string   `json:"language,omitempty"`
	Summary         string   `json:"summary,omitempty"` // revealed after a correct answer
	QuestionIndex   int      `json:"question_index"`
	QuestionCount   int      `json:"question_count"`
	Question        string   `json:"question,omitempty"`
	Options         []string `json:"options"`
	OptionIndex     int      `json:"option_index"`
	Feedback        string   `json:"feedback,omitempty"`
	AwaitingAdvance bool     `json:"awaiting_advance"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// generateLearning starts one background generation run.
// @Summary      Generate learning content
// @Description  Kicks off AI generation over today's session digest. A run already in flight is rejected, not queued.
// @Tags         Learning
// @Produce      json
// @Success      202  {object}  GenerateResponse
// @Failure      409  {object}  map[string]string  "generation already in progress"
// @Router       /learning/generate [post]
func (h *Handler) generateLearning(w http.ResponseWriter, r *http.Request) {
	h.learning.Poll()

	runID, err := h.learning.TriggerGeneration()
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusAccepted, GenerateResponse{RunID: runID})
}

// getLearning reports the generation state and the current content tree.
// @Summary      Get learning content
// @Description  Returns pending while a run is in flight, the generated knowledge groups when ready, or the failure otherwise.
// @Tags         Learning
// @Produce      json
// @Success      200  {object}  LearningResponse
// @Failure      404  {object}  map[string]string  "nothing generated yet"
// @Router       /learning [get]
func (h *Handler) getLearning(w http.ResponseWriter, r *http.Request) {
	h.learning.Poll()
	status := h.learning.Status()

	sessionDate, response, state, err := h.learning.Current()
	if err != nil && !errors.Is(err, service.ErrNoLearningContent) {
		h.handleServiceError(w, err)
		return
	}

	switch {
	case response != nil:
		respondJSON(w, http.StatusOK, LearningResponse{
			Status:      readinessLabel(status),
			SessionDate: sessionDate,
			StatusLine:  status.StatusLine,
			LastError:   status.LastError,
			Groups:      learningGroups(response),
			Quiz:        quizView(response, state),
		})
	case status.InFlight:
		respondJSON(w, http.StatusOK, LearningResponse{
			Status:     "pending",
			StatusLine: status.StatusLine,
		})
	case status.LastError != "":
		respondJSON(w, http.StatusOK, LearningResponse{
			Status:     "error",
			StatusLine: status.StatusLine,
			LastError:  status.LastError,
		})
	default:
		respondError(w, http.StatusNotFound, "no learning content generated yet")
	}
}

// getQuiz returns the current quiz cursor view.
// @Summary      Get the quiz view
// @Description  Returns the active group, question, and options along with cursor positions and feedback.
// @Tags         Learning
// @Produce      json
// @Success      200  {object}  QuizView
// @Failure      404  {object}  map[string]string  "nothing generated yet"
// @Router       /learning/quiz [get]
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	h.learning.Poll()

	_, response, state, err := h.learning.Current()
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, quizView(response, state))
}

// applyQuizAction feeds one navigation or selection input to the quiz.
// @Summary      Apply a quiz action
// @Description  Accepts next_group, previous_group, next_question, previous_question, next_option, previous_option, or select_option.
// @Tags         Learning
// @Produce      json
// @Param        action  path      string  true  "Action name"
// @Success      200     {object}  QuizView
// @Failure      400     {object}  map[string]string  "unknown action"
// @Failure      404     {object}  map[string]string  "nothing generated yet"
// @Router       /learning/quiz/{action} [post]
func (h *Handler) applyQuizAction(w http.ResponseWriter, r *http.Request) {
	h.learning.Poll()

	action, ok := quiz.ParseAction(r.PathValue("action"))
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown action: "+r.PathValue("action"))
		return
	}

	state, err := h.learning.ApplyQuizAction(action)
	if h.handleServiceError(w, err) {
		return
	}

	_, response, _, err := h.learning.Current()
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, quizView(response, state))
}

// ── View builders ───────────────────────────────────────────────────────────

func readinessLabel(status service.Status) string {
	if status.InFlight {
		return "pending"
	}
	return "ready"
}

func learningGroups(response *knowledge.Response) []LearningGroup {
	groups := make([]LearningGroup, len(response.Groups))
	for i := range response.Groups {
		group := &response.Groups[i]
		groups[i] = LearningGroup{
			Name:          group.Name,
			Language:      group.Language,
			Resources:     group.Resources,
			QuestionCount: len(group.Quiz),
		}
	}
	return groups
}

// quizView projects the machine state onto the content tree. Indices arrive
// already clamped, so lookups here only guard against empty levels.
func quizView(response *knowledge.Response, state quiz.State) *QuizView {
	view := &QuizView{
		GroupIndex:      state.GroupIndex,
		GroupCount:      len(response.Groups),
		QuestionIndex:   state.QuestionIndex,
		OptionIndex:     state.OptionIndex,
		Feedback:        state.Feedback,
		AwaitingAdvance: state.AwaitingAdvance,
		Options:         []string{},
	}

	if state.GroupIndex >= len(response.Groups) {
		return view
	}
	group := &response.Groups[state.GroupIndex]
	view.GroupName = group.Name
	view.Language = group.Language
	view.QuestionCount = len(group.Quiz)
	if state.SummaryRevealed {
		view.Summary = group.Summary
	}

	if state.QuestionIndex >= len(group.Quiz) {
		return view
	}
	question := &group.Quiz[state.QuestionIndex]
	view.Question = question.Question
	for _, option := range question.Options {
		view.Options = append(view.Options, option.Selection)
	}
	return view
}
