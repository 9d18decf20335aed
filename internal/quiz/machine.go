// Package quiz drives navigation and answer evaluation over a generated
// knowledge response: nested group/question/option cursors with wrap-around,
// auto-skip of groups without questions, and first-attempt recording.
package quiz

import (
	"fmt"

	"github.com/coderecall/backend/internal/domain/knowledge"
)

// Action identifies one navigation or selection input.
type Action string

const (
	ActionNextGroup        Action = "next_group"
	ActionPreviousGroup    Action = "previous_group"
	ActionNextQuestion     Action = "next_question"
	ActionPreviousQuestion Action = "previous_question"
	ActionNextOption       Action = "next_option"
	ActionPreviousOption   Action = "previous_option"
	ActionSelectOption     Action = "select_option"
)

// ParseAction maps a wire-level action name onto an Action.
func ParseAction(name string) (Action, bool) {
	switch Action(name) {
	case ActionNextGroup, ActionPreviousGroup,
		ActionNextQuestion, ActionPreviousQuestion,
		ActionNextOption, ActionPreviousOption,
		ActionSelectOption:
		return Action(name), true
	default:
		return "", false
	}
}

// AttemptRecorder persists the outcome of an evaluated selection. Only the
// first record per (session date, group, question) is kept by the store.
type AttemptRecorder interface {
	RecordFirstAttempt(sessionDate, group, language, question string, correct bool) error
}

// State is a read-only snapshot of the machine's cursors and feedback.
type State struct {
	GroupIndex      int    `json:"group_index"`
	QuestionIndex   int    `json:"question_index"`
	OptionIndex     int    `json:"option_index"`
	Feedback        string `json:"feedback,omitempty"`
	SummaryRevealed bool   `json:"summary_revealed"`
	AwaitingAdvance bool   `json:"awaiting_advance"`
}

// Machine walks one knowledge response. It is not safe for concurrent use;
// callers serialize access.
type Machine struct {
	response *knowledge.Response
	recorder AttemptRecorder

	sessionDate string

	groupIndex    int
	questionIndex int
	optionIndex   int

	feedback        string
	summaryRevealed bool
	awaitingAdvance bool
}

// NewMachine creates a machine over the given response. The recorder may be
// nil, in which case selections are evaluated but not persisted.
func NewMachine(response *knowledge.Response, sessionDate string, recorder AttemptRecorder) *Machine {
	return &Machine{
		response:    response,
		recorder:    recorder,
		sessionDate: sessionDate,
	}
}

// Reset replaces the walked response and rewinds all cursors.
func (m *Machine) Reset(response *knowledge.Response, sessionDate string) {
	m.response = response
	m.sessionDate = sessionDate
	m.groupIndex = 0
	m.questionIndex = 0
	m.optionIndex = 0
	m.resetFeedback()
}

// State returns the current snapshot.
func (m *Machine) State() State {
	return State{
		GroupIndex:      m.groupIndex,
		QuestionIndex:   m.questionIndex,
		OptionIndex:     m.optionIndex,
		Feedback:        m.feedback,
		SummaryRevealed: m.summaryRevealed,
		AwaitingAdvance: m.awaitingAdvance,
	}
}

// Apply performs one input. While a correct answer is awaiting advance, any
// input is reinterpreted as moving to the next question. The returned error
// only ever comes from the attempt recorder; navigation itself cannot fail.
func (m *Machine) Apply(action Action) error {
	if m.awaitingAdvance {
		m.awaitingAdvance = false
		m.nextQuestion()
		return nil
	}

	switch action {
	case ActionNextGroup:
		m.nextGroup()
	case ActionPreviousGroup:
		m.previousGroup()
	case ActionNextQuestion:
		m.nextQuestion()
	case ActionPreviousQuestion:
		m.previousQuestion()
	case ActionNextOption:
		m.nextOption()
	case ActionPreviousOption:
		m.previousOption()
	case ActionSelectOption:
		return m.selectOption()
	}
	return nil
}

func (m *Machine) nextGroup() {
	total := m.totalGroups()
	if total == 0 {
		return
	}
	m.groupIndex = (m.groupIndex + 1) % total
	m.questionIndex = 0
	m.optionIndex = 0
	m.resetFeedback()
	m.ensureIndices()
}

func (m *Machine) previousGroup() {
	total := m.totalGroups()
	if total == 0 {
		return
	}
	if m.groupIndex == 0 {
		m.groupIndex = total - 1
	} else {
		m.groupIndex--
	}
	m.questionIndex = 0
	m.optionIndex = 0
	m.resetFeedback()
	m.ensureIndices()
}

func (m *Machine) nextQuestion() {
	if quizLen := m.groupQuizLen(m.groupIndex); quizLen > 0 && m.questionIndex+1 < quizLen {
		m.questionIndex++
		m.optionIndex = 0
		m.resetFeedback()
		m.ensureIndices()
		return
	}

	if m.moveToNextGroupWithQuiz() {
		return
	}

	m.resetFeedback()
	m.ensureIndices()
}

func (m *Machine) previousQuestion() {
	if quizLen := m.groupQuizLen(m.groupIndex); quizLen > 0 && m.questionIndex > 0 {
		m.questionIndex--
		m.optionIndex = 0
		m.resetFeedback()
		m.ensureIndices()
		return
	}

	if m.moveToPreviousGroupWithQuiz() {
		return
	}

	m.resetFeedback()
	m.ensureIndices()
}

func (m *Machine) nextOption() {
	count := m.activeOptionCount()
	if count == 0 {
		return
	}
	m.optionIndex = (m.optionIndex + 1) % count
	m.resetFeedback()
	m.ensureIndices()
}

func (m *Machine) previousOption() {
	count := m.activeOptionCount()
	if count == 0 {
		return
	}
	if m.optionIndex == 0 {
		m.optionIndex = count - 1
	} else {
		m.optionIndex--
	}
	m.resetFeedback()
	m.ensureIndices()
}

func (m *Machine) selectOption() error {
	group, question := m.activeQuestion()
	if question == nil {
		return nil
	}
	if len(question.Options) == 0 {
		m.feedback = "No answer options available for this question."
		m.summaryRevealed = false
		m.awaitingAdvance = false
		return nil
	}

	selected := m.optionIndex
	if selected > len(question.Options)-1 {
		selected = len(question.Options) - 1
	}
	label := string(rune('A' + selected%26))
	correct := question.Options[selected].IsCorrectAnswer

	if correct {
		m.feedback = fmt.Sprintf("Correct! Option %s is the right answer.", label)
		m.summaryRevealed = true
		m.awaitingAdvance = true
	} else {
		m.feedback = "Not quite. Try another option."
		m.summaryRevealed = false
		m.awaitingAdvance = false
	}

	if m.recorder == nil {
		return nil
	}
	return m.recorder.RecordFirstAttempt(m.sessionDate, group.Name, group.Language, question.Question, correct)
}

// ensureIndices clamps every cursor back into bounds after the response or a
// cursor changed. Any clamp also clears stale feedback.
func (m *Machine) ensureIndices() {
	total := m.totalGroups()
	if total == 0 {
		m.groupIndex = 0
		m.questionIndex = 0
		m.optionIndex = 0
		m.resetFeedback()
		return
	}

	if m.groupIndex >= total {
		m.groupIndex = 0
		m.resetFeedback()
	}

	quizLen := m.groupQuizLen(m.groupIndex)
	if quizLen == 0 {
		m.questionIndex = 0
		m.optionIndex = 0
		m.resetFeedback()
		return
	}
	if m.questionIndex >= quizLen {
		m.questionIndex = 0
		m.resetFeedback()
	}

	optionLen := m.activeOptionCount()
	if optionLen == 0 {
		m.optionIndex = 0
		m.resetFeedback()
	} else if m.optionIndex >= optionLen {
		m.optionIndex = 0
		m.resetFeedback()
	}
}

func (m *Machine) moveToNextGroupWithQuiz() bool {
	total := m.totalGroups()
	if total == 0 {
		return false
	}
	for offset := 1; offset <= total; offset++ {
		next := (m.groupIndex + offset) % total
		if m.groupQuizLen(next) > 0 {
			m.groupIndex = next
			m.questionIndex = 0
			m.optionIndex = 0
			m.resetFeedback()
			m.ensureIndices()
			return true
		}
	}
	return false
}

func (m *Machine) moveToPreviousGroupWithQuiz() bool {
	total := m.totalGroups()
	if total == 0 {
		return false
	}
	for offset := 1; offset <= total; offset++ {
		prev := (m.groupIndex + total - offset) % total
		if quizLen := m.groupQuizLen(prev); quizLen > 0 {
			m.groupIndex = prev
			m.questionIndex = quizLen - 1
			m.optionIndex = 0
			m.resetFeedback()
			m.ensureIndices()
			return true
		}
	}
	return false
}

func (m *Machine) totalGroups() int {
	if m.response == nil {
		return 0
	}
	return len(m.response.Groups)
}

func (m *Machine) groupQuizLen(index int) int {
	if m.response == nil || index < 0 || index >= len(m.response.Groups) {
		return 0
	}
	return len(m.response.Groups[index].Quiz)
}

func (m *Machine) activeQuestion() (*knowledge.Group, *knowledge.QuizItem) {
	if m.response == nil || m.groupIndex >= len(m.response.Groups) {
		return nil, nil
	}
	group := &m.response.Groups[m.groupIndex]
	if m.questionIndex >= len(group.Quiz) {
		return group, nil
	}
	return group, &group.Quiz[m.questionIndex]
}

func (m *Machine) activeOptionCount() int {
	_, question := m.activeQuestion()
	if question == nil {
		return 0
	}
	return len(question.Options)
}

func (m *Machine) resetFeedback() {
	m.feedback = ""
	m.summaryRevealed = false
	m.awaitingAdvance = false
}
