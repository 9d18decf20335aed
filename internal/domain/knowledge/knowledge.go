// Package knowledge holds the structured learning content produced by the
// generation endpoint: a list of knowledge groups, each bundling a summary,
// a multiple-choice quiz, and optional further-reading resources.
package knowledge

import (
	"encoding/json"
	"math/rand"
)

// Response is the tree returned by a generation run. It is replaced
// wholesale each time a new response is generated.
type Response struct {
	Groups []Group `json:"response"`
}

// Group is one topic bundle inside a response.
type Group struct {
	Name      string     `json:"knowledge_type_group"`
	Summary   string     `json:"summary"`
	Quiz      []QuizItem `json:"quiz"`
	Resources []string   `json:"resources"`
	Language  string     `json:"knowledge_type_language"`
}

// QuizItem is one multiple-choice question.
type QuizItem struct {
	Question string       `json:"question"`
	Options  []QuizOption `json:"options"`
}

// QuizOption is one selectable answer.
type QuizOption struct {
	Selection       string `json:"selection"`
	IsCorrectAnswer bool   `json:"is_correct_answer"`
}

// Parse decodes a generation payload. Missing fields decode to their zero
// values so callers always see non-nil semantics through the accessors.
func Parse(data []byte) (*Response, error) {
	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// TotalQuestions counts the questions across all groups.
func (r *Response) TotalQuestions() int {
	total := 0
	for i := range r.Groups {
		total += len(r.Groups[i].Quiz)
	}
	return total
}

// HasContent reports whether any group carries at least one question.
func (r *Response) HasContent() bool {
	for i := range r.Groups {
		if len(r.Groups[i].Quiz) > 0 {
			return true
		}
	}
	return false
}

// ShuffleOptions randomizes the answer order of every question so the
// correct option does not sit in a fixed position.
func (r *Response) ShuffleOptions(rng *rand.Rand) {
	for g := range r.Groups {
		for q := range r.Groups[g].Quiz {
			options := r.Groups[g].Quiz[q].Options
			rng.Shuffle(len(options), func(i, j int) {
				options[i], options[j] = options[j], options[i]
			})
		}
	}
}
