package knowledge_test

import (
	"math/rand"
	"testing"

	"github.com/coderecall/backend/internal/domain/knowledge"
)

func TestParse_MissingFieldsDefaultToZeroValues(t *testing.T) {
	response, err := knowledge.Parse([]byte(`{"response":[{"knowledge_type_group":"Slices"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(response.Groups))
	}
	group := response.Groups[0]
	if group.Name != "Slices" || group.Summary != "" || len(group.Quiz) != 0 {
		t.Errorf("unexpected group: %+v", group)
	}
}

func TestParse_RejectsMalformedPayload(t *testing.T) {
	if _, err := knowledge.Parse([]byte(`{"response": [`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestTotalQuestionsAndHasContent(t *testing.T) {
	response := &knowledge.Response{
		Groups: []knowledge.Group{
			{Name: "Empty"},
			{Name: "Full", Quiz: []knowledge.QuizItem{{Question: "a"}, {Question: "b"}}},
		},
	}
	if got := response.TotalQuestions(); got != 2 {
		t.Errorf("TotalQuestions() = %d, want 2", got)
	}
	if !response.HasContent() {
		t.Error("HasContent() should be true with questions present")
	}
	if (&knowledge.Response{Groups: []knowledge.Group{{Name: "Empty"}}}).HasContent() {
		t.Error("HasContent() should be false without questions")
	}
}

func TestShuffleOptions_KeepsTheSameOptions(t *testing.T) {
	options := []knowledge.QuizOption{
		{Selection: "a"}, {Selection: "b"},
		{Selection: "c", IsCorrectAnswer: true}, {Selection: "d"},
	}
	response := &knowledge.Response{
		Groups: []knowledge.Group{{
			Quiz: []knowledge.QuizItem{{Question: "q", Options: append([]knowledge.QuizOption(nil), options...)}},
		}},
	}

	response.ShuffleOptions(rand.New(rand.NewSource(1)))

	shuffled := response.Groups[0].Quiz[0].Options
	if len(shuffled) != len(options) {
		t.Fatalf("option count changed: %d", len(shuffled))
	}
	seen := make(map[string]bool)
	correct := 0
	for _, option := range shuffled {
		seen[option.Selection] = true
		if option.IsCorrectAnswer {
			correct++
		}
	}
	if len(seen) != 4 || correct != 1 {
		t.Errorf("shuffle changed the option set: %+v", shuffled)
	}
}
