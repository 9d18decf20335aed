package generator_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coderecall/backend/internal/generator"
)

func TestSystemPrompt_EmbedsMinimumQuestionCount(t *testing.T) {
	prompt := generator.SystemPrompt(7)
	if !strings.Contains(prompt, "a minimum of 7 quiz questions") {
		t.Errorf("minimum not rendered: %q", prompt)
	}
	if strings.Contains(prompt, "{MIN_QUIZ_QUESTIONS}") {
		t.Error("placeholder left unexpanded")
	}
}

func TestUserPrompt_EmbedsSchemaAndSummary(t *testing.T) {
	prompt := generator.UserPrompt("# Session Output - 2024-05-01")
	if !strings.Contains(prompt, `"knowledge_type_group"`) {
		t.Error("schema missing from prompt")
	}
	if !strings.Contains(prompt, "# Session Output - 2024-05-01") {
		t.Error("summary missing from prompt")
	}
}

func TestGenerate_ParsesStringContent(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}

		payload := `{"response":[{"knowledge_type_group":"Slices","summary":"s","quiz":[{"question":"q","options":[]}],"resources":[],"knowledge_type_language":"Go"}]}`
		body := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": payload}},
			},
		}
		json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	g := generator.NewOpenAIGenerator(server.URL, "test-model", "test-key", 5)
	response, err := g.Generate(context.Background(), "summary text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Groups) != 1 || response.Groups[0].Name != "Slices" {
		t.Fatalf("unexpected response: %+v", response)
	}

	format, ok := captured["response_format"].(map[string]any)
	if !ok || format["type"] != "json_schema" {
		t.Errorf("request missing strict schema format: %v", captured["response_format"])
	}
}

func TestGenerate_JoinsContentParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": []any{
					map[string]any{"type": "output_text", "text": `{"response":[{"knowledge_type_group":`},
					map[string]any{"type": "output_text", "text": `"Traits"}]}`},
				}}},
			},
		}
		json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	g := generator.NewOpenAIGenerator(server.URL, "test-model", "test-key", 5)
	response, err := g.Generate(context.Background(), "summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Groups) != 1 || response.Groups[0].Name != "Traits" {
		t.Fatalf("unexpected response: %+v", response)
	}
}

func TestGenerate_SurfacesEndpointFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g := generator.NewOpenAIGenerator(server.URL, "test-model", "test-key", 5)
	_, err := g.Generate(context.Background(), "summary")

	var genErr *generator.GenerateError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerateError, got %v", err)
	}
	if !strings.Contains(genErr.Reason, "503") {
		t.Errorf("status missing from reason: %q", genErr.Reason)
	}
}

func TestGenerate_RejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	g := generator.NewOpenAIGenerator(server.URL, "test-model", "test-key", 5)
	if _, err := g.Generate(context.Background(), "summary"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
