package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coderecall/backend/internal/domain/knowledge"
)

// schemaJSON is the structured-output contract sent with every request. The
// model must return a top-level "response" array of knowledge groups.
const schemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "response": {
      "type": "array",
      "description": "a list of responses",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "knowledge_type_group": {
            "type": "string",
            "description": "a name that describes the type of knowledge for grouping purposes. These should be specific for example: data types, modules, libraries, frameworks, macros, keywords, etc"
          },
          "summary": {
            "type": "string",
            "description": "a short description of the concept to learn"
          },
          "quiz": {
            "type": "array",
            "description": "a list of questions related to the subject",
            "items": {
              "type": "object",
              "additionalProperties": false,
              "properties": {
                "question": {
                  "type": "string",
                  "description": "a question about this knowledge type that will test the user"
                },
                "options": {
                  "type": "array",
                  "description": "a multi-choice list of answer options",
                  "items": {
                    "type": "object",
                    "additionalProperties": false,
                    "properties": {
                      "selection": {
                        "type": "string",
                        "description": "one of the multiple choice selection answers to the question"
                      },
                      "is_correct_answer": {
                        "type": "boolean",
                        "description": "this should be set to true if it's the correct answer to the question"
                      }
                    },
                    "required": [
                      "selection",
                      "is_correct_answer"
                    ]
                  }
                }
              },
              "required": [
                "question",
                "options"
              ]
            }
          },
          "resources": {
            "type": "array",
            "description": "an optional list of resources that can help the user learn more about the knowledge subject",
            "items": {
              "type": "string"
            }
          },
          "knowledge_type_language": {
            "type": "string",
            "description": "the language that this quiz is related to"
          }
        },
        "required": [
          "knowledge_type_group",
          "summary",
          "quiz",
          "resources",
          "knowledge_type_language"
        ]
      }
    }
  },
  "required": [
    "response"
  ]
}`

const fence = "```"

var systemPromptTemplate = `You are a precise curriculum planner that helps the student learn about coding concepts.
You will produce a quiz that will teach the user about a coding concept based on the provided context.
You should base each quiz item on the provided context to help the student learn new language features or concepts.
All context examples include bash scripts. The contents of the bash updates are what should be considered for quiz updates.
Example full bash script json:
` + fence + `
{'command':['bash','-lc','apply_patch <<'PATCH'
*** Begin Patch
*** Update File: src/parser.go
@@
-	var count int
+	var count int64
 }
*** End Patch
PATCH
'],'workdir':'/home/user/project'}
` + fence + `
Example subset of what should actually be considered for learning content:
` + fence + `
Update File: src/parser.go
@@
-	var count int
+	var count int64
 }
` + fence + `
All questions should be language specific and should not quiz based on implementation of the specific program.
You should return a minimum of {MIN_QUIZ_QUESTIONS} quiz questions.
Return JSON that strictly matches the provided schema.`

// SystemPrompt renders the planner instructions with the configured minimum
// question count.
func SystemPrompt(minQuestions int) string {
	return strings.ReplaceAll(systemPromptTemplate, "{MIN_QUIZ_QUESTIONS}", strconv.Itoa(minQuestions))
}

// UserPrompt embeds the schema and the markdown session summary.
func UserPrompt(summary string) string {
	return fmt.Sprintf(
		"Analyse the following session summary and produce a JSON payload that adheres to the provided schema. Return only valid JSON with double-quoted keys and strings.\n\nSchema:\n%sjson\n%s\n%s\n\nSession summary:\n%smarkdown\n%s\n%s",
		fence, schemaJSON, fence, fence, summary, fence,
	)
}

// GenerateError is returned when generation fails so the caller can
// distinguish between "model returned a bad payload" and "model was
// unreachable."
type GenerateError struct {
	Reason  string
	Wrapped error
}

func (e *GenerateError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerateError) Unwrap() error {
	return e.Wrapped
}

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint with
// a strict JSON schema response format.
type OpenAIGenerator struct {
	baseURL      string // e.g. "https://api.openai.com/v1"
	model        string // e.g. "gpt-5-mini"
	apiKey       string
	minQuestions int
	client       *http.Client // reused across calls
}

// Compile-time check: *OpenAIGenerator satisfies the Generator interface.
var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates a generator against the given endpoint.
func NewOpenAIGenerator(baseURL, model, apiKey string, minQuestions int) *OpenAIGenerator {
	return &OpenAIGenerator{
		baseURL:      strings.TrimRight(baseURL, "/"),
		model:        model,
		apiKey:       apiKey,
		minQuestions: minQuestions,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ============================================================================
// Generator interface
// ============================================================================

func (g *OpenAIGenerator) Generate(ctx context.Context, summary string) (*knowledge.Response, error) {
	payload := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt(g.minQuestions)},
			{Role: "user", Content: UserPrompt(summary)},
		},
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaFormat{
				Name:   "structured_learning_response",
				Schema: json.RawMessage(schemaJSON),
				Strict: true,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &GenerateError{Reason: "failed to marshal request", Wrapped: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, &GenerateError{Reason: "failed to create request", Wrapped: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &GenerateError{Reason: "request failed", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &GenerateError{Reason: fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))}
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, &GenerateError{Reason: "failed to decode response body", Wrapped: err}
	}

	content, err := extractContent(&chat)
	if err != nil {
		return nil, err
	}

	response, err := knowledge.Parse([]byte(content))
	if err != nil {
		return nil, &GenerateError{Reason: "invalid JSON in assistant content", Wrapped: err}
	}
	return response, nil
}

// ============================================================================
// Wire types
// ============================================================================

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string           `json:"type"`
	JSONSchema jsonSchemaFormat `json:"json_schema"`
}

type jsonSchemaFormat struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// extractContent pulls the assistant text out of the first choice. Content
// arrives either as a plain string or as an array of typed parts.
func extractContent(chat *chatResponse) (string, error) {
	if len(chat.Choices) == 0 {
		return "", &GenerateError{Reason: "response contained no choices"}
	}

	raw := chat.Choices[0].Message.Content
	if len(raw) == 0 {
		return "", &GenerateError{Reason: "assistant message had no content"}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text == "" {
			return "", &GenerateError{Reason: "assistant message had no content"}
		}
		return text, nil
	}

	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", &GenerateError{Reason: "unrecognized assistant content shape", Wrapped: err}
	}

	var joined strings.Builder
	for _, part := range parts {
		joined.WriteString(part.Text)
	}
	if joined.Len() == 0 {
		return "", &GenerateError{Reason: "assistant message had no content"}
	}
	return joined.String(), nil
}
