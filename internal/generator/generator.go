package generator

import (
	"context"

	"github.com/coderecall/backend/internal/domain/knowledge"
)

// Generator turns a rendered session summary into structured learning
// content. Implementations may call an LLM or return canned results (for
// tests).
type Generator interface {
	// Generate returns the knowledge-group tree for the given markdown
	// summary, or an error when the collaborator fails.
	Generate(ctx context.Context, summary string) (*knowledge.Response, error)
}
