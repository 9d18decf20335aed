package summary

import (
	"strings"

	"github.com/coderecall/backend/internal/session"
)

const (
	executionErrorPrefix        = "execution error:"
	operationNotPermittedPhrase = "operation not permitted"
)

// Rules decides which events are worth including in the digest and how many
// of them to keep.
type Rules struct {
	maxEvents int
}

// NewRules creates inclusion rules keeping at most maxEvents events.
func NewRules(maxEvents int) Rules {
	return Rules{maxEvents: maxEvents}
}

// MaxEvents exposes the configured limit for callers that need to inspect it.
func (r Rules) MaxEvents() int {
	return r.maxEvents
}

// SelectEvents returns up to MaxEvents of the most recent entries satisfying
// ShouldInclude, in their original relative order. The list is walked from
// the newest end so the newest qualifying events survive when more than
// MaxEvents qualify.
func (r Rules) SelectEvents(events []session.Event) []session.Event {
	var selected []session.Event
	for i := len(events) - 1; i >= 0 && len(selected) < r.maxEvents; i-- {
		if r.ShouldInclude(&events[i]) {
			selected = append(selected, events[i])
		}
	}
	// Restore chronological order.
	for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
		selected[i], selected[j] = selected[j], selected[i]
	}
	return selected
}

// ShouldInclude reports whether a single event belongs in the digest.
func (r Rules) ShouldInclude(event *session.Event) bool {
	return !includesExecutionError(event) &&
		!includesOperationNotPermitted(event) &&
		(hasContentTexts(event) || hasNonBlank(event.Arguments) || hasNonBlank(event.Output))
}

// includesExecutionError checks the first non-blank content text and the
// output for the execution-error prefix; either one excludes the event.
// Arguments are deliberately not scanned here.
func includesExecutionError(event *session.Event) bool {
	for _, text := range event.ContentTexts {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			if startsWithExecutionError(trimmed) {
				return true
			}
			break
		}
	}
	if trimmed := strings.TrimSpace(event.Output); trimmed != "" {
		return startsWithExecutionError(trimmed)
	}
	return false
}

func includesOperationNotPermitted(event *session.Event) bool {
	for _, text := range event.ContentTexts {
		if containsOperationNotPermitted(text) {
			return true
		}
	}
	return containsOperationNotPermitted(event.Output) ||
		containsOperationNotPermitted(event.Arguments)
}

func containsOperationNotPermitted(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	return strings.Contains(strings.ToLower(trimmed), operationNotPermittedPhrase)
}

func hasContentTexts(event *session.Event) bool {
	for _, text := range event.ContentTexts {
		if strings.TrimSpace(text) != "" {
			return true
		}
	}
	return false
}

func hasNonBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func startsWithExecutionError(value string) bool {
	return strings.HasPrefix(strings.ToLower(value), executionErrorPrefix)
}
