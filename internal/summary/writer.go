package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coderecall/backend/internal/session"
)

// Writer renders the filtered session events into a markdown digest and
// optionally persists it under the output directory.
type Writer struct {
	outputDir string
	rules     Rules
}

// Artifact is the result of rendering one digest. Content is always
// populated; Path is set only when the digest was persisted.
type Artifact struct {
	Path    string
	Content string
	Error   string
}

func NewWriter(outputDir string, rules Rules) *Writer {
	return &Writer{outputDir: outputDir, rules: rules}
}

// WriteDigest builds the markdown digest for the given load and, when
// persist is set, writes it next to earlier artifacts. Write failures are
// advisory: the rendered content is returned regardless.
func (w *Writer) WriteDigest(load *session.Load, persist bool) Artifact {
	artifact := Artifact{Content: w.Render(load)}
	if !persist {
		return artifact
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		artifact.Error = fmt.Sprintf("%s: %v", w.outputDir, err)
		return artifact
	}

	name := fmt.Sprintf("session-%s.md", load.SessionDate)
	if load.LatestFile != "" {
		stem := strings.TrimSuffix(filepath.Base(load.LatestFile), filepath.Ext(load.LatestFile))
		if stem != "" {
			name = stem + ".md"
		}
	}

	path := filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, []byte(artifact.Content), 0o644); err != nil {
		artifact.Error = fmt.Sprintf("%s: %v", path, err)
		return artifact
	}

	artifact.Path = path
	return artifact
}

// Render produces the markdown document for the load's filtered events.
func (w *Writer) Render(load *session.Load) string {
	var doc strings.Builder
	fmt.Fprintf(&doc, "# Session Output - %s\n\n", load.SessionDate)

	selected := w.rules.SelectEvents(load.Events)
	for i := range selected {
		event := &selected[i]
		fmt.Fprintf(&doc, "## %s - %s\n\n", event.Timestamp, event.PayloadType)
		for _, text := range event.ContentTexts {
			doc.WriteString(text)
			doc.WriteString("\n\n")
		}

		arguments := strings.TrimSpace(event.Arguments)
		output := strings.TrimSpace(event.Output)

		// Invocations show their arguments when present; everything else
		// leads with the output.
		if event.PayloadType == "function_call" || strings.HasPrefix(event.PayloadType, "tool_use") {
			if arguments != "" {
				doc.WriteString("Arguments:\n")
				doc.WriteString(event.Arguments)
				doc.WriteString("\n\n")
			} else if output != "" {
				doc.WriteString("Output:\n")
				doc.WriteString(event.Output)
				doc.WriteString("\n\n")
			}
		} else if output != "" {
			doc.WriteString("Output:\n")
			doc.WriteString(event.Output)
			doc.WriteString("\n\n")
		}
	}

	if len(selected) == 0 {
		doc.WriteString("_No event content, arguments, or output available._\n")
	} else if len(selected) == w.rules.MaxEvents() && len(selected) < len(load.Events) {
		fmt.Fprintf(&doc, "_Limited to the most recent %d matching events._\n", w.rules.MaxEvents())
	}

	return doc.String()
}
