package summary_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coderecall/backend/internal/session"
	"github.com/coderecall/backend/internal/summary"
)

func TestRender_EmptyLoadGetsPlaceholder(t *testing.T) {
	writer := summary.NewWriter(t.TempDir(), summary.NewRules(5))
	load := &session.Load{SessionDate: "2024-05-01"}

	doc := writer.Render(load)

	if !strings.Contains(doc, "# Session Output - 2024-05-01") {
		t.Errorf("missing heading in %q", doc)
	}
	if !strings.Contains(doc, "_No event content, arguments, or output available._") {
		t.Errorf("missing empty placeholder in %q", doc)
	}
}

func TestRender_TruncationFooterOnlyWhenEventsDropped(t *testing.T) {
	writer := summary.NewWriter(t.TempDir(), summary.NewRules(2))
	load := &session.Load{
		SessionDate: "2024-05-01",
		Events: []session.Event{
			{Timestamp: "t1", PayloadType: "function_call", Output: "one"},
			{Timestamp: "t2", PayloadType: "function_call", Output: "two"},
			{Timestamp: "t3", PayloadType: "function_call", Output: "three"},
		},
	}

	doc := writer.Render(load)
	if !strings.Contains(doc, "_Limited to the most recent 2 matching events._") {
		t.Errorf("expected truncation footer in %q", doc)
	}
	if strings.Contains(doc, "one") {
		t.Error("oldest event should have been dropped")
	}

	load.Events = load.Events[1:]
	doc = writer.Render(load)
	if strings.Contains(doc, "_Limited to the most recent") {
		t.Errorf("unexpected truncation footer in %q", doc)
	}
}

func TestRender_InvocationsPreferArguments(t *testing.T) {
	writer := summary.NewWriter(t.TempDir(), summary.NewRules(5))
	load := &session.Load{
		SessionDate: "2024-05-01",
		Events: []session.Event{
			{Timestamp: "t1", PayloadType: "function_call", Arguments: `{"cmd":"ls"}`, Output: "listing"},
			{Timestamp: "t2", PayloadType: "function_call_output", Output: "done"},
			{Timestamp: "t3", PayloadType: "tool_use:Bash", Arguments: `{"command":"pwd"}`},
		},
	}

	doc := writer.Render(load)

	if !strings.Contains(doc, "Arguments:\n{\"cmd\":\"ls\"}") {
		t.Errorf("call should show its arguments, got %q", doc)
	}
	if strings.Contains(doc, "Output:\nlisting") {
		t.Error("call output should be suppressed when arguments exist")
	}
	if !strings.Contains(doc, "Output:\ndone") {
		t.Errorf("call output event should show its output, got %q", doc)
	}
	if !strings.Contains(doc, "Arguments:\n{\"command\":\"pwd\"}") {
		t.Errorf("tool invocation should show its arguments, got %q", doc)
	}
}

func TestWriteDigest_PersistsUnderLatestFileStem(t *testing.T) {
	dir := t.TempDir()
	writer := summary.NewWriter(dir, summary.NewRules(5))
	load := &session.Load{
		SessionDate: "2024-05-01",
		LatestFile:  "/home/user/.codex/sessions/2024/05/01/rollout-abc.jsonl",
		Events: []session.Event{
			{Timestamp: "t1", PayloadType: "function_call", Output: "hello"},
		},
	}

	artifact := writer.WriteDigest(load, true)
	if artifact.Error != "" {
		t.Fatalf("unexpected write error: %s", artifact.Error)
	}

	want := filepath.Join(dir, "rollout-abc.md")
	if artifact.Path != want {
		t.Fatalf("artifact path = %q, want %q", artifact.Path, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(data) != artifact.Content {
		t.Error("persisted content differs from rendered content")
	}
}

func TestWriteDigest_RenderOnlyWhenNotPersisting(t *testing.T) {
	dir := t.TempDir()
	writer := summary.NewWriter(dir, summary.NewRules(5))
	load := &session.Load{SessionDate: "2024-05-01"}

	artifact := writer.WriteDigest(load, false)
	if artifact.Path != "" {
		t.Errorf("expected no path, got %q", artifact.Path)
	}
	if artifact.Content == "" {
		t.Error("content should be rendered regardless")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files written, found %d", len(entries))
	}
}
