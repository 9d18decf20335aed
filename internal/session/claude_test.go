package session_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coderecall/backend/internal/session"
)

func TestClaudeFindLatestFile_WalksNestedDirectories(t *testing.T) {
	root := t.TempDir()
	older := filepath.Join(root, "project-a", "session-1.jsonl")
	newer := filepath.Join(root, "project-b", "nested", "session-2.json")
	ignored := filepath.Join(root, "project-b", "README.md")
	writeFile(t, older, "")
	writeFile(t, newer, "")
	writeFile(t, ignored, "")

	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatalf("failed to set mtime: %v", err)
	}
	if err := os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatalf("failed to set mtime: %v", err)
	}

	source := session.NewClaudeCodeSource(root)
	latest, err := source.FindLatestFile(source.SessionDir(time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != newer {
		t.Errorf("expected %s, got %s", newer, latest)
	}
}

func TestClaudeSessionDate_FromPathSegments(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "2024", "05", "01", "session.jsonl")
	writeFile(t, path, "")

	source := session.NewClaudeCodeSource(root)
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	if date := source.SessionDate(path, now); date != "2024-05-01" {
		t.Errorf("expected date from path segments, got %s", date)
	}
}

func TestClaudeSessionDate_FallsBackToModTime(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "project-a", "session.jsonl")
	writeFile(t, path, "")

	modified := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, modified, modified); err != nil {
		t.Fatalf("failed to set mtime: %v", err)
	}

	source := session.NewClaudeCodeSource(root)
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	if date := source.SessionDate(path, now); date != "2024-03-10" {
		t.Errorf("expected modification date, got %s", date)
	}
}

func TestClaudeParseEvents_KeepsToolInvocations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	writeFile(t, path, `{"timestamp":"2024-05-01T10:00:00Z","cwd":"/home/dev/project","gitBranch":"main","sessionId":"abc-123","message":{"id":"msg-1","model":"claude","role":"assistant","content":[{"type":"text","text":"let me check"},{"type":"tool_use","id":"tool-1","name":"Bash","input":{"command":"ls -la"}}]}}
{"timestamp":"2024-05-01T10:00:05Z","message":{"id":"msg-2","role":"user","content":[{"type":"tool_use","input":{"path":"main.go"}}]}}
`)

	source := session.NewClaudeCodeSource(dir)
	events, err := source.ParseEvents(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.PayloadType != "tool_use:Bash" {
		t.Errorf("expected payload type with invocation name, got %s", first.PayloadType)
	}
	if first.CallID != "tool-1" {
		t.Errorf("expected entry-level call id, got %s", first.CallID)
	}
	if !strings.Contains(first.Arguments, "ls -la") {
		t.Errorf("expected arguments to carry the tool input, got %q", first.Arguments)
	}

	joined := strings.Join(first.ContentTexts, "\n")
	for _, fragment := range []string{"cwd: /home/dev/project", "branch: main", "session: abc-123", "model: claude", "role: assistant"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("expected context fragment %q in %q", fragment, joined)
		}
	}

	second := events[1]
	if second.PayloadType != "tool_use" {
		t.Errorf("expected bare payload type without a name, got %s", second.PayloadType)
	}
	if second.CallID != "msg-2" {
		t.Errorf("expected fallback to message id, got %s", second.CallID)
	}
}

func TestClaudeParseEvents_MalformedRecordsAreSoftErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	writeFile(t, path, `{"timestamp":"t1","message":{"id":"m1","content":[{"type":"tool_use","id":"t1","name":"Read"}]}}
{broken
`)

	source := session.NewClaudeCodeSource(dir)
	events, err := source.ParseEvents(path)
	if err == nil {
		t.Fatal("expected soft error for malformed record")
	}
	if len(events) != 1 {
		t.Errorf("expected 1 parsed event, got %d", len(events))
	}
}
