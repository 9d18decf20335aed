package session_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/coderecall/backend/internal/session"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestCodexFindLatestFile_PicksNewestByModTime(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	source := session.NewCodexSource(root)
	dir := source.SessionDir(now)

	older := filepath.Join(dir, "rollout-older.jsonl")
	newer := filepath.Join(dir, "rollout-newer.jsonl")
	ignored := filepath.Join(dir, "notes.txt")
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

	latest, err := source.FindLatestFile(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != newer {
		t.Errorf("expected %s, got %s", newer, latest)
	}
}

func TestCodexFindLatestFile_MissingDirectoryIsHardError(t *testing.T) {
	source := session.NewCodexSource(t.TempDir())
	dir := source.SessionDir(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	latest, err := source.FindLatestFile(dir)
	if latest != "" {
		t.Errorf("expected no file, got %s", latest)
	}
	if err == nil {
		t.Error("expected error for missing session directory")
	}
}

func TestCodexParseEvents_KeepsRelevantPayloadTypes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rollout.jsonl")
	writeFile(t, path, `{"timestamp":"2024-05-01T10:00:00Z","type":"response_item","payload":{"type":"function_call","call_id":"call-1","arguments":"{\"command\":[\"bash\",\"-lc\",\"ls\"]}"}}
{"timestamp":"2024-05-01T10:00:01Z","type":"response_item","payload":{"type":"message","content":[{"text":"hello"}]}}
{"timestamp":"2024-05-01T10:00:02Z","type":"response_item","payload":{"type":"function_call_output","call_id":"call-1","output":"{\"output\":\"file-a\\nfile-b\\n\"}"}}
`)

	source := session.NewCodexSource(dir)
	events, err := source.ParseEvents(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].PayloadType != "function_call" {
		t.Errorf("expected function_call, got %s", events[0].PayloadType)
	}
	if events[0].CallID != "call-1" {
		t.Errorf("expected call id call-1, got %s", events[0].CallID)
	}
	if events[1].Output != "file-a\nfile-b\n" {
		t.Errorf("expected unwrapped output envelope, got %q", events[1].Output)
	}
}

func TestCodexParseEvents_DecodesStringValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rollout.jsonl")
	// Three output flavors: nested envelope, JSON-quoted string, plain text.
	writeFile(t, path, `{"timestamp":"t1","payload":{"type":"function_call_output","output":"{\"output\":\"inner\"}"}}
{"timestamp":"t2","payload":{"type":"function_call_output","output":"\"quoted\""}}
{"timestamp":"t3","payload":{"type":"function_call_output","output":"plain text, not JSON"}}
`)

	source := session.NewCodexSource(dir)
	events, err := source.ParseEvents(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	want := []string{"inner", "quoted", "plain text, not JSON"}
	for i, expected := range want {
		if events[i].Output != expected {
			t.Errorf("event %d: expected output %q, got %q", i, expected, events[i].Output)
		}
	}
}

func TestCodexParseEvents_MalformedLinesAreSoftErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rollout.jsonl")
	writeFile(t, path, `{"timestamp":"t1","payload":{"type":"function_call","call_id":"c1","arguments":"ls"}}
this is not json
{"timestamp":"t2","payload":{"type":"function_call","call_id":"c2","arguments":"pwd"}}
`)

	source := session.NewCodexSource(dir)
	events, err := source.ParseEvents(path)
	if err == nil {
		t.Fatal("expected soft error for malformed line")
	}
	if len(events) != 2 {
		t.Errorf("expected parsing to continue past bad line, got %d events", len(events))
	}
}

func TestCodexParseEvents_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rollout.jsonl")
	writeFile(t, path, `{"timestamp":"t1","payload":{"type":"function_call","call_id":"c1","arguments":"ls","content":[{"text":"first"},{"text":"second"}]}}
{"timestamp":"t2","payload":{"type":"function_call_output","call_id":"c1","output":"done"}}
`)

	source := session.NewCodexSource(dir)
	first, err := source.ParseEvents(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := source.ParseEvents(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical event sequences across parses")
	}
}
