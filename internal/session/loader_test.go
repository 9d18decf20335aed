package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/coderecall/backend/internal/session"
)

// stubSource is a canned Source for loader tests.
type stubSource struct {
	label    string
	latest   string
	findErr  error
	events   []session.Event
	parseErr error
}

func (s *stubSource) Label() string               { return s.label }
func (s *stubSource) SessionDir(time.Time) string { return "/stub/" + s.label }

func (s *stubSource) FindLatestFile(string) (string, error) {
	return s.latest, s.findErr
}
func (s *stubSource) SessionDate(_ string, now time.Time) string {
	return now.Format("2006-01-02")
}
func (s *stubSource) ParseEvents(string) ([]session.Event, error) {
	return s.events, s.parseErr
}

func TestLoader_FirstSourceWithResultsWins(t *testing.T) {
	empty := &stubSource{label: "first"}
	full := &stubSource{
		label:  "second",
		latest: "/stub/second/log.jsonl",
		events: []session.Event{{Timestamp: "t1", PayloadType: "function_call"}},
	}

	loader := session.NewLoader(empty, full)
	load := loader.LoadAt(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	if load.Source != "second" {
		t.Errorf("expected second source to win, got %s", load.Source)
	}
	if len(load.Events) != 1 {
		t.Errorf("expected 1 event, got %d", len(load.Events))
	}
	if load.SessionDate != "2024-05-01" {
		t.Errorf("expected session date 2024-05-01, got %s", load.SessionDate)
	}
}

func TestLoader_MergesSkippedSourceErrorsIntoWinner(t *testing.T) {
	failing := &stubSource{label: "first", findErr: errors.New("directory unreadable")}
	full := &stubSource{
		label:    "second",
		latest:   "/stub/second/log.jsonl",
		parseErr: errors.New("bad line"),
		events:   []session.Event{{Timestamp: "t1"}},
	}

	loader := session.NewLoader(failing, full)
	load := loader.LoadAt(time.Now())

	want := "bad line | first: directory unreadable"
	if load.Error != want {
		t.Errorf("expected merged error %q, got %q", want, load.Error)
	}
}

func TestLoader_NoResultsReturnsLastAttemptWithAccumulatedErrors(t *testing.T) {
	first := &stubSource{label: "first", findErr: errors.New("missing root")}
	second := &stubSource{label: "second", findErr: errors.New("also missing")}

	loader := session.NewLoader(first, second)
	load := loader.LoadAt(time.Now())

	if load.Source != "second" {
		t.Errorf("expected last attempted source, got %s", load.Source)
	}
	if load.HasResults() {
		t.Error("expected an empty fallback load")
	}
	want := "first: missing root | second: also missing"
	if load.Error != want {
		t.Errorf("expected accumulated errors %q, got %q", want, load.Error)
	}
}

func TestLoader_NoSourcesFallsBackToUnknown(t *testing.T) {
	loader := session.NewLoader()
	load := loader.LoadAt(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	if load.Source != "unknown" {
		t.Errorf("expected unknown source, got %s", load.Source)
	}
	if load.SessionDate != "2024-05-01" {
		t.Errorf("expected today's date label, got %s", load.SessionDate)
	}
}

func TestNewSource_FactoryByKind(t *testing.T) {
	codex, err := session.NewSource(session.SourceCodex, "/tmp/codex")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if codex.Label() != "Codex CLI" {
		t.Errorf("expected Codex CLI label, got %s", codex.Label())
	}

	claude, err := session.NewSource(session.SourceClaudeCode, "/tmp/claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claude.Label() != "Claude Code" {
		t.Errorf("expected Claude Code label, got %s", claude.Label())
	}

	if _, err := session.NewSource("vim", "/tmp"); err == nil {
		t.Error("expected error for unknown source kind")
	}
}
