package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CodexSource reads Codex CLI session logs. Files are sharded by date under
// root/YYYY/MM/DD and contain one JSON record per line.
type CodexSource struct {
	label string
	root  string
}

var _ Source = (*CodexSource)(nil)

func NewCodexSource(root string) *CodexSource {
	return &CodexSource{
		label: SourceCodex.Label(),
		root:  root,
	}
}

func (s *CodexSource) Label() string { return s.label }

func (s *CodexSource) SessionDir(now time.Time) string {
	return filepath.Join(s.root, now.Format("2006"), now.Format("01"), now.Format("02"))
}

func (s *CodexSource) SessionDate(_ string, now time.Time) string {
	return now.Format("2006-01-02")
}

// FindLatestFile scans one directory and keeps the newest .jsonl file by
// modification time. Unreadable entries become soft issues; an unreadable
// directory fails the scan outright.
func (s *CodexSource) FindLatestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %v", dir, err)
	}

	var issues []string
	var latestPath string
	var latestMod time.Time

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s (%s): %v", dir, entry.Name(), err))
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isCodexSessionLogFile(path, info) {
			continue
		}
		if latestPath == "" || info.ModTime().After(latestMod) {
			latestMod = info.ModTime()
			latestPath = path
		}
	}

	return latestPath, joinIssues(issues)
}

// ParseEvents reads newline-delimited JSON records and keeps the two
// recognized payload types. Malformed lines are collected as one joined soft
// error; a read failure returns the events parsed so far plus a hard error.
func (s *CodexSource) ParseEvents(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var events []Event
	var issues []string
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		var raw rawCodexEvent
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			issues = append(issues, fmt.Sprintf("%s:#%d: %v", path, lineNo, err))
			continue
		}
		if raw.Payload == nil || !isRelevantPayloadType(raw.Payload.Type) {
			continue
		}

		timestamp := raw.Timestamp
		if timestamp == "" {
			timestamp = "<unknown>"
		}

		event := Event{
			Timestamp:   timestamp,
			PayloadType: raw.Payload.Type,
			CallID:      raw.Payload.CallID,
		}
		if raw.Payload.Arguments != nil {
			event.Arguments = formatValue(raw.Payload.Arguments)
		}
		if raw.Payload.Output != nil {
			event.Output = formatValue(raw.Payload.Output)
		}
		for _, fragment := range raw.Payload.Content {
			if fragment.Text != nil {
				event.ContentTexts = append(event.ContentTexts, *fragment.Text)
			}
		}

		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("%s (line %d): %v", path, lineNo+1, err)
	}

	return events, joinIssues(issues)
}

func isRelevantPayloadType(payloadType string) bool {
	return payloadType == "function_call" || payloadType == "function_call_output"
}

func isCodexSessionLogFile(path string, info fs.FileInfo) bool {
	return info.Mode().IsRegular() && strings.EqualFold(filepath.Ext(path), ".jsonl")
}

type rawCodexEvent struct {
	Timestamp string           `json:"timestamp"`
	Payload   *rawCodexPayload `json:"payload"`
}

type rawCodexPayload struct {
	Type      string            `json:"type"`
	CallID    string            `json:"call_id"`
	Output    json.RawMessage   `json:"output"`
	Arguments json.RawMessage   `json:"arguments"`
	Content   []rawCodexContent `json:"content"`
}

type rawCodexContent struct {
	Text *string `json:"text"`
}
