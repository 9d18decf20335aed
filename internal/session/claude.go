package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ClaudeCodeSource reads Claude Code session logs. Files are not sharded by
// date; discovery walks the whole tree under one root and the session date is
// recovered from the file's path when possible.
type ClaudeCodeSource struct {
	label string
	root  string
}

var _ Source = (*ClaudeCodeSource)(nil)

func NewClaudeCodeSource(root string) *ClaudeCodeSource {
	return &ClaudeCodeSource{
		label: SourceClaudeCode.Label(),
		root:  root,
	}
}

func (s *ClaudeCodeSource) Label() string { return s.label }

func (s *ClaudeCodeSource) SessionDir(time.Time) string { return s.root }

// SessionDate extracts YYYY-MM-DD from the last three directory segments of
// the file's path. Logs written outside a date-sharded layout fall back to
// the file's modification date, then to today.
func (s *ClaudeCodeSource) SessionDate(path string, now time.Time) string {
	if path == "" {
		return now.Format("2006-01-02")
	}
	if date, ok := dateFromPath(filepath.Dir(path)); ok {
		return date
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime().Format("2006-01-02")
	}
	return now.Format("2006-01-02")
}

// FindLatestFile walks the tree under dir with an explicit directory stack
// and returns the single newest .jsonl or .json file anywhere below it.
func (s *ClaudeCodeSource) FindLatestFile(dir string) (string, error) {
	var issues []string
	var latestPath string
	var latestMod time.Time

	stack := []string{dir}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(current)
		if err != nil {
			if current == dir {
				return "", fmt.Errorf("%s: %v", current, err)
			}
			issues = append(issues, fmt.Sprintf("%s: %v", current, err))
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(current, entry.Name())
			if entry.IsDir() {
				stack = append(stack, path)
				continue
			}
			info, err := entry.Info()
			if err != nil {
				issues = append(issues, fmt.Sprintf("%s (%s): %v", current, entry.Name(), err))
				continue
			}
			if !info.Mode().IsRegular() || !isClaudeSessionLogFile(path) {
				continue
			}
			if latestPath == "" || info.ModTime().After(latestMod) {
				latestMod = info.ModTime()
				latestPath = path
			}
		}
	}

	return latestPath, joinIssues(issues)
}

// ParseEvents reads newline-delimited records and emits one event per
// actionable tool invocation in each record's message content. Context fields
// travel along as extra content texts so the digest keeps the surrounding
// session information.
func (s *ClaudeCodeSource) ParseEvents(path string) ([]Event, error) {
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

		var raw rawClaudeRecord
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			issues = append(issues, fmt.Sprintf("%s:#%d: %v", path, lineNo, err))
			continue
		}
		if raw.Message == nil {
			continue
		}

		timestamp := raw.Timestamp
		if timestamp == "" {
			timestamp = "<unknown>"
		}

		for _, entry := range raw.Message.Content {
			if !isActionableInvocation(entry.Type) {
				continue
			}

			payloadType := entry.Type
			if entry.Name != "" {
				payloadType = entry.Type + ":" + entry.Name
			}
			callID := entry.ID
			if callID == "" {
				callID = raw.Message.ID
			}

			event := Event{
				Timestamp:    timestamp,
				PayloadType:  payloadType,
				CallID:       callID,
				ContentTexts: contextTexts(&raw),
			}
			if entry.Input != nil {
				event.Arguments = formatValue(entry.Input)
			}

			events = append(events, event)
		}
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("%s (line %d): %v", path, lineNo+1, err)
	}

	return events, joinIssues(issues)
}

func isActionableInvocation(entryType string) bool {
	return entryType == "tool_use"
}

func isClaudeSessionLogFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, ".jsonl") || strings.EqualFold(ext, ".json")
}

// contextTexts renders the record's context fields as content fragments.
func contextTexts(raw *rawClaudeRecord) []string {
	var texts []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			texts = append(texts, label+": "+value)
		}
	}
	add("cwd", raw.Cwd)
	add("branch", raw.GitBranch)
	add("session", raw.SessionID)
	if raw.Message != nil {
		add("model", raw.Message.Model)
		add("role", raw.Message.Role)
	}
	return texts
}

// dateFromPath checks whether the last three segments of dir form a
// YYYY/MM/DD date.
func dateFromPath(dir string) (string, bool) {
	segments := strings.Split(filepath.ToSlash(dir), "/")
	if len(segments) < 3 {
		return "", false
	}
	year := segments[len(segments)-3]
	month := segments[len(segments)-2]
	day := segments[len(segments)-1]
	if !allDigits(year, 4) || !allDigits(month, 2) || !allDigits(day, 2) {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", year+"-"+month+"-"+day); err != nil {
		return "", false
	}
	return year + "-" + month + "-" + day, true
}

func allDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type rawClaudeRecord struct {
	Timestamp string            `json:"timestamp"`
	Cwd       string            `json:"cwd"`
	GitBranch string            `json:"gitBranch"`
	SessionID string            `json:"sessionId"`
	Message   *rawClaudeMessage `json:"message"`
}

type rawClaudeMessage struct {
	ID      string           `json:"id"`
	Model   string           `json:"model"`
	Role    string           `json:"role"`
	Content []rawClaudeEntry `json:"content"`
}

type rawClaudeEntry struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}
