package session

import (
	"fmt"
	"strings"
	"time"
)

// SourceKind selects which on-disk log format a Loader reads.
type SourceKind string

const (
	SourceCodex      SourceKind = "codex"
	SourceClaudeCode SourceKind = "claude_code"
)

// Label returns the human-readable name used in error prefixes and load
// metadata.
func (k SourceKind) Label() string {
	switch k {
	case SourceCodex:
		return "Codex CLI"
	case SourceClaudeCode:
		return "Claude Code"
	default:
		return string(k)
	}
}

// Source discovers and parses one tool's session logs. Implementations report
// soft problems as non-nil errors alongside valid results; the caller treats
// every error as advisory text.
type Source interface {
	Label() string

	// SessionDir resolves the directory discovery starts from for the
	// given moment.
	SessionDir(now time.Time) string

	// FindLatestFile returns the newest log file under dir, or "" when
	// none exists. A non-empty path and a non-nil error may be returned
	// together when some entries could not be inspected.
	FindLatestFile(dir string) (string, error)

	// SessionDate derives the session's date label (YYYY-MM-DD) for the
	// discovered file.
	SessionDate(path string, now time.Time) string

	// ParseEvents reads events from the file. Malformed records become a
	// joined soft error next to the successfully parsed events; an I/O
	// failure aborts the scan and returns partial results plus the error.
	ParseEvents(path string) ([]Event, error)
}

// NewSource builds the adapter for the given kind rooted at root.
func NewSource(kind SourceKind, root string) (Source, error) {
	switch kind {
	case SourceCodex:
		return NewCodexSource(root), nil
	case SourceClaudeCode:
		return NewClaudeCodeSource(root), nil
	default:
		return nil, fmt.Errorf("unknown session source %q", kind)
	}
}

// mergeErrorText appends msg to existing with the " | " separator, never
// replacing a message that is already present.
func mergeErrorText(existing, msg string) string {
	if msg == "" {
		return existing
	}
	if existing == "" {
		return msg
	}
	return existing + " | " + msg
}

func joinIssues(issues []string) error {
	if len(issues) == 0 {
		return nil
	}
	return softError(strings.Join(issues, " | "))
}

// softError marks an advisory problem: results alongside it are still valid.
type softError string

func (e softError) Error() string { return string(e) }
