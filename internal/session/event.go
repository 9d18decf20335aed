package session

import "encoding/json"

// Event is one normalized log entry, independent of which tool produced it.
// Instances are built once during parsing and never mutated afterwards.
type Event struct {
	Timestamp    string   `json:"timestamp"`
	PayloadType  string   `json:"payload_type"`
	CallID       string   `json:"call_id,omitempty"`
	Arguments    string   `json:"arguments,omitempty"`
	Output       string   `json:"output,omitempty"`
	ContentTexts []string `json:"content_texts,omitempty"`
}

// formatValue renders a raw JSON value as display text. String values go
// through one more decoding pass because tools often double-encode their
// output; everything else is kept as compact JSON.
func formatValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return decodeOutputString(s)
	}
	return compactJSON(raw)
}

// decodeOutputString unwraps one level of a {"output": ...} envelope when the
// string itself parses as JSON, unescapes JSON-quoted strings, and otherwise
// passes the value through verbatim.
func decodeOutputString(raw string) string {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	switch value := parsed.(type) {
	case map[string]any:
		inner, ok := value["output"]
		if !ok {
			return marshalCompact(value)
		}
		if text, ok := inner.(string); ok {
			return text
		}
		return marshalCompact(inner)
	case string:
		return value
	default:
		return marshalCompact(value)
	}
}

func compactJSON(raw json.RawMessage) string {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return string(raw)
	}
	return marshalCompact(parsed)
}

func marshalCompact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
