// Package jsonx extracts JSON objects from unreliable LLM output. Models
// asked for bare JSON still wrap it in prose or markdown fences often
// enough that a tolerant extraction pass is required before decoding.
package jsonx

import (
	"encoding/json"
	"strings"
)

// ExtractObject returns the first top-level JSON object found in raw.
// It tries a direct parse first, then scans for a brace-balanced {...}
// substring, tracking nesting depth and string literals so that braces
// inside quoted values do not terminate the object early. The second
// return value is false when no parseable object exists.
func ExtractObject(raw string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(raw)
	if candidate := json.RawMessage(trimmed); isObject(candidate) {
		return candidate, true
	}

	start := strings.IndexByte(trimmed, '{')
	for start >= 0 {
		if end, ok := scanBalanced(trimmed, start); ok {
			candidate := json.RawMessage(trimmed[start : end+1])
			if isObject(candidate) {
				return candidate, true
			}
			// Balanced but not valid JSON; keep looking past it.
			next := strings.IndexByte(trimmed[start+1:], '{')
			if next < 0 {
				break
			}
			start += 1 + next
			continue
		}
		break
	}
	return nil, false
}

// scanBalanced returns the index of the brace closing the object opened at
// start, respecting string literals and escape sequences.
func scanBalanced(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func isObject(candidate json.RawMessage) bool {
	var probe map[string]json.RawMessage
	return json.Unmarshal(candidate, &probe) == nil
}
