package utils

import (
	"encoding/json"
	"strings"
)

// Models wrap their JSON in markdown fences, prepend prose, and truncate
// mid-structure near token limits. The extractor below recovers a parseable
// document from all of those without knowing the schema: it seeks the first
// opening token, walks the text with a string-aware depth scanner, discards
// trailing noise once the root closes, and closes whatever is still open
// when the input ends early.

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// RepairJSONObject returns a syntactically closed JSON object candidate cut
// out of raw model text. It does not guarantee the candidate parses; callers
// go through ExtractJSONObject / DecodeJSONObject for that.
func RepairJSONObject(raw string) (string, error) {
	return repairDocument(raw, '{')
}

// RepairJSONArray is the array-rooted variant used for list responses.
func RepairJSONArray(raw string) (string, error) {
	return repairDocument(raw, '[')
}

func repairDocument(raw string, open byte) (string, error) {
	s := stripCodeFences(raw)

	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", NewMalformedResponseError("no JSON document found", s)
	}
	s = s[start:]

	braces, brackets := 0, 0
	inString, escaped := false, false
	end := -1

scan:
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '{':
			braces++
		case '}':
			braces--
			if open == '{' && braces == 0 {
				end = i
				break scan
			}
		case '[':
			brackets++
		case ']':
			brackets--
			if open == '[' && brackets == 0 {
				end = i
				break scan
			}
		}
	}

	if end >= 0 {
		// Anything past the matching close is trailing prose.
		return s[:end+1], nil
	}

	// Truncated mid-structure: close the open string first, then the
	// containers. Arrays nest inside objects in this schema, so brackets
	// close before braces for object-rooted documents and the other way
	// around for array-rooted ones.
	var b strings.Builder
	if inString {
		// A cut on a dangling backslash would escape the closing quote.
		if escaped {
			s = s[:len(s)-1]
		}
		b.WriteString(s)
		b.WriteByte('"')
	} else {
		// A cut right after a comma would leave a trailing comma once the
		// containers are closed.
		trimmed := strings.TrimRight(s, " \t\r\n")
		b.WriteString(strings.TrimSuffix(trimmed, ","))
	}
	if open == '{' {
		for ; brackets > 0; brackets-- {
			b.WriteByte(']')
		}
		for ; braces > 0; braces-- {
			b.WriteByte('}')
		}
	} else {
		for ; braces > 0; braces-- {
			b.WriteByte('}')
		}
		for ; brackets > 0; brackets-- {
			b.WriteByte(']')
		}
	}
	return b.String(), nil
}

// ExtractJSONObject repairs raw model text and parses it into a generic map.
func ExtractJSONObject(raw string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := DecodeJSONObject(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeJSONObject repairs raw model text and unmarshals the candidate into
// dst. Returns *MalformedResponseError when no valid document can be
// recovered.
func DecodeJSONObject(raw string, dst interface{}) error {
	candidate, err := RepairJSONObject(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(candidate), dst); err != nil {
		return NewMalformedResponseError(err.Error(), candidate)
	}
	return nil
}

// DecodeJSONArray is DecodeJSONObject for array-rooted responses.
func DecodeJSONArray(raw string, dst interface{}) error {
	candidate, err := RepairJSONArray(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(candidate), dst); err != nil {
		return NewMalformedResponseError(err.Error(), candidate)
	}
	return nil
}
