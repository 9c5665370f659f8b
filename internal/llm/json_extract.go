package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencePattern matches markdown code fences with an optional language tag.
var fencePattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// ExtractJSON pulls a JSON document out of a model response that may be
// wrapped in markdown. Fenced ```json blocks (or untagged fences) are tried
// first, then the first balanced raw object or array in the text.
func ExtractJSON(response string) (string, error) {
	if s, ok := fromFence(response); ok {
		return s, nil
	}
	if s, ok := fromRawText(response); ok {
		return s, nil
	}
	return "", fmt.Errorf("no valid JSON found in response")
}

// ExtractJSONAs extracts JSON and unmarshals it into T.
func ExtractJSONAs[T any](response string) (T, error) {
	var out T

	raw, err := ExtractJSON(response)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal extracted JSON: %w", err)
	}
	return out, nil
}

func fromFence(response string) (string, bool) {
	for _, match := range fencePattern.FindAllStringSubmatch(response, -1) {
		if len(match) < 3 {
			continue
		}
		lang := strings.ToLower(match[1])
		if lang != "" && lang != "json" {
			continue
		}
		content := strings.TrimSpace(match[2])
		if (strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[")) && json.Valid([]byte(content)) {
			return content, true
		}
	}
	return "", false
}

func fromRawText(response string) (string, bool) {
	start, closer := firstOpener(response)
	if start < 0 {
		return "", false
	}

	candidate := balancedPrefix(response[start:], closer)
	if candidate != "" && json.Valid([]byte(candidate)) {
		return candidate, true
	}
	return "", false
}

// firstOpener finds the earliest { or [ and returns its index with the
// matching closing byte.
func firstOpener(s string) (int, byte) {
	obj := strings.IndexByte(s, '{')
	arr := strings.IndexByte(s, '[')

	switch {
	case obj >= 0 && (arr < 0 || obj < arr):
		return obj, '}'
	case arr >= 0:
		return arr, ']'
	default:
		return -1, 0
	}
}

// balancedPrefix scans s (which starts at an opener) and returns the prefix
// up to the matching close bracket, tracking nesting and string escapes.
func balancedPrefix(s string, closer byte) string {
	opener := s[0]
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
