package utils

import (
	"errors"
	"fmt"
)

// ErrNoJSONObject is returned when a text contains no JSON object
var ErrNoJSONObject = errors.New("no JSON object found in text")

// ExtractJSONObject returns the first balanced JSON object embedded in
// text. Models sometimes wrap their JSON payload in conversational
// prose, so the extraction tracks brace depth and skips braces inside
// string literals.
func ExtractJSONObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	if start >= 0 {
		return "", fmt.Errorf("unterminated JSON object in text: %w", ErrNoJSONObject)
	}
	return "", ErrNoJSONObject
}
