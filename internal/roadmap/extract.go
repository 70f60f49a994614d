package roadmap

import (
	"encoding/json"
	"strings"
)

const malformedSnippetMax = 200

// ExtractJSON pulls the first well-formed JSON object out of raw model text.
// The text may carry markdown fences, prose before or after the object, or
// both. Resolution order:
//
//  1. trim whitespace and strip a surrounding ``` / ```json fence
//  2. try parsing the remainder as-is
//  3. slice from the first '{' to the last '}' inclusive and retry
//
// Note the outermost-brace slice can swallow stray braces from trailing
// commentary; that matches the observable behavior the callers depend on.
func ExtractJSON(raw string) (map[string]any, error) {
	text := stripFence(strings.TrimSpace(raw))

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		slice := text[start : end+1]
		if err := json.Unmarshal([]byte(slice), &obj); err == nil {
			return obj, nil
		}
	}

	snippet := raw
	if len(snippet) > malformedSnippetMax {
		snippet = snippet[:malformedSnippetMax]
	}
	return nil, &MalformedResponseError{Snippet: snippet}
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := text[3:]
	// Optional language tag, case-insensitive.
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}
	body = strings.TrimLeft(body, " \t\r\n")
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
