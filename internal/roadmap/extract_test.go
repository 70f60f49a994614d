package roadmap

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	obj, err := ExtractJSON(`{"a": 1, "b": "two"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["a"] != float64(1) || obj["b"] != "two" {
		t.Fatalf("unexpected object: %v", obj)
	}
}

func TestExtractJSON_FencedVariants(t *testing.T) {
	cases := map[string]string{
		"plain fence":     "```\n{\"a\": 1}\n```",
		"json fence":      "```json\n{\"a\": 1}\n```",
		"uppercase fence": "```JSON\n{\"a\": 1}\n```",
		"leading prose":   "Here is the result:\n{\"a\": 1}",
		"trailing prose":  "{\"a\": 1}\nHope this helps!",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			obj, err := ExtractJSON(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if obj["a"] != float64(1) {
				t.Fatalf("unexpected object: %v", obj)
			}
		})
	}
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	raw := "The plan: {\"outer\": {\"inner\": [1, 2]}, \"n\": 3}"
	obj, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, ok := obj["outer"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested object, got %T", obj["outer"])
	}
	if _, ok := outer["inner"]; !ok {
		t.Fatalf("nested keys lost: %v", outer)
	}
}

func TestExtractJSON_Malformed(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":       "",
		"whitespace":  "   \n\t  ",
		"prose only":  "I could not produce JSON for that request.",
		"broken json": `{"a": 1,,}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractJSON(raw)
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
		})
	}
}

func TestExtractJSON_SnippetIsTruncated(t *testing.T) {
	raw := "x" + strings.Repeat("y", 500)
	_, err := ExtractJSON(raw)
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
	if len(malformed.Snippet) != malformedSnippetMax {
		t.Fatalf("unexpected snippet length: got=%d want=%d", len(malformed.Snippet), malformedSnippetMax)
	}
	if !strings.HasPrefix(raw, malformed.Snippet) {
		t.Fatalf("snippet is not a prefix of the raw text")
	}
}

func TestExtractJSON_IdempotentOnExtractedText(t *testing.T) {
	raw := "```json\n{\"a\": 1}\n```"
	first, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Re-extracting the canonical serialization must not change anything.
	second, err := ExtractJSON(`{"a": 1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first["a"] != second["a"] {
		t.Fatalf("extraction not stable: %v vs %v", first, second)
	}
}
