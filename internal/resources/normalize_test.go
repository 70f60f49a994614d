package resources

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalize_StringifiesIDs(t *testing.T) {
	cases := []struct {
		name string
		id   any
		want string
	}{
		{"string id", "abc-123", "abc-123"},
		{"integer id", float64(42), "42"},
		{"missing id", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Normalize(map[string]any{"id": tc.id, "title": "t"}, KindBook, SubScores{})
			if r.ID != tc.want {
				t.Fatalf("unexpected id: got=%q want=%q", r.ID, tc.want)
			}
		})
	}
}

func TestNormalize_MapsSourceAliases(t *testing.T) {
	doc := map[string]any{
		"_id":         "x1",
		"name":        "Intro to OS",
		"link":        "https://example.com/os",
		"description": "short summary",
	}
	r := Normalize(doc, KindVideo, SubScores{})
	if r.ID != "x1" || r.Title != "Intro to OS" || r.URL != "https://example.com/os" || r.Snippet != "short summary" {
		t.Fatalf("alias mapping failed: %+v", r)
	}
	if r.ContentType != KindVideo {
		t.Fatalf("unexpected content type: %q", r.ContentType)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	doc := map[string]any{
		"id":           float64(7),
		"title":        "OSTEP",
		"subject":      "Operating Systems",
		"unit":         "2",
		"key_concepts": []any{"scheduling", "threads"},
		"view_count":   float64(1234),
	}
	scores := SubScores{Semantic: 0.8, Pedagogical: 0.5}
	first := Normalize(doc, KindBook, scores)

	// Re-normalize the canonical record: must be a no-op.
	raw, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTrip map[string]any
	if err := json.Unmarshal(raw, &roundTrip); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second := Normalize(roundTrip, KindBook, scores)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalize_OmitsMissingOptionalFields(t *testing.T) {
	r := Normalize(map[string]any{"id": "1", "title": "t"}, KindSlide, SubScores{})
	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, forbidden := range []string{"isbn", "url", "duration_seconds", "channel_name", "page_count"} {
		if _, ok := m[forbidden]; ok {
			t.Fatalf("missing optional field %q serialized: %v", forbidden, m)
		}
	}
}

func TestNormalize_RelevanceUsesScores(t *testing.T) {
	r := Normalize(map[string]any{"id": "1", "title": "t"}, KindBook, SubScores{Semantic: 1})
	if r.SemanticScore != 1 {
		t.Fatalf("semantic score dropped: %f", r.SemanticScore)
	}
	if r.RelevanceScore != Relevance(SubScores{Semantic: 1}) {
		t.Fatalf("relevance mismatch: %f", r.RelevanceScore)
	}
}
