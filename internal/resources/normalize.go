package resources

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlaslearn/atlas-backend/internal/types"
)

// Normalize projects a heterogeneous document map to the canonical Resource
// shape. Identifiers that arrive as non-string JSON values are stringified.
// The mapping is idempotent: feeding an already-normalized record back
// through produces the same Resource.
func Normalize(doc map[string]any, kind string, scores SubScores) Resource {
	r := Resource{
		ID:             stringifyID(firstOf(doc, "id", "_id", "doc_id")),
		Title:          asString(firstOf(doc, "title", "name")),
		ContentType:    kind,
		Source:         asString(doc["source"]),
		URL:            asString(firstOf(doc, "url", "link")),
		Author:         asString(firstOf(doc, "author", "authors")),
		Subject:        asString(doc["subject"]),
		Unit:           asString(doc["unit"]),
		ISBN:           asString(doc["isbn"]),
		Snippet:        asString(firstOf(doc, "snippet", "description", "summary")),
		ChannelName:    asString(doc["channel_name"]),
		DurationSecs:   asInt(doc["duration_seconds"]),
		IsPlaylist:     asBool(doc["is_playlist"]),
		ViewCount:      asInt64(doc["view_count"]),
		PageCount:      asInt(doc["page_count"]),
		PublicationYr:  asInt(doc["publication_year"]),
		KeyConcepts:    asStringSlice(doc["key_concepts"]),
		SemanticScore:  clamp01(scores.Semantic),
		RelevanceScore: Relevance(scores),
	}
	if kind == "" {
		r.ContentType = asString(doc["content_type"])
	}
	return r
}

// FromDocument maps a stored document row to a Resource.
func FromDocument(d types.Document, scores SubScores) Resource {
	r := Resource{
		ID:             d.ID.String(),
		Title:          d.Title,
		ContentType:    d.Kind,
		Source:         d.Source,
		URL:            d.URL,
		Author:         d.Author,
		Subject:        d.Subject,
		Unit:           d.Unit,
		ISBN:           d.ISBN,
		Snippet:        d.Snippet,
		ChannelName:    d.ChannelName,
		DurationSecs:   d.DurationSeconds,
		IsPlaylist:     d.IsPlaylist,
		ViewCount:      d.ViewCount,
		PageCount:      d.PageCount,
		PublicationYr:  d.PublicationYear,
		SemanticScore:  clamp01(scores.Semantic),
		RelevanceScore: Relevance(scores),
	}
	if len(d.KeyConcepts) > 0 {
		var concepts []string
		if err := json.Unmarshal(d.KeyConcepts, &concepts); err == nil {
			r.KeyConcepts = concepts
		}
	}
	return r
}

func firstOf(doc map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringifyID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case fmt.Stringer:
		return id.String()
	case float64:
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
		return fmt.Sprintf("%v", id)
	default:
		return fmt.Sprintf("%v", id)
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []any:
		parts := asStringSlice(s)
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(s, ", ")
	default:
		return ""
	}
}

func asStringSlice(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
