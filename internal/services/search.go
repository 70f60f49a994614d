package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/atlaslearn/atlas-backend/internal/pkg/errors"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/platform/apierr"
	"github.com/atlaslearn/atlas-backend/internal/platform/llm"
	"github.com/atlaslearn/atlas-backend/internal/platform/qdrant"
	"github.com/atlaslearn/atlas-backend/internal/repos"
	"github.com/atlaslearn/atlas-backend/internal/resources"
)

const defaultSearchTopK = 10

// SearchFilters narrows a search to a subject and/or unit.
type SearchFilters struct {
	Subject string `json:"subject,omitempty"`
	Unit    string `json:"unit,omitempty"`
}

// SearchMeta describes one search invocation in the response envelope.
type SearchMeta struct {
	Query      string    `json:"query"`
	SearchType string    `json:"search_type"`
	Returned   int       `json:"returned"`
	TopK       int       `json:"top_k"`
	Timestamp  time.Time `json:"timestamp"`
	Warning    string    `json:"warning,omitempty"`
}

// SearchResult is the canonical results-plus-meta envelope.
type SearchResult struct {
	Results []resources.Resource `json:"results"`
	Meta    SearchMeta           `json:"meta"`
}

type SearchService interface {
	Search(ctx context.Context, searchType, query string, topK int, filters SearchFilters) (SearchResult, error)
}

type searchService struct {
	log     *logger.Logger
	docs    repos.DocumentRepo
	llm     llm.Client
	vectors qdrant.VectorStore
}

func NewSearchService(log *logger.Logger, docs repos.DocumentRepo, llmClient llm.Client, vectors qdrant.VectorStore) SearchService {
	return &searchService{
		log:     log.With("service", "SearchService"),
		docs:    docs,
		llm:     llmClient,
		vectors: vectors,
	}
}

// Search runs a semantic search when the vector store is configured and
// falls back to keyword matching against the document store otherwise.
// Empty results are reported through meta, never as an error.
func (ss *searchService) Search(ctx context.Context, searchType, query string, topK int, filters SearchFilters) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, apierr.New(http.StatusBadRequest, "invalid_request",
			fmt.Errorf("query is required: %w", pkgerrors.ErrInvalidArgument))
	}
	kind, err := kindForSearchType(searchType)
	if err != nil {
		return SearchResult{}, err
	}
	if topK <= 0 {
		topK = defaultSearchTopK
	}

	results, err := ss.semanticSearch(ctx, kind, query, topK, filters)
	if err != nil {
		ss.log.Warn("semantic search unavailable, falling back to keyword search", "error", err)
		results = nil
	}
	if results == nil {
		results, err = ss.keywordSearch(ctx, kind, query, topK, filters)
		if err != nil {
			return SearchResult{}, apierr.New(http.StatusInternalServerError, "search_failed", err)
		}
	}

	meta := SearchMeta{
		Query:      query,
		SearchType: searchType,
		Returned:   len(results),
		TopK:       topK,
		Timestamp:  time.Now().UTC(),
	}
	if len(results) == 0 {
		meta.Warning = fmt.Sprintf("no %s results matched the query", searchType)
		results = []resources.Resource{}
	}
	return SearchResult{Results: results, Meta: meta}, nil
}

func (ss *searchService) semanticSearch(ctx context.Context, kind, query string, topK int, filters SearchFilters) ([]resources.Resource, error) {
	if ss.vectors == nil {
		return nil, fmt.Errorf("vector store not configured: %w", pkgerrors.ErrUnavailable)
	}
	vectors, err := ss.llm.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed query returned no vector: %w", pkgerrors.ErrUnavailable)
	}
	matches, err := ss.vectors.Query(ctx, vectors[0], topK*3)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	out := make([]resources.Resource, 0, topK)
	for _, m := range matches {
		payload := m.Payload
		if payload == nil {
			continue
		}
		if k, _ := payload["kind"].(string); k != kind {
			continue
		}
		if !matchesFilters(payload, filters) {
			continue
		}
		r := resources.Normalize(payload, kind, resources.SubScores{Semantic: m.Score})
		if r.ID == "" {
			r.ID = m.DocID
		}
		out = append(out, r)
		if len(out) == topK {
			break
		}
	}
	return out, nil
}

func (ss *searchService) keywordSearch(ctx context.Context, kind, query string, topK int, filters SearchFilters) ([]resources.Resource, error) {
	docs, err := ss.docs.Search(ctx, nil, repos.DocumentQuery{
		Kind:     kind,
		Subject:  filters.Subject,
		Unit:     filters.Unit,
		Concepts: strings.Fields(strings.ToLower(query)),
		Limit:    topK,
	})
	if err != nil {
		return nil, fmt.Errorf("document search: %w", err)
	}
	out := make([]resources.Resource, 0, len(docs))
	for _, d := range docs {
		out = append(out, resources.FromDocument(*d, resources.SubScores{
			Semantic:    0.5,
			Pedagogical: d.PedagogicalScore,
		}))
	}
	return out, nil
}

func matchesFilters(payload map[string]any, filters SearchFilters) bool {
	if filters.Subject != "" {
		s, _ := payload["subject"].(string)
		if !strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(filters.Subject)) {
			return false
		}
	}
	if filters.Unit != "" {
		u := fmt.Sprintf("%v", payload["unit"])
		if strings.TrimSpace(u) != strings.TrimSpace(filters.Unit) {
			return false
		}
	}
	return true
}

// kindForSearchType maps the route segment to a stored document kind. The
// pdf route searches slide-deck material.
func kindForSearchType(searchType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(searchType)) {
	case "pdf":
		return resources.KindSlide, nil
	case "book":
		return resources.KindBook, nil
	case "video":
		return resources.KindVideo, nil
	default:
		return "", apierr.New(http.StatusBadRequest, "invalid_search_type",
			fmt.Errorf("unknown search type %q: %w", searchType, pkgerrors.ErrInvalidArgument))
	}
}
