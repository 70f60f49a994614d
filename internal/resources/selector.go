package resources

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
	"github.com/atlaslearn/atlas-backend/internal/repos"
	"github.com/atlaslearn/atlas-backend/internal/types"
)

// Per-kind selection caps.
const (
	maxBooksPerPhase    = 1
	maxPlaylistsPerUnit = 2
	maxVideosPerUnit    = 1
	candidateLimit      = 200
)

// Selection is the outcome of one retrieval: the chosen resources ordered
// by descending relevance, plus an explanatory warning when nothing
// matched. Absence of matches is not an error.
type Selection struct {
	Resources []Resource
	Warning   string
}

// Selector queries the document store, drops off-topic records, scores the
// survivors, and returns a bounded, kind-specific slice. Results are cached
// briefly since phases within one roadmap build often repeat queries.
type Selector struct {
	docs  repos.DocumentRepo
	cache *ristretto.Cache[string, []Resource]
	log   *logger.Logger
	now   func() time.Time
}

func NewSelector(docs repos.DocumentRepo, log *logger.Logger) (*Selector, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, []Resource]{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("resources: init cache: %w", err)
	}
	return &Selector{docs: docs, cache: cache, log: log, now: time.Now}, nil
}

// Select retrieves resources of one kind for a subject/unit/concept set.
func (s *Selector) Select(ctx context.Context, kind, subject, unit string, concepts []string) (Selection, error) {
	key := cacheKey(kind, subject, unit, concepts)
	if cached, ok := s.cache.Get(key); ok {
		return Selection{Resources: cached, Warning: warningFor(cached, kind, subject)}, nil
	}

	docs, err := s.docs.Search(ctx, nil, repos.DocumentQuery{
		Kind:     kind,
		Subject:  subject,
		Unit:     unit,
		Concepts: concepts,
		Limit:    candidateLimit,
	})
	if err != nil {
		return Selection{}, fmt.Errorf("resources: search %s: %w", kind, err)
	}

	scored := make([]Resource, 0, len(docs))
	year := s.now().Year()
	for _, d := range docs {
		if Contaminated(subject, d.Title, d.Subject) {
			continue
		}
		scored = append(scored, FromDocument(*d, SubScores{
			Semantic:    conceptOverlap(*d, concepts),
			Pedagogical: clamp01(d.PedagogicalScore),
			Recency:     RecencyScore(d.PublicationYear, year),
			Popularity:  popularityFor(*d),
		}))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	picked := capByKind(scored, kind)
	s.cache.SetWithTTL(key, picked, 1, 5*time.Minute)
	s.log.Debug("resource selection", "kind", kind, "subject", subject, "candidates", len(docs), "picked", len(picked))
	return Selection{Resources: picked, Warning: warningFor(picked, kind, subject)}, nil
}

// capByKind applies the per-kind cardinality rules: one reference book,
// up to two playlists plus one standalone video, and every matching slide
// document with no cap.
func capByKind(sorted []Resource, kind string) []Resource {
	switch kind {
	case KindBook:
		if len(sorted) > maxBooksPerPhase {
			return sorted[:maxBooksPerPhase]
		}
		return sorted
	case KindVideo:
		out := make([]Resource, 0, maxPlaylistsPerUnit+maxVideosPerUnit)
		playlists, singles := 0, 0
		for _, r := range sorted {
			if r.IsPlaylist && playlists < maxPlaylistsPerUnit {
				out = append(out, r)
				playlists++
			} else if !r.IsPlaylist && singles < maxVideosPerUnit {
				out = append(out, r)
				singles++
			}
			if playlists == maxPlaylistsPerUnit && singles == maxVideosPerUnit {
				break
			}
		}
		return out
	default:
		return sorted
	}
}

func warningFor(picked []Resource, kind, subject string) string {
	if len(picked) > 0 {
		return ""
	}
	return fmt.Sprintf("no %s resources found for subject %q", kind, subject)
}

// conceptOverlap approximates semantic similarity as the fraction of query
// concepts present in the record's title or key concepts.
func conceptOverlap(d types.Document, concepts []string) float64 {
	if len(concepts) == 0 {
		return 0.5
	}
	haystack := strings.ToLower(d.Title + " " + string(d.KeyConcepts))
	hits := 0
	for _, c := range concepts {
		if strings.Contains(haystack, strings.ToLower(strings.TrimSpace(c))) {
			hits++
		}
	}
	return float64(hits) / float64(len(concepts))
}

func popularityFor(d types.Document) float64 {
	if d.PopularityScore > 0 {
		return clamp01(d.PopularityScore)
	}
	return PopularityScore(d.ViewCount)
}

func cacheKey(kind, subject, unit string, concepts []string) string {
	norm := make([]string, len(concepts))
	for i, c := range concepts {
		norm[i] = strings.ToLower(strings.TrimSpace(c))
	}
	sort.Strings(norm)
	return strings.ToLower(kind) + "|" + strings.ToLower(subject) + "|" + strings.ToLower(unit) + "|" + strings.Join(norm, ",")
}
