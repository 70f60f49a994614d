package resources

import (
	"math"
	"testing"
)

func TestRelevance_Boundedness(t *testing.T) {
	values := []float64{0, 0.5, 1}
	for _, sem := range values {
		for _, ped := range values {
			for _, rec := range values {
				for _, pop := range values {
					got := Relevance(SubScores{Semantic: sem, Pedagogical: ped, Recency: rec, Popularity: pop})
					if got < 0 || got > 1 {
						t.Fatalf("relevance out of range: %f for (%f,%f,%f,%f)", got, sem, ped, rec, pop)
					}
				}
			}
		}
	}
}

func TestRelevance_Extremes(t *testing.T) {
	if got := Relevance(SubScores{}); got != 0 {
		t.Fatalf("all-zero sub-scores: got %f", got)
	}
	got := Relevance(SubScores{Semantic: 1, Pedagogical: 1, Recency: 1, Popularity: 1})
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("all-one sub-scores: got %f", got)
	}
}

func TestRelevance_Weights(t *testing.T) {
	// Only semantic set: the result is exactly the semantic weight.
	got := Relevance(SubScores{Semantic: 1})
	if math.Abs(got-0.6) > 1e-9 {
		t.Fatalf("semantic weight: got %f", got)
	}
	got = Relevance(SubScores{Pedagogical: 1})
	if math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("pedagogical weight: got %f", got)
	}
	got = Relevance(SubScores{Recency: 1})
	if math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("recency weight: got %f", got)
	}
	got = Relevance(SubScores{Popularity: 1})
	if math.Abs(got-0.05) > 1e-9 {
		t.Fatalf("popularity weight: got %f", got)
	}
}

func TestRelevance_ClampsOutOfRangeInputs(t *testing.T) {
	got := Relevance(SubScores{Semantic: 5, Pedagogical: -3, Recency: 2, Popularity: 100})
	if got < 0 || got > 1 {
		t.Fatalf("relevance out of range with wild inputs: %f", got)
	}
}

func TestRecencyScore(t *testing.T) {
	const year = 2026
	if got := RecencyScore(year, year); got != 1 {
		t.Fatalf("current year: got %f", got)
	}
	if got := RecencyScore(year-10, year); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("ten years old: got %f", got)
	}
	if got := RecencyScore(year-20, year); got != 0 {
		t.Fatalf("twenty years old: got %f", got)
	}
	if got := RecencyScore(year-50, year); got != 0 {
		t.Fatalf("fifty years old: got %f", got)
	}
	if got := RecencyScore(0, year); got != 0.5 {
		t.Fatalf("unknown year: got %f", got)
	}
	if got := RecencyScore(year+1, year); got != 0.5 {
		t.Fatalf("future year: got %f", got)
	}
}

func TestPopularityScore_Monotonic(t *testing.T) {
	counts := []int64{0, 500, 5_000, 50_000, 500_000, 5_000_000}
	prev := -1.0
	for _, c := range counts {
		got := PopularityScore(c)
		if got < 0 || got > 1 {
			t.Fatalf("popularity out of range: %f", got)
		}
		if got < prev {
			t.Fatalf("popularity not monotonic at %d: %f < %f", c, got, prev)
		}
		prev = got
	}
}
