package resources

// Weights for the combined relevance score. Semantic similarity dominates;
// the rest are tie-breakers.
const (
	weightSemantic    = 0.60
	weightPedagogical = 0.25
	weightRecency     = 0.10
	weightPopularity  = 0.05
)

// SubScores are the per-dimension inputs to the relevance formula, each
// expected in [0,1]. Out-of-range inputs are clamped before combining.
type SubScores struct {
	Semantic    float64
	Pedagogical float64
	Recency     float64
	Popularity  float64
}

// Relevance combines the sub-scores into a single score guaranteed to lie
// in [0,1].
func Relevance(s SubScores) float64 {
	v := weightSemantic*clamp01(s.Semantic) +
		weightPedagogical*clamp01(s.Pedagogical) +
		weightRecency*clamp01(s.Recency) +
		weightPopularity*clamp01(s.Popularity)
	return clamp01(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RecencyScore maps a publication year to [0,1]: the current year scores 1
// and the score decays linearly to 0 over the past twenty years. A zero or
// future year scores a neutral 0.5.
func RecencyScore(publicationYear, currentYear int) float64 {
	if publicationYear <= 0 || publicationYear > currentYear {
		return 0.5
	}
	age := currentYear - publicationYear
	if age >= 20 {
		return 0
	}
	return 1 - float64(age)/20
}

// PopularityScore maps a raw view count to [0,1] on a coarse scale. Zero
// views scores 0; the scale saturates at ten million.
func PopularityScore(viewCount int64) float64 {
	switch {
	case viewCount <= 0:
		return 0
	case viewCount < 1_000:
		return 0.2
	case viewCount < 10_000:
		return 0.4
	case viewCount < 100_000:
		return 0.6
	case viewCount < 1_000_000:
		return 0.8
	default:
		return 1
	}
}
