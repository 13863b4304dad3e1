package usecase

import (
	"math"
	"strings"

	"github.com/shopmatch/backend/internal/domain"
)

// Signal weights. They sum to 1.0 so the weighted score stays within [0,1].
const (
	TitleWeight = 0.5
	BrandWeight = 0.3
	PriceWeight = 0.2
)

// Confidence levels per tier. Fuzzy matches are capped below the fixed
// identifier confidence so the two ranges never overlap.
const (
	KeywordConfidenceCap = 0.85
	IdentifierConfidence = 0.95
)

// ScoreBreakdown holds the unweighted signals behind a similarity score
type ScoreBreakdown struct {
	Title float64 `json:"title"`
	Brand float64 `json:"brand"`
	Price float64 `json:"price"`
}

// Total returns the weighted sum of the signals
func (b ScoreBreakdown) Total() float64 {
	total := b.Title*TitleWeight + b.Brand*BrandWeight + b.Price*PriceWeight
	return math.Max(0, math.Min(1, total))
}

// Scorer computes deterministic similarity between two normalized listings
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Breakdown computes the individual similarity signals for a candidate
func (s *Scorer) Breakdown(source, candidate *domain.Product) ScoreBreakdown {
	return ScoreBreakdown{
		Title: TitleSimilarity(source.Title, candidate.Title),
		Brand: BrandMatch(source.Brand, candidate.Brand),
		Price: PriceProximity(source.Price, candidate.Price),
	}
}

// Score returns the weighted similarity of candidate to source in [0,1]
func (s *Scorer) Score(source, candidate *domain.Product) float64 {
	return s.Breakdown(source, candidate).Total()
}

// KeywordConfidence is the score reported for keyword-tier matches
func (s *Scorer) KeywordConfidence(source, candidate *domain.Product) float64 {
	return math.Min(s.Score(source, candidate), KeywordConfidenceCap)
}

// TitleSimilarity is the Jaccard index of the lower-cased whitespace token sets
func TitleSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// BrandMatch is 1 when both brands are present and equal ignoring case
func BrandMatch(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return 1
	}
	return 0
}

// PriceProximity is min/max of the two prices when both are strictly positive.
// The ratio is symmetric and decays smoothly as the gap widens.
func PriceProximity(a, b domain.Money) float64 {
	if !a.IsPositive() || !b.IsPositive() {
		return 0
	}
	lo, hi := a.Amount, b.Amount
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	return lo.Div(hi).InexactFloat64()
}

// tokenSet lower-cases s and splits it on whitespace into a set
func tokenSet(s string) map[string]bool {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}
