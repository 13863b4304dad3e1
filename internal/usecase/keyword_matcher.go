package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/shopmatch/backend/internal/domain"
)

// DefaultMaxKeywordMatches is how many ranked candidates the keyword tier
// returns. It is also the upper bound for a configured limit.
const DefaultMaxKeywordMatches = 5

// KeywordMatcher searches the target marketplace with a query derived from
// the source listing and ranks the candidates by similarity
type KeywordMatcher struct {
	provider           domain.CandidateProvider
	scorer             *Scorer
	maxResults         int
	enableDebugLogging bool
	logger             *zap.Logger
}

// KeywordMatcherConfig holds configuration for the keyword matcher
type KeywordMatcherConfig struct {
	MaxResults         int
	EnableDebugLogging bool
}

// NewKeywordMatcher creates a new keyword matcher
func NewKeywordMatcher(
	provider domain.CandidateProvider,
	scorer *Scorer,
	config KeywordMatcherConfig,
	logger *zap.Logger,
) *KeywordMatcher {
	if scorer == nil {
		scorer = NewScorer()
	}
	maxResults := config.MaxResults
	if maxResults <= 0 || maxResults > DefaultMaxKeywordMatches {
		maxResults = DefaultMaxKeywordMatches
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeywordMatcher{
		provider:           provider,
		scorer:             scorer,
		maxResults:         maxResults,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// MatchByKeyword runs one search on target and returns the best scoring
// candidates, highest confidence first. Provider errors degrade to an empty outcome.
func (m *KeywordMatcher) MatchByKeyword(
	ctx context.Context,
	source *domain.Product,
	target domain.Platform,
) TierOutcome {
	if !m.provider.IsConfigured(target) {
		m.logger.Debug("keyword search skipped, platform not configured",
			zap.String("target", string(target)))
		return skipped(TierKeyword)
	}

	query := BuildSearchQuery(source)
	if query == "" {
		m.logger.Debug("keyword search skipped, nothing left to search for",
			zap.String("title", source.Title))
		return skipped(TierKeyword)
	}

	candidates, err := m.provider.SearchByQuery(ctx, query, target)
	if err != nil {
		m.logger.Warn("keyword search failed",
			zap.String("query", query),
			zap.String("target", string(target)),
			zap.Error(err))
		return degraded(TierKeyword, err)
	}

	return completed(TierKeyword, m.rank(source, candidates, query))
}

// rank scores every candidate, sorts by confidence descending and keeps the top maxResults
func (m *KeywordMatcher) rank(source *domain.Product, candidates []domain.Product, query string) []domain.MatchResult {
	matches := make([]domain.MatchResult, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		confidence := m.scorer.KeywordConfidence(source, candidate)

		if m.enableDebugLogging {
			breakdown := m.scorer.Breakdown(source, candidate)
			m.logger.Debug("scored keyword candidate",
				zap.String("query", query),
				zap.String("candidate", candidate.Title),
				zap.Float64("title", breakdown.Title),
				zap.Float64("brand", breakdown.Brand),
				zap.Float64("price", breakdown.Price),
				zap.Float64("confidence", confidence))
		}

		matches = append(matches, domain.MatchResult{
			Product:     *candidate,
			Confidence:  confidence,
			MatchMethod: domain.MatchMethodKeywordFuzzy,
		})
	}

	// Stable so equal scores keep the provider's relevance order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	if len(matches) > m.maxResults {
		matches = matches[:m.maxResults]
	}
	return matches
}
