package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopmatch/backend/internal/domain"
)

// IdentifierMatcher finds listings on the target marketplace that share the
// source's UPC or EAN. Identifier equality is treated as definitive, so every
// candidate gets the fixed IdentifierConfidence without scoring.
type IdentifierMatcher struct {
	provider domain.CandidateProvider
	logger   *zap.Logger
}

// NewIdentifierMatcher creates a new identifier matcher
func NewIdentifierMatcher(provider domain.CandidateProvider, logger *zap.Logger) *IdentifierMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentifierMatcher{provider: provider, logger: logger}
}

// MatchByIdentifier looks up the source's identifier on target. Missing
// identifiers and unconfigured platforms skip the lookup; provider errors
// degrade to an empty outcome.
func (m *IdentifierMatcher) MatchByIdentifier(
	ctx context.Context,
	source *domain.Product,
	target domain.Platform,
) TierOutcome {
	identifier := source.Identifier()
	if identifier == "" {
		return skipped(TierIdentifier)
	}

	if !m.provider.IsConfigured(target) {
		m.logger.Debug("identifier lookup skipped, platform not configured",
			zap.String("target", string(target)))
		return skipped(TierIdentifier)
	}

	candidates, err := m.provider.SearchByIdentifier(ctx, identifier, target)
	if err != nil {
		m.logger.Warn("identifier lookup failed",
			zap.String("identifier", identifier),
			zap.String("target", string(target)),
			zap.Error(err))
		return degraded(TierIdentifier, err)
	}

	matches := make([]domain.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		matches = append(matches, domain.MatchResult{
			Product:     candidate,
			Confidence:  IdentifierConfidence,
			MatchMethod: domain.MatchMethodIdentifierExact,
		})
	}

	return completed(TierIdentifier, matches)
}
