package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopmatch/backend/internal/domain"
	"github.com/shopmatch/backend/internal/infrastructure/cache"
	"github.com/shopmatch/backend/internal/infrastructure/metrics"
)

// MatchServiceConfig holds configuration for the match service
type MatchServiceConfig struct {
	CacheTTL           time.Duration
	MaxKeywordMatches  int
	EnableDebugLogging bool
}

// MatchService finds the listings on the other marketplace that correspond to a source listing.
// Flow: check cache -> identifier tier -> (if empty) keyword tier -> cache -> return
type MatchService struct {
	identifier *IdentifierMatcher
	keyword    *KeywordMatcher
	cache      *cache.ResultCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewMatchService creates a new match service with dependencies
func NewMatchService(
	provider domain.CandidateProvider,
	resultCache *cache.ResultCache,
	config MatchServiceConfig,
	logger *zap.Logger,
) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = cache.TTLMatch
	}

	return &MatchService{
		identifier: NewIdentifierMatcher(provider, logger.Named("identifier")),
		keyword: NewKeywordMatcher(provider, NewScorer(), KeywordMatcherConfig{
			MaxResults:         config.MaxKeywordMatches,
			EnableDebugLogging: config.EnableDebugLogging,
		}, logger.Named("keyword")),
		cache:    resultCache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// FindMatches returns the ranked matches for source on the complementary
// marketplace. An empty list is a successful outcome. Errors are returned
// only for a missing source or a cancelled context.
func (s *MatchService) FindMatches(ctx context.Context, source *domain.Product) ([]domain.MatchResult, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: source product is nil", domain.ErrInvalidProduct)
	}

	start := time.Now()
	defer func() { metrics.MatchDuration.Observe(time.Since(start).Seconds()) }()

	return cache.GetOrCompute(ctx, s.cache, MatchCacheKey(source), s.cacheTTL,
		func(ctx context.Context) ([]domain.MatchResult, error) {
			return s.runTiers(ctx, source)
		})
}

// Invalidate drops the cached matches for source
func (s *MatchService) Invalidate(ctx context.Context, source *domain.Product) error {
	if source == nil {
		return fmt.Errorf("%w: source product is nil", domain.ErrInvalidProduct)
	}
	return s.cache.Invalidate(ctx, MatchCacheKey(source))
}

// runTiers tries the identifier tier and falls back to the keyword tier only
// when the first yields nothing. The tiers are never merged or retried.
func (s *MatchService) runTiers(ctx context.Context, source *domain.Product) ([]domain.MatchResult, error) {
	target := source.Platform.Other()
	log := s.logger.With(
		zap.String("source", string(source.Platform)),
		zap.String("platform_id", source.PlatformID),
		zap.String("target", string(target)),
	)

	outcome := s.identifier.MatchByIdentifier(ctx, source, target)
	s.record(log, outcome)

	if !outcome.Found() {
		outcome = s.keyword.MatchByKeyword(ctx, source, target)
		s.record(log, outcome)
	}

	// A cancelled caller gets its error back and the partial result is not cached
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return outcome.Matches, nil
}

func (s *MatchService) record(log *zap.Logger, outcome TierOutcome) {
	metrics.TierOutcomesTotal.WithLabelValues(outcome.Tier, string(outcome.Status)).Inc()

	fields := []zap.Field{
		zap.String("tier", outcome.Tier),
		zap.String("status", string(outcome.Status)),
		zap.Int("matches", len(outcome.Matches)),
	}
	if outcome.Err != nil {
		fields = append(fields, zap.Error(outcome.Err))
	}
	log.Debug("match tier finished", fields...)
}

// MatchCacheKey returns the result cache key for a source listing.
// Format: "match:{platform}:{platformId}"
func MatchCacheKey(source *domain.Product) string {
	return fmt.Sprintf("match:%s:%s", source.Platform, source.PlatformID)
}
