package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shopmatch/backend/internal/domain"
	"github.com/shopmatch/backend/internal/infrastructure/cache"
)

// ProductService fetches normalized listing details, cached per listing
type ProductService struct {
	provider domain.CandidateProvider
	cache    *cache.ResultCache
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(provider domain.CandidateProvider, resultCache *cache.ResultCache, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{provider: provider, cache: resultCache, logger: logger}
}

// GetProduct returns the listing identified by platform and platformID.
// Unlike matching, detail lookups surface provider failures to the caller.
func (s *ProductService) GetProduct(ctx context.Context, platform domain.Platform, platformID string) (*domain.Product, error) {
	platformID = strings.TrimSpace(platformID)
	if !platform.Valid() || platformID == "" {
		return nil, domain.ErrInvalidRequest
	}

	if !s.provider.IsConfigured(platform) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlatformNotConfigured, platform)
	}

	key := fmt.Sprintf("product:%s:%s", platform, platformID)
	return cache.GetOrCompute(ctx, s.cache, key, cache.TTLProduct,
		func(ctx context.Context) (*domain.Product, error) {
			product, err := s.provider.GetProduct(ctx, platform, platformID)
			if err != nil {
				s.logger.Warn("product lookup failed",
					zap.String("platform", string(platform)),
					zap.String("platform_id", platformID),
					zap.Error(err))
				return nil, err
			}
			return product, nil
		})
}
