package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopmatch/backend/internal/domain"
	"github.com/shopmatch/backend/internal/infrastructure/cache"
)

// CachedSource caches the search results of a Source for cache.TTLSearch.
// Detail lookups pass straight through; they are cached by the product service.
type CachedSource struct {
	Source
	cache *cache.ResultCache
}

// NewCachedSource wraps source with the result cache
func NewCachedSource(source Source, resultCache *cache.ResultCache) *CachedSource {
	return &CachedSource{Source: source, cache: resultCache}
}

// Search returns cached results for query, querying the source on a miss
func (c *CachedSource) Search(ctx context.Context, query string) ([]domain.Product, error) {
	key := fmt.Sprintf("search:%s:q:%s", c.Platform(), normalizeQuery(query))
	return cache.GetOrCompute(ctx, c.cache, key, cache.TTLSearch, func(ctx context.Context) ([]domain.Product, error) {
		return c.Source.Search(ctx, query)
	})
}

// SearchByIdentifier returns cached results for identifier, querying the source on a miss
func (c *CachedSource) SearchByIdentifier(ctx context.Context, identifier string) ([]domain.Product, error) {
	key := fmt.Sprintf("search:%s:id:%s", c.Platform(), strings.TrimSpace(identifier))
	return cache.GetOrCompute(ctx, c.cache, key, cache.TTLSearch, func(ctx context.Context) ([]domain.Product, error) {
		return c.Source.SearchByIdentifier(ctx, identifier)
	})
}

// normalizeQuery lower-cases and collapses whitespace so trivially different
// queries share an entry
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
