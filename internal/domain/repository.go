package domain

import (
	"context"
	"time"
)

// CacheRepository is a key -> serialized snapshot store with per-entry expiry
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CandidateProvider is the uniform search surface over both marketplaces.
// IsConfigured must be checked before calling; an unconfigured platform
// never yields candidates.
type CandidateProvider interface {
	SearchByQuery(ctx context.Context, query string, platform Platform) ([]Product, error)
	SearchByIdentifier(ctx context.Context, identifier string, platform Platform) ([]Product, error)
	GetProduct(ctx context.Context, platform Platform, platformID string) (*Product, error)
	IsConfigured(platform Platform) bool
}
