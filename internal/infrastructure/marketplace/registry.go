// Package marketplace dispatches candidate lookups to the per-platform
// marketplace clients.
package marketplace

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/shopmatch/backend/internal/domain"
)

// Source is a single marketplace's search API
type Source interface {
	Platform() domain.Platform
	Search(ctx context.Context, query string) ([]domain.Product, error)
	SearchByIdentifier(ctx context.Context, identifier string) ([]domain.Product, error)
	GetProduct(ctx context.Context, platformID string) (*domain.Product, error)
}

// Registry implements domain.CandidateProvider over the registered sources.
// A platform without a source is reported as not configured.
type Registry struct {
	mu      sync.RWMutex
	sources map[domain.Platform]Source
	logger  *zap.Logger
}

// NewRegistry creates a registry holding sources. Nil sources are ignored so
// callers can pass optional clients directly.
func NewRegistry(logger *zap.Logger, sources ...Source) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		sources: make(map[domain.Platform]Source),
		logger:  logger,
	}
	for _, s := range sources {
		r.Register(s)
	}
	return r
}

// Register adds or replaces the source for its platform
func (r *Registry) Register(source Source) {
	if source == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.Platform()] = source
	r.logger.Info("marketplace source registered", zap.String("platform", string(source.Platform())))
}

// IsConfigured reports whether a source is registered for platform
func (r *Registry) IsConfigured(platform domain.Platform) bool {
	_, ok := r.source(platform)
	return ok
}

// Platforms returns the configured platforms in a stable order
func (r *Registry) Platforms() []domain.Platform {
	out := make([]domain.Platform, 0, len(domain.Platforms))
	for _, p := range domain.Platforms {
		if r.IsConfigured(p) {
			out = append(out, p)
		}
	}
	return out
}

// SearchByQuery runs a free-text search on platform
func (r *Registry) SearchByQuery(ctx context.Context, query string, platform domain.Platform) ([]domain.Product, error) {
	s, err := r.require(platform)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, query)
}

// SearchByIdentifier looks up listings carrying identifier on platform
func (r *Registry) SearchByIdentifier(ctx context.Context, identifier string, platform domain.Platform) ([]domain.Product, error) {
	s, err := r.require(platform)
	if err != nil {
		return nil, err
	}
	return s.SearchByIdentifier(ctx, identifier)
}

// GetProduct fetches one listing from platform
func (r *Registry) GetProduct(ctx context.Context, platform domain.Platform, platformID string) (*domain.Product, error) {
	s, err := r.require(platform)
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, platformID)
}

func (r *Registry) source(platform domain.Platform) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[platform]
	return s, ok
}

func (r *Registry) require(platform domain.Platform) (Source, error) {
	s, ok := r.source(platform)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlatformNotConfigured, platform)
	}
	return s, nil
}

var _ domain.CandidateProvider = (*Registry)(nil)
