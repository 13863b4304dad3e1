package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/shopmatch/backend/internal/domain"
	"github.com/shopmatch/backend/internal/infrastructure/metrics"
)

// Freshness windows per data category. Match relationships change less often
// than individual prices, so they outlive product and search snapshots.
const (
	TTLProduct  = time.Hour
	TTLSearch   = 30 * time.Minute
	TTLMatch    = 2 * time.Hour
	TTLAdvisory = 24 * time.Hour
)

// ResultCache is a best-effort read-through cache over a snapshot store.
// A nil store turns it into a pass-through; store failures are logged and
// never surface to callers.
type ResultCache struct {
	store  domain.CacheRepository
	logger *zap.Logger
	group  singleflight.Group
}

// NewResultCache wraps store. store may be nil when no backing store is configured.
func NewResultCache(store domain.CacheRepository, logger *zap.Logger) *ResultCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		logger.Warn("result cache has no backing store, caching disabled")
	}
	return &ResultCache{store: store, logger: logger}
}

// Enabled reports whether a backing store is configured
func (rc *ResultCache) Enabled() bool {
	return rc != nil && rc.store != nil
}

// Invalidate drops key from the backing store
func (rc *ResultCache) Invalidate(ctx context.Context, key string) error {
	if !rc.Enabled() {
		return nil
	}
	return rc.store.Delete(ctx, key)
}

// GetOrCompute returns the cached value for key, or runs compute, stores its
// result for ttl and returns it. Compute errors are returned and not cached.
// Concurrent misses on the same key share a single compute, and the
// cancellation of one caller never fails another.
func GetOrCompute[T any](
	ctx context.Context,
	rc *ResultCache,
	key string,
	ttl time.Duration,
	compute func(context.Context) (T, error),
) (T, error) {
	if !rc.Enabled() {
		metrics.CacheLookupsTotal.WithLabelValues("bypass").Inc()
		return compute(ctx)
	}

	if value, ok := lookup[T](ctx, rc, key); ok {
		return value, nil
	}

	for {
		leader := false
		shared, err, _ := rc.group.Do(key, func() (interface{}, error) {
			leader = true
			value, err := compute(ctx)
			if err != nil {
				return value, err
			}
			rc.save(ctx, key, value, ttl)
			return value, nil
		})

		// A joined flight may fail on its leader's cancellation. A caller that
		// is still live runs the compute again instead of inheriting that error.
		if !leader && isContextError(err) && ctx.Err() == nil {
			rc.logger.Debug("shared compute cancelled, retrying", zap.String("key", key))
			continue
		}

		value, _ := shared.(T)
		return value, err
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func lookup[T any](ctx context.Context, rc *ResultCache, key string) (T, bool) {
	var value T

	data, err := rc.store.Get(ctx, key)
	switch {
	case errors.Is(err, domain.ErrCacheMiss):
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return value, false
	case err != nil:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		rc.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		rc.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		var zero T
		return zero, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return value, true
}

func (rc *ResultCache) save(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		rc.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := rc.store.Set(ctx, key, data, ttl); err != nil {
		rc.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
