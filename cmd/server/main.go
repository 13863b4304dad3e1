package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shopmatch/backend/config"
	httpDelivery "github.com/shopmatch/backend/internal/delivery/http"
	"github.com/shopmatch/backend/internal/domain"
	"github.com/shopmatch/backend/internal/infrastructure/cache"
	"github.com/shopmatch/backend/internal/infrastructure/ebay"
	"github.com/shopmatch/backend/internal/infrastructure/logger"
	"github.com/shopmatch/backend/internal/infrastructure/marketplace"
	"github.com/shopmatch/backend/internal/infrastructure/rainforest"
	"github.com/shopmatch/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLog, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	zapLog.Info("Starting ShopMatch Backend v1.0.0",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type))

	// Initialize infrastructure dependencies
	store, closeStore, err := newCacheStore(cfg.Cache, zapLog)
	if err != nil {
		zapLog.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() { _ = closeStore.Close() }()
	resultCache := cache.NewResultCache(store, zapLog.Named("cache"))

	registry := marketplace.NewRegistry(zapLog.Named("marketplace"), newSources(cfg, resultCache, zapLog)...)
	if len(registry.Platforms()) == 0 {
		zapLog.Warn("No marketplace configured, matching will return empty results")
	}

	// Initialize usecase layer
	matchService := usecase.NewMatchService(
		registry,
		resultCache,
		usecase.MatchServiceConfig{
			CacheTTL:           cache.TTLMatch,
			MaxKeywordMatches:  cfg.Match.MaxKeywordMatches,
			EnableDebugLogging: cfg.Match.DebugScoring,
		},
		zapLog.Named("match"),
	)
	productService := usecase.NewProductService(registry, resultCache, zapLog.Named("product"))

	var limiter *httpDelivery.IPRateLimiter
	if cfg.RateLimit.PerIP > 0 {
		limiter = httpDelivery.NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.SweepInterval)
		defer limiter.Close()
		zapLog.Info("Rate limiting enabled", zap.Int("per_ip_per_minute", cfg.RateLimit.PerIP))
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(matchService, productService, registry)
	router := httpDelivery.SetupRouter(cfg, handler, zapLog, limiter)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	zapLog.Info("Server exited gracefully")
}

// newCacheStore builds the configured backing store. The returned closer is
// never nil; the store is nil when caching is disabled or Redis is unreachable
// at startup. Only a malformed configuration is an error.
func newCacheStore(cfg config.CacheConfig, zapLog *zap.Logger) (domain.CacheRepository, io.Closer, error) {
	switch cfg.Type {
	case "redis":
		store, err := cache.NewRedisCache(cfg.RedisURL, cfg.KeyPrefix)
		if errors.Is(err, domain.ErrCacheUnavailable) {
			zapLog.Warn("Redis unreachable, continuing without a result cache", zap.Error(err))
			return nil, io.NopCloser(nil), nil
		}
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case "none":
		return nil, io.NopCloser(nil), nil
	default:
		store := cache.NewMemoryCache(cfg.SweepInterval)
		return store, store, nil
	}
}

// newSources builds a cached source for every marketplace with credentials
func newSources(cfg *config.Config, resultCache *cache.ResultCache, zapLog *zap.Logger) []marketplace.Source {
	var sources []marketplace.Source

	if cfg.Rainforest.Enabled() {
		client := rainforest.NewClient(rainforest.Config{
			APIKey:            cfg.Rainforest.APIKey,
			BaseURL:           cfg.Rainforest.BaseURL,
			AmazonDomain:      cfg.Rainforest.AmazonDomain,
			RequestsPerSecond: cfg.Rainforest.RequestsPerSecond,
		}, zapLog.Named("rainforest"))
		sources = append(sources, marketplace.NewCachedSource(client, resultCache))
	} else {
		zapLog.Warn("Amazon provider not configured (SHOPMATCH_RAINFOREST_API_KEY missing)")
	}

	if cfg.Ebay.Enabled() {
		tokens := ebay.NewTokenSource(context.Background(), cfg.Ebay.AppID, cfg.Ebay.CertID, cfg.Ebay.TokenURL)
		client := ebay.NewClient(ebay.Config{
			BaseURL:           cfg.Ebay.BaseURL,
			MarketplaceID:     cfg.Ebay.MarketplaceID,
			RequestsPerSecond: cfg.Ebay.RequestsPerSecond,
		}, tokens, zapLog.Named("ebay"))
		sources = append(sources, marketplace.NewCachedSource(client, resultCache))
	} else {
		zapLog.Warn("eBay provider not configured (SHOPMATCH_EBAY_APP_ID / SHOPMATCH_EBAY_CERT_ID missing)")
	}

	return sources
}
