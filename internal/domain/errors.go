package domain

import "errors"

var (
	// ErrProductNotFound is returned when a marketplace has no listing for the requested id
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct is returned when a product is nil or lacks its platform identity
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrPlatformNotConfigured is returned when no provider is set up for a marketplace
	ErrPlatformNotConfigured = errors.New("marketplace provider not configured")

	// ErrProviderFailure is returned when a marketplace API request fails
	ErrProviderFailure = errors.New("marketplace provider request failed")
)
