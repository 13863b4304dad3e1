// Package rainforest implements the amazon marketplace source on top of the
// Rainforest product data API.
package rainforest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shopmatch/backend/internal/domain"
	"github.com/shopmatch/backend/internal/infrastructure/metrics"
)

const (
	DefaultBaseURL      = "https://api.rainforestapi.com"
	DefaultAmazonDomain = "amazon.com"

	// maxErrorBodyBytes bounds how much of an error response is kept for logging
	maxErrorBodyBytes = 4 << 10
)

// Config holds the Rainforest client settings
type Config struct {
	APIKey            string
	BaseURL           string
	AmazonDomain      string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client handles communication with the Rainforest API
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	amazonDomain string
	rateLimiter  *rate.Limiter
	logger       *zap.Logger
	now          func() time.Time
}

// NewClient creates a new Rainforest API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AmazonDomain == "" {
		cfg.AmazonDomain = DefaultAmazonDomain
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		amazonDomain: cfg.AmazonDomain,
		rateLimiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:       logger,
		now:          time.Now,
	}
}

// Platform returns the marketplace served by this client
func (c *Client) Platform() domain.Platform {
	return domain.PlatformAmazon
}

// Search runs a keyword search
func (c *Client) Search(ctx context.Context, query string) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("type", "search")
	params.Set("search_term", query)

	resp, err := c.fetch(ctx, "search", params)
	if err != nil {
		return nil, err
	}

	products := NormalizeSearchResults(resp.SearchResults, c.now().UTC())
	c.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("raw", len(resp.SearchResults)),
		zap.Int("products", len(products)))
	return products, nil
}

// SearchByIdentifier searches with a UPC or EAN as the search term.
// Amazon resolves product codes through its regular search.
func (c *Client) SearchByIdentifier(ctx context.Context, identifier string) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("type", "search")
	params.Set("search_term", identifier)

	resp, err := c.fetch(ctx, "search_identifier", params)
	if err != nil {
		return nil, err
	}
	return NormalizeSearchResults(resp.SearchResults, c.now().UTC()), nil
}

// GetProduct retrieves the detail page of an ASIN
func (c *Client) GetProduct(ctx context.Context, asin string) (*domain.Product, error) {
	params := url.Values{}
	params.Set("type", "product")
	params.Set("asin", asin)

	resp, err := c.fetch(ctx, "product", params)
	if err != nil {
		return nil, err
	}
	return NormalizeProduct(resp.Product, c.now().UTC())
}

// fetch performs a single rate-limited request and decodes the envelope.
// Failures are not retried; callers degrade instead.
func (c *Client) fetch(ctx context.Context, operation string, params url.Values) (*Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("amazon_domain", c.amazonDomain)
	reqURL := fmt.Sprintf("%s/request?%s", c.baseURL, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		c.observe(operation, "error")
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.observe(operation, "not_found")
		return nil, domain.ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		c.observe(operation, "error")
		body := readLimitedBody(resp.Body)
		c.logger.Warn("rainforest api error",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("body", body))
		return nil, fmt.Errorf("%w: rainforest status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.observe(operation, "error")
		return nil, fmt.Errorf("%w: failed to decode rainforest response: %v", domain.ErrProviderFailure, err)
	}

	if decoded.RequestInfo.Success != nil && !*decoded.RequestInfo.Success {
		c.observe(operation, "error")
		return nil, fmt.Errorf("%w: rainforest request failed: %s", domain.ErrProviderFailure, decoded.RequestInfo.Message)
	}

	c.observe(operation, "ok")
	return &decoded, nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ShopMatch/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	return resp, nil
}

func (c *Client) observe(operation, status string) {
	metrics.ProviderRequestsTotal.WithLabelValues(string(domain.PlatformAmazon), operation, status).Inc()
}

// readLimitedBody reads at most maxErrorBodyBytes of r
func readLimitedBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	return string(body)
}
