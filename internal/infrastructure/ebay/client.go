// Package ebay implements the ebay marketplace source on top of the Browse API.
package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/shopmatch/backend/internal/domain"
	"github.com/shopmatch/backend/internal/infrastructure/metrics"
)

const (
	DefaultBaseURL       = "https://api.ebay.com"
	DefaultMarketplaceID = "EBAY_US"
	DefaultSearchLimit   = 10

	browsePath        = "/buy/browse/v1"
	maxErrorBodyBytes = 4 << 10
)

// Config holds the Browse API client settings
type Config struct {
	BaseURL           string
	MarketplaceID     string
	SearchLimit       int
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client handles communication with the eBay Browse API
type Client struct {
	httpClient    *http.Client
	tokens        oauth2.TokenSource
	baseURL       string
	marketplaceID string
	searchLimit   int
	rateLimiter   *rate.Limiter
	logger        *zap.Logger
	now           func() time.Time
}

// NewClient creates a new Browse API client authenticated by tokens
func NewClient(cfg Config, tokens oauth2.TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MarketplaceID == "" {
		cfg.MarketplaceID = DefaultMarketplaceID
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		tokens:        tokens,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		marketplaceID: cfg.MarketplaceID,
		searchLimit:   cfg.SearchLimit,
		rateLimiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:        logger,
		now:           time.Now,
	}
}

// Platform returns the marketplace served by this client
func (c *Client) Platform() domain.Platform {
	return domain.PlatformEbay
}

// Search runs a keyword search
func (c *Client) Search(ctx context.Context, query string) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("q", query)
	return c.search(ctx, "search", params)
}

// SearchByIdentifier searches by GTIN. Every result shares the identifier,
// so it is copied onto results that do not report one.
func (c *Client) SearchByIdentifier(ctx context.Context, identifier string) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("gtin", identifier)

	products, err := c.search(ctx, "search_identifier", params)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Identifier() == "" {
			products[i].UPC, products[i].EAN = splitGTIN(identifier)
		}
	}
	return products, nil
}

// GetProduct retrieves an item. Plain legacy ids are retried in the
// RESTful "v1|id|0" form when the first lookup is not found.
func (c *Client) GetProduct(ctx context.Context, itemID string) (*domain.Product, error) {
	itemID = strings.TrimSpace(itemID)

	item, err := c.getItem(ctx, itemID)
	if errors.Is(err, domain.ErrProductNotFound) && !strings.HasPrefix(itemID, "v1|") {
		c.logger.Debug("item not found, retrying restful id", zap.String("item_id", itemID))
		item, err = c.getItem(ctx, "v1|"+itemID+"|0")
	}
	if err != nil {
		return nil, err
	}
	return NormalizeItem(item, c.now().UTC())
}

func (c *Client) search(ctx context.Context, operation string, params url.Values) ([]domain.Product, error) {
	params.Set("limit", strconv.Itoa(c.searchLimit))
	reqURL := fmt.Sprintf("%s%s/item_summary/search?%s", c.baseURL, browsePath, params.Encode())

	var resp SearchResponse
	if err := c.get(ctx, operation, reqURL, &resp); err != nil {
		return nil, err
	}

	products := NormalizeSearchResults(resp.ItemSummaries, c.now().UTC())
	c.logger.Debug("search completed",
		zap.String("operation", operation),
		zap.Int("raw", len(resp.ItemSummaries)),
		zap.Int("products", len(products)))
	return products, nil
}

func (c *Client) getItem(ctx context.Context, itemID string) (*Item, error) {
	reqURL := fmt.Sprintf("%s%s/item/%s", c.baseURL, browsePath, url.PathEscape(itemID))

	var item Item
	if err := c.get(ctx, "item", reqURL, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// get performs one rate-limited, authenticated GET and decodes the body into out
func (c *Client) get(ctx context.Context, operation, reqURL string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		c.observe(operation, "error")
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.observe(operation, "not_found")
		return domain.ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		c.observe(operation, "error")
		body := readLimitedBody(resp.Body)
		c.logger.Warn("ebay api error",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("message", errorMessage(body)))
		return fmt.Errorf("%w: ebay status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.observe(operation, "error")
		return fmt.Errorf("%w: failed to decode ebay response: %v", domain.ErrProviderFailure, err)
	}

	c.observe(operation, "ok")
	return nil
}

// doRequest executes an HTTP GET request with auth and marketplace headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: ebay token: %v", domain.ErrProviderFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// eBay reports token_type "Application Access Token" but expects the Bearer scheme
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplaceID)
	req.Header.Set("User-Agent", "ShopMatch/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	return resp, nil
}

func (c *Client) observe(operation, status string) {
	metrics.ProviderRequestsTotal.WithLabelValues(string(domain.PlatformEbay), operation, status).Inc()
}

// errorMessage extracts the first message of an error envelope, or returns body as is
func errorMessage(body string) string {
	var envelope ErrorResponse
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && len(envelope.Errors) > 0 {
		return envelope.Errors[0].Message
	}
	return body
}

// readLimitedBody reads at most maxErrorBodyBytes of r
func readLimitedBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	return string(body)
}
