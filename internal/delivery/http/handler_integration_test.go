package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmatch/backend/config"
	"github.com/shopmatch/backend/internal/domain"
	"github.com/shopmatch/backend/internal/infrastructure/cache"
	"github.com/shopmatch/backend/internal/infrastructure/marketplace"
	"github.com/shopmatch/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubSource is a marketplace.Source returning canned listings
type stubSource struct {
	platform    domain.Platform
	byQuery     []domain.Product
	byID        []domain.Product
	product     *domain.Product
	err         error
	searchCalls int
}

func (s *stubSource) Platform() domain.Platform { return s.platform }

func (s *stubSource) Search(ctx context.Context, query string) ([]domain.Product, error) {
	s.searchCalls++
	return s.byQuery, s.err
}

func (s *stubSource) SearchByIdentifier(ctx context.Context, identifier string) ([]domain.Product, error) {
	return s.byID, s.err
}

func (s *stubSource) GetProduct(ctx context.Context, platformID string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.product == nil {
		return nil, domain.ErrProductNotFound
	}
	return s.product, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*", "http://localhost:3000"},
		},
		Cache: config.CacheConfig{Type: "memory"},
	}
}

// setupTestRouter wires the real services over stub marketplace sources
func setupTestRouter(t *testing.T, sources ...marketplace.Source) *gin.Engine {
	t.Helper()
	store := cache.NewMemoryCache(cache.DefaultSweepInterval)
	t.Cleanup(func() { _ = store.Close() })
	resultCache := cache.NewResultCache(store, nil)

	registry := marketplace.NewRegistry(nil, sources...)
	handler := NewHandler(
		usecase.NewMatchService(registry, resultCache, usecase.MatchServiceConfig{}, nil),
		usecase.NewProductService(registry, resultCache, nil),
		registry,
	)
	return SetupRouter(testConfig(), handler, nil, nil)
}

func ebayListing(id, title string, price float64) domain.Product {
	return domain.Product{
		ID:         "test-" + id,
		Platform:   domain.PlatformEbay,
		PlatformID: id,
		Title:      title,
		Price:      domain.NewMoney(price, "USD"),
	}
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const amazonSourceBody = `{"product": {
  "platform": "amazon", "platformId": "B08N5WRWNW",
  "title": "Sony WH-1000XM4 Wireless Headphones (Black)", "brand": "Sony",
  "price": {"amount": "348.00", "currency": "USD"}, "upc": "027242919419"
}}`

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status with configured platforms", func(t *testing.T) {
		router := setupTestRouter(t, &stubSource{platform: domain.PlatformEbay})

		w := doJSON(router, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "shopmatch-backend", response["service"])
		assert.Equal(t, []interface{}{"ebay"}, response["platforms"])
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(t)
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := doJSON(router, method, "/health", "")
			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestMatchEndpoint(t *testing.T) {
	t.Run("identifier match", func(t *testing.T) {
		ebay := &stubSource{
			platform: domain.PlatformEbay,
			byID:     []domain.Product{ebayListing("v1|1|0", "Sony WH1000XM4", 279)},
			byQuery:  []domain.Product{ebayListing("v1|2|0", "Other", 10)},
		}
		router := setupTestRouter(t, ebay)

		w := doJSON(router, http.MethodPost, "/api/v1/match", amazonSourceBody)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var response MatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, domain.PlatformEbay, response.Target)
		assert.Equal(t, "B08N5WRWNW", response.Source.PlatformID)
		require.Equal(t, 1, response.Count)
		assert.Equal(t, 0.95, response.Matches[0].Confidence)
		assert.Equal(t, domain.MatchMethodIdentifierExact, response.Matches[0].MatchMethod)
		assert.Equal(t, 0, ebay.searchCalls)
	})

	t.Run("provider down yields empty matches", func(t *testing.T) {
		ebay := &stubSource{platform: domain.PlatformEbay, err: domain.ErrProviderFailure}
		router := setupTestRouter(t, ebay)

		w := doJSON(router, http.MethodPost, "/api/v1/match", amazonSourceBody)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, mustField(t, w.Body.Bytes(), "matches"))
	})

	t.Run("target marketplace not configured yields empty matches", func(t *testing.T) {
		router := setupTestRouter(t)

		w := doJSON(router, http.MethodPost, "/api/v1/match", amazonSourceBody)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, mustField(t, w.Body.Bytes(), "matches"))
	})

	t.Run("rejects invalid bodies", func(t *testing.T) {
		router := setupTestRouter(t)
		bodies := []string{
			`not json`,
			`{}`,
			`{"product": {"platform": "walmart", "platformId": "1", "title": "x"}}`,
			`{"product": {"platform": "amazon", "title": "missing id"}}`,
			`{"product": {"platform": "amazon", "platformId": "B1", "title": "x", "price": {"amount": "-2"}}}`,
		}
		for _, body := range bodies {
			w := doJSON(router, http.MethodPost, "/api/v1/match", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			assert.Contains(t, w.Body.String(), "invalid_request")
		}
	})
}

func TestCompareEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	body := `{
	  "source": {"platform": "amazon", "platformId": "B1", "title": "Echo Dot", "price": {"amount": 50, "currency": "USD"}},
	  "match":  {"platform": "ebay", "platformId": "v1|1|0", "title": "Echo Dot", "price": {"amount": 40, "currency": "USD"},
	             "shippingCost": {"amount": 5, "currency": "USD"}}
	}`
	w := doJSON(router, http.MethodPost, "/api/v1/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Comparison struct {
			PriceDiff        string  `json:"priceDiff"`
			PriceDiffPercent float64 `json:"priceDiffPercent"`
			TotalCostMatch   string  `json:"totalCostMatch"`
		} `json:"comparison"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "-10", response.Comparison.PriceDiff)
	assert.Equal(t, -20.0, response.Comparison.PriceDiffPercent)
	assert.Equal(t, "45", response.Comparison.TotalCostMatch)

	w = doJSON(router, http.MethodPost, "/api/v1/compare", `{"source": {"platform": "amazon", "platformId": "B1", "title": "x"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductEndpoint(t *testing.T) {
	listing := ebayListing("v1|7|0", "Nintendo Switch", 299)

	testCases := []struct {
		name       string
		source     *stubSource
		path       string
		wantStatus int
		wantError  string
	}{
		{"found", &stubSource{platform: domain.PlatformEbay, product: &listing}, "/api/v1/products/ebay/v1%7C7%7C0", http.StatusOK, ""},
		{"not found", &stubSource{platform: domain.PlatformEbay}, "/api/v1/products/ebay/123", http.StatusNotFound, "not_found"},
		{"provider failure", &stubSource{platform: domain.PlatformEbay, err: domain.ErrProviderFailure}, "/api/v1/products/ebay/123", http.StatusBadGateway, "provider_error"},
		{"unknown platform", &stubSource{platform: domain.PlatformEbay}, "/api/v1/products/walmart/123", http.StatusBadRequest, "invalid_request"},
		{"platform not configured", &stubSource{platform: domain.PlatformEbay}, "/api/v1/products/amazon/B01", http.StatusServiceUnavailable, "platform_unavailable"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := setupTestRouter(t, tc.source)

			w := doJSON(router, http.MethodGet, tc.path, "")
			assert.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			if tc.wantError != "" {
				var response ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tc.wantError, response.Error)
			} else {
				assert.Contains(t, w.Body.String(), "Nintendo Switch")
			}
		})
	}
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/match", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "chrome-extension://abcdefghijklmnop", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRateLimitedRoutes(t *testing.T) {
	limiter := NewIPRateLimiter(1, 0)
	defer limiter.Close()

	registry := marketplace.NewRegistry(nil)
	handler := NewHandler(
		usecase.NewMatchService(registry, cache.NewResultCache(nil, nil), usecase.MatchServiceConfig{}, nil),
		usecase.NewProductService(registry, cache.NewResultCache(nil, nil), nil),
		registry,
	)
	router := SetupRouter(testConfig(), handler, nil, limiter)

	first := doJSON(router, http.MethodPost, "/api/v1/match", amazonSourceBody)
	second := doJSON(router, http.MethodPost, "/api/v1/match", amazonSourceBody)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	health := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code, "health is not rate limited")
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter(t)
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := doJSON(router, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func mustField(t *testing.T, body []byte, field string) string {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	value, ok := raw[field]
	require.True(t, ok, "missing field %q", field)
	return string(value)
}
