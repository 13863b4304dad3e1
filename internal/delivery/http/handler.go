package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmatch/backend/internal/domain"
	"github.com/shopmatch/backend/internal/infrastructure/logger"
	"github.com/shopmatch/backend/internal/usecase"
)

// MatchFinder finds cross-marketplace matches for a listing
type MatchFinder interface {
	FindMatches(ctx context.Context, source *domain.Product) ([]domain.MatchResult, error)
}

// ProductFetcher fetches a single listing
type ProductFetcher interface {
	GetProduct(ctx context.Context, platform domain.Platform, platformID string) (*domain.Product, error)
}

// PlatformLister reports which marketplaces are configured
type PlatformLister interface {
	Platforms() []domain.Platform
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matches   MatchFinder
	products  ProductFetcher
	platforms PlatformLister
}

// NewHandler creates a new HTTP handler
func NewHandler(matches MatchFinder, products ProductFetcher, platforms PlatformLister) *Handler {
	return &Handler{matches: matches, products: products, platforms: platforms}
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MatchRequest is the body of POST /api/v1/match
type MatchRequest struct {
	Product *domain.Product `json:"product"`
}

// MatchResponse is the body returned by POST /api/v1/match
type MatchResponse struct {
	Source  SourceRef            `json:"source"`
	Target  domain.Platform      `json:"target"`
	Matches []domain.MatchResult `json:"matches"`
	Count   int                  `json:"count"`
}

// SourceRef identifies the listing a match response belongs to
type SourceRef struct {
	Platform   domain.Platform `json:"platform"`
	PlatformID string          `json:"platformId"`
}

// CompareRequest is the body of POST /api/v1/compare
type CompareRequest struct {
	Source *domain.Product `json:"source"`
	Match  *domain.Product `json:"match"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	platforms := []domain.Platform{}
	if h.platforms != nil {
		platforms = h.platforms.Platforms()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "shopmatch-backend",
		"version":   "1.0.0",
		"platforms": platforms,
	})
}

// FindMatches handles match requests
func (h *Handler) FindMatches(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Request body must be JSON with a product object")
		return
	}
	if req.Product == nil {
		h.badRequest(c, "product is required")
		return
	}
	if err := domain.ValidateProduct(req.Product); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	matches, err := h.matches.FindMatches(c.Request.Context(), req.Product)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MatchResponse{
		Source:  SourceRef{Platform: req.Product.Platform, PlatformID: req.Product.PlatformID},
		Target:  req.Product.Platform.Other(),
		Matches: matches,
		Count:   len(matches),
	})
}

// Compare handles comparison requests between a listing and a chosen match
func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Request body must be JSON with source and match objects")
		return
	}
	for _, p := range []*domain.Product{req.Source, req.Match} {
		if err := domain.ValidateProduct(p); err != nil {
			h.badRequest(c, err.Error())
			return
		}
	}

	comparison, err := usecase.Compare(req.Source, req.Match)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comparison": comparison})
}

// GetProduct handles listing detail requests
func (h *Handler) GetProduct(c *gin.Context) {
	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), platform, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *Handler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: message})
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status, code, message := http.StatusInternalServerError, "internal_error", "An unexpected error occurred"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidProduct):
		status, code, message = http.StatusBadRequest, "invalid_request", err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		status, code, message = http.StatusNotFound, "not_found", "Product not found"
	case errors.Is(err, domain.ErrPlatformNotConfigured):
		status, code, message = http.StatusServiceUnavailable, "platform_unavailable", "Marketplace is not configured"
	case errors.Is(err, domain.ErrProviderFailure):
		status, code, message = http.StatusBadGateway, "provider_error", "Marketplace request failed"
	case errors.Is(err, domain.ErrRateLimited):
		status, code, message = http.StatusTooManyRequests, "rate_limited", "Too many requests"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code, message = http.StatusGatewayTimeout, "timeout", "Request was cancelled or timed out"
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c).Error("request failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: code, Message: message})
}
