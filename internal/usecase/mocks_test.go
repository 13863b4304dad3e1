package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopmatch/backend/internal/domain"
)

// MockCandidateProvider is a mock implementation of domain.CandidateProvider
type MockCandidateProvider struct {
	mu sync.Mutex

	configured map[domain.Platform]bool

	queryResults      []domain.Product
	queryError        error
	identifierResults []domain.Product
	identifierError   error
	productResult     *domain.Product
	productError      error

	// beforeIdentifier runs ahead of every identifier search, outside the lock
	beforeIdentifier func(ctx context.Context)

	queryCalls      []string
	identifierCalls []string
	productCalls    int
	platformsCalled []domain.Platform
}

func NewMockCandidateProvider(configured ...domain.Platform) *MockCandidateProvider {
	m := &MockCandidateProvider{configured: make(map[domain.Platform]bool)}
	for _, p := range configured {
		m.configured[p] = true
	}
	return m
}

func (m *MockCandidateProvider) SearchByQuery(ctx context.Context, query string, platform domain.Platform) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls = append(m.queryCalls, query)
	m.platformsCalled = append(m.platformsCalled, platform)
	if m.queryError != nil {
		return nil, m.queryError
	}
	return m.queryResults, nil
}

func (m *MockCandidateProvider) SearchByIdentifier(ctx context.Context, identifier string, platform domain.Platform) ([]domain.Product, error) {
	if m.beforeIdentifier != nil {
		m.beforeIdentifier(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identifierCalls = append(m.identifierCalls, identifier)
	m.platformsCalled = append(m.platformsCalled, platform)
	if m.identifierError != nil {
		return nil, m.identifierError
	}
	return m.identifierResults, nil
}

func (m *MockCandidateProvider) GetProduct(ctx context.Context, platform domain.Platform, platformID string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.productCalls++
	if m.productError != nil {
		return nil, m.productError
	}
	return m.productResult, nil
}

func (m *MockCandidateProvider) IsConfigured(platform domain.Platform) bool {
	return m.configured[platform]
}

func (m *MockCandidateProvider) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queryCalls) + len(m.identifierCalls) + m.productCalls
}

var fixtureTime = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// newProduct builds a listing fixture
func newProduct(platform domain.Platform, id, title, brand string, price float64) domain.Product {
	return domain.Product{
		ID:         "fixture-" + id,
		Platform:   platform,
		PlatformID: id,
		Title:      title,
		Brand:      brand,
		Price:      domain.NewMoney(price, "USD"),
		FetchedAt:  fixtureTime,
	}
}

// ebayCandidates builds n distinct eBay listings with decreasing title overlap
func ebayCandidates(n int) []domain.Product {
	titles := []string{
		"Sony WH-1000XM4 Wireless Headphones",
		"Sony WH-1000XM4 Headphones",
		"Sony Wireless Headphones",
		"Sony Headphones Case",
		"Wireless Earbuds",
		"Headphone Stand",
		"USB Cable",
	}
	out := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, newProduct(domain.PlatformEbay, fmt.Sprintf("e%d", i), titles[i%len(titles)], "", 250))
	}
	return out
}
