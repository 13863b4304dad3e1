package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopmatch/backend/internal/domain"
)

// Compare summarises price, landed cost and rating differences between a
// source listing and a chosen match. Differences are match minus source.
func Compare(source, match *domain.Product) (*domain.Comparison, error) {
	if source == nil || match == nil {
		return nil, fmt.Errorf("%w: both source and match products are required", domain.ErrInvalidRequest)
	}

	priceDiff := match.Price.Amount.Sub(source.Price.Amount)

	percent := 0.0
	if source.Price.IsPositive() {
		percent = priceDiff.Div(source.Price.Amount).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}

	return &domain.Comparison{
		Source:           *source,
		Match:            *match,
		PriceDiff:        priceDiff,
		PriceDiffPercent: percent,
		TotalCostSource:  landedCost(source),
		TotalCostMatch:   landedCost(match),
		RatingDiff:       match.Rating.Average - source.Rating.Average,
		ReviewCountDiff:  match.Rating.Count - source.Rating.Count,
		CurrenciesDiffer: source.Price.Currency != match.Price.Currency,
	}, nil
}

// landedCost is the price plus shipping, when shipping is known
func landedCost(p *domain.Product) decimal.Decimal {
	if p.ShippingCost == nil {
		return p.Price.Amount
	}
	return p.Price.Amount.Add(p.ShippingCost.Amount)
}
