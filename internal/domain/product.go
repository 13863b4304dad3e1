package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Platform identifies one of the two supported marketplaces
type Platform string

const (
	PlatformAmazon Platform = "amazon"
	PlatformEbay   Platform = "ebay"
)

// Platforms lists every supported marketplace
var Platforms = []Platform{PlatformAmazon, PlatformEbay}

// Other returns the complementary marketplace. Matching never targets the source's own platform.
func (p Platform) Other() Platform {
	if p == PlatformAmazon {
		return PlatformEbay
	}
	return PlatformAmazon
}

// Valid reports whether p is a supported marketplace
func (p Platform) Valid() bool {
	return p == PlatformAmazon || p == PlatformEbay
}

// ParsePlatform converts user input into a Platform
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unsupported platform %q", ErrInvalidRequest, s)
	}
	return p, nil
}

// Money is a currency-tagged decimal amount
type Money struct {
	Amount   decimal.Decimal `json:"amount" validate:"gte=0"`
	Currency string          `json:"currency"`
}

// NewMoney builds a Money value from a float, defaulting the currency to USD
func NewMoney(amount float64, currency string) Money {
	if currency == "" {
		currency = "USD"
	}
	return Money{Amount: decimal.NewFromFloat(amount), Currency: currency}
}

// IsPositive reports whether the amount is strictly greater than zero
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// Spec is a single name/value attribute from a listing
type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Rating is the aggregate customer rating of a listing
type Rating struct {
	Average float64 `json:"average" validate:"gte=0,lte=5"`
	Count   int     `json:"count" validate:"gte=0"`
}

// Review is one customer review shown alongside a listing
type Review struct {
	Title  string  `json:"title,omitempty"`
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
	Author string  `json:"author,omitempty"`
	Date   string  `json:"date,omitempty"`
}

// OfferType classifies a promotional offer on a listing
type OfferType string

const (
	OfferCoupon OfferType = "coupon"
	OfferDeal   OfferType = "deal"
	OfferPromo  OfferType = "promo"
	OfferSale   OfferType = "sale"
)

// Offer is a promotion attached to a listing
type Offer struct {
	Type     OfferType `json:"type"`
	Label    string    `json:"label"`
	Discount string    `json:"discount,omitempty"`
}

// Product is the platform-agnostic representation of a marketplace listing.
// Platform and PlatformID always come from a real provider response.
type Product struct {
	ID         string   `json:"id"`
	Platform   Platform `json:"platform" validate:"required,oneof=amazon ebay"`
	PlatformID string   `json:"platformId" validate:"required"`

	Title    string `json:"title" validate:"required"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`
	Specs    []Spec `json:"specs"`

	Price        Money  `json:"price"`
	ShippingCost *Money `json:"shippingCost,omitempty"`
	ListPrice    *Money `json:"listPrice,omitempty"`

	Rating Rating `json:"rating"`

	UPC string `json:"upc,omitempty"`
	EAN string `json:"ean,omitempty"`

	// Display data, never used for scoring
	URL          string   `json:"url,omitempty"`
	ImageURLs    []string `json:"imageUrls,omitempty"`
	Description  string   `json:"description,omitempty"`
	Condition    string   `json:"condition,omitempty"`
	Availability string   `json:"availability,omitempty"`
	SellerName   string   `json:"sellerName,omitempty"`
	ShippingInfo string   `json:"shippingInfo,omitempty"`
	Reviews      []Review `json:"reviews,omitempty"`
	Offers       []Offer  `json:"offers,omitempty"`

	FetchedAt time.Time `json:"fetchedAt"`
}

// Identifier returns the external product code used for exact matching.
// UPC is preferred; EAN is the fallback.
func (p *Product) Identifier() string {
	if upc := strings.TrimSpace(p.UPC); upc != "" {
		return upc
	}
	return strings.TrimSpace(p.EAN)
}

// MatchMethod describes how a match was found
type MatchMethod string

const (
	MatchMethodIdentifierExact MatchMethod = "identifier-exact"
	MatchMethodKeywordFuzzy    MatchMethod = "keyword-fuzzy"
	// MatchMethodAdvisory is reserved for assisted matching and not produced by any tier yet
	MatchMethodAdvisory MatchMethod = "advisory"
)

// MatchResult is a candidate listing from the other marketplace with its confidence in [0,1]
type MatchResult struct {
	Product     Product     `json:"product"`
	Confidence  float64     `json:"confidence"`
	MatchMethod MatchMethod `json:"matchMethod"`
}

// Comparison summarises the commercial differences between a source listing and its match
type Comparison struct {
	Source           Product         `json:"source"`
	Match            Product         `json:"match"`
	PriceDiff        decimal.Decimal `json:"priceDiff"`
	PriceDiffPercent float64         `json:"priceDiffPercent"`
	TotalCostSource  decimal.Decimal `json:"totalCostSource"`
	TotalCostMatch   decimal.Decimal `json:"totalCostMatch"`
	RatingDiff       float64         `json:"ratingDiff"`
	ReviewCountDiff  int             `json:"reviewCountDiff"`
	CurrenciesDiffer bool            `json:"currenciesDiffer,omitempty"`
}
