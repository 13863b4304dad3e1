package ebay

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopmatch/backend/internal/domain"
)

// NormalizeSearchResults converts item summaries into domain products,
// dropping entries that fail validation
func NormalizeSearchResults(items []ItemSummary, fetchedAt time.Time) []domain.Product {
	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		p := domain.Product{
			ID:           uuid.NewString(),
			Platform:     domain.PlatformEbay,
			PlatformID:   strings.TrimSpace(item.ItemID),
			Title:        strings.TrimSpace(item.Title),
			Specs:        []domain.Spec{},
			Price:        toMoney(item.Price),
			ShippingCost: shippingCost(item.ShippingOptions),
			URL:          item.ItemWebURL,
			Condition:    item.Condition,
			FetchedAt:    fetchedAt,
		}
		if len(item.Categories) > 0 {
			p.Category = item.Categories[0].CategoryName
		}
		if item.Image != nil && item.Image.ImageURL != "" {
			p.ImageURLs = []string{item.Image.ImageURL}
		}
		if item.Seller != nil {
			p.SellerName = item.Seller.Username
		}
		if domain.ValidateProduct(&p) != nil {
			continue
		}
		products = append(products, p)
	}
	return products
}

// NormalizeItem converts a full item payload into a domain product
func NormalizeItem(item *Item, fetchedAt time.Time) (*domain.Product, error) {
	if item == nil {
		return nil, domain.ErrProductNotFound
	}

	p := &domain.Product{
		ID:           uuid.NewString(),
		Platform:     domain.PlatformEbay,
		PlatformID:   strings.TrimSpace(item.ItemID),
		Title:        strings.TrimSpace(item.Title),
		Brand:        brand(item),
		Category:     item.CategoryPath,
		Specs:        toSpecs(item.LocalizedAspects),
		Price:        toMoney(item.Price),
		ShippingCost: shippingCost(item.ShippingOptions),
		Rating:       toRating(item.PrimaryProductReviewRating),
		URL:          item.ItemWebURL,
		ImageURLs:    imageURLs(item),
		Description:  strings.TrimSpace(item.ShortDescription),
		Condition:    item.Condition,
		FetchedAt:    fetchedAt,
	}
	p.UPC, p.EAN = splitGTIN(item.GTIN)

	if len(item.ShippingOptions) > 0 {
		p.ShippingInfo = item.ShippingOptions[0].Type
	}

	if len(item.EstimatedAvailabilities) > 0 {
		p.Availability = item.EstimatedAvailabilities[0].EstimatedAvailabilityStatus
	}
	if item.Seller != nil {
		p.SellerName = item.Seller.Username
	}

	if err := domain.ValidateProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// toMoney parses the string amount. Unparseable values become zero.
func toMoney(a *Amount) domain.Money {
	if a == nil {
		return domain.NewMoney(0, "")
	}
	currency := a.Currency
	if currency == "" {
		currency = "USD"
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(a.Value))
	if err != nil {
		amount = decimal.Zero
	}
	return domain.Money{Amount: amount, Currency: currency}
}

func shippingCost(options []ShippingOption) *domain.Money {
	if len(options) == 0 || options[0].ShippingCost == nil || options[0].ShippingCost.Value == "" {
		return nil
	}
	cost := toMoney(options[0].ShippingCost)
	return &cost
}

func toRating(r *ReviewRating) domain.Rating {
	if r == nil {
		return domain.Rating{}
	}
	average, _ := strconv.ParseFloat(strings.TrimSpace(r.AverageRating), 64)
	return domain.Rating{
		Average: math.Max(0, math.Min(5, average)),
		Count:   max(0, r.ReviewCount),
	}
}

// brand prefers the structured field and falls back to the Brand item specific
func brand(item *Item) string {
	if b := strings.TrimSpace(item.Brand); b != "" {
		return b
	}
	for _, aspect := range item.LocalizedAspects {
		if strings.EqualFold(aspect.Name, "Brand") {
			return strings.TrimSpace(aspect.Value)
		}
	}
	return ""
}

func toSpecs(aspects []LocalizedAspect) []domain.Spec {
	specs := make([]domain.Spec, 0, len(aspects))
	for _, a := range aspects {
		if a.Name == "" {
			continue
		}
		specs = append(specs, domain.Spec{Name: a.Name, Value: a.Value})
	}
	return specs
}

func imageURLs(item *Item) []string {
	var urls []string
	if item.Image != nil && item.Image.ImageURL != "" {
		urls = append(urls, item.Image.ImageURL)
	}
	for _, img := range item.AdditionalImages {
		if img.ImageURL != "" {
			urls = append(urls, img.ImageURL)
		}
	}
	return urls
}

// splitGTIN files a GTIN under UPC or EAN by length. 13 digits is an EAN;
// anything else is kept as UPC.
func splitGTIN(gtin string) (upc, ean string) {
	gtin = strings.TrimSpace(gtin)
	if gtin == "" {
		return "", ""
	}
	if len(gtin) == 13 {
		return "", gtin
	}
	return gtin, ""
}
