package rainforest

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopmatch/backend/internal/domain"
)

const (
	productURLPrefix = "https://www.amazon.com/dp/"
	maxReviews       = 5
)

// NormalizeSearchResults converts search results into domain products.
// Entries that fail validation, such as those without an ASIN or title, are dropped.
func NormalizeSearchResults(results []SearchResult, fetchedAt time.Time) []domain.Product {
	products := make([]domain.Product, 0, len(results))
	for _, r := range results {
		p := domain.Product{
			ID:         uuid.NewString(),
			Platform:   domain.PlatformAmazon,
			PlatformID: strings.TrimSpace(r.ASIN),
			Title:      strings.TrimSpace(r.Title),
			Brand:      strings.TrimSpace(r.Brand),
			Specs:      []domain.Spec{},
			Price:      toMoney(r.Price),
			Rating:     toRating(r.Rating, r.RatingsTotal),
			URL:        productURL(r.Link, r.ASIN),
			FetchedAt:  fetchedAt,
		}
		if r.Image != "" {
			p.ImageURLs = []string{r.Image}
		}
		if domain.ValidateProduct(&p) != nil {
			continue
		}
		products = append(products, p)
	}
	return products
}

// NormalizeProduct converts a product detail payload into a domain product.
// The buy box price wins over the listed price.
func NormalizeProduct(raw *Product, fetchedAt time.Time) (*domain.Product, error) {
	if raw == nil {
		return nil, domain.ErrProductNotFound
	}

	p := &domain.Product{
		ID:          uuid.NewString(),
		Platform:    domain.PlatformAmazon,
		PlatformID:  strings.TrimSpace(raw.ASIN),
		Title:       strings.TrimSpace(raw.Title),
		Brand:       strings.TrimSpace(raw.Brand),
		Specs:       toSpecs(raw.Specifications),
		Price:       toMoney(raw.Price),
		Rating:      toRating(raw.Rating, raw.RatingsTotal),
		URL:         productURL(raw.Link, raw.ASIN),
		ImageURLs:   imageURLs(raw),
		Description: description(raw),
		Condition:   "New",
		Reviews:     toReviews(raw.TopReviews),
		FetchedAt:   fetchedAt,
	}

	if len(raw.Categories) > 0 {
		p.Category = raw.Categories[0].Name
	}
	if raw.ListPrice != nil && raw.ListPrice.Value > 0 {
		listPrice := toMoney(raw.ListPrice)
		p.ListPrice = &listPrice
	}

	if bb := raw.BuyboxWinner; bb != nil {
		if bb.Price != nil {
			p.Price = toMoney(bb.Price)
		}
		if bb.Shipping != nil {
			p.ShippingInfo = bb.Shipping.Raw
			if bb.Shipping.Value != nil {
				shipping := domain.NewMoney(*bb.Shipping.Value, p.Price.Currency)
				p.ShippingCost = &shipping
			}
		}
		if bb.Availability != nil {
			p.Availability = bb.Availability.Raw
		}
		if bb.Fulfillment != nil {
			p.SellerName = bb.Fulfillment.Type
		}
	}

	p.Offers = offers(raw, p.Price, p.ListPrice)

	// Attributes carry the product codes; specifications are a fallback
	p.UPC, p.EAN = extractIdentifiers(raw.Attributes)
	if p.UPC == "" && p.EAN == "" {
		p.UPC, p.EAN = extractIdentifiers(raw.Specifications)
	}

	if err := domain.ValidateProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

func toMoney(price *Price) domain.Money {
	if price == nil {
		return domain.NewMoney(0, "")
	}
	return domain.NewMoney(price.Value, price.Currency)
}

func toRating(average float64, count int) domain.Rating {
	return domain.Rating{
		Average: math.Max(0, math.Min(5, average)),
		Count:   max(0, count),
	}
}

func toSpecs(values []NameValue) []domain.Spec {
	specs := make([]domain.Spec, 0, len(values))
	for _, v := range values {
		if v.Name == "" {
			continue
		}
		specs = append(specs, domain.Spec{Name: v.Name, Value: v.Value})
	}
	return specs
}

// description prefers the long description and falls back to the feature bullets
func description(raw *Product) string {
	if d := strings.TrimSpace(raw.Description); d != "" {
		return d
	}
	return strings.Join(raw.FeatureBullets, "\n")
}

func toReviews(raw []Review) []domain.Review {
	if len(raw) == 0 {
		return nil
	}
	reviews := make([]domain.Review, 0, min(len(raw), maxReviews))
	for _, r := range raw[:min(len(raw), maxReviews)] {
		review := domain.Review{
			Title:  r.Title,
			Text:   r.Body,
			Rating: math.Max(0, math.Min(5, r.Rating)),
		}
		if r.Author != nil {
			review.Author = r.Author.Name
		}
		if r.Date != nil {
			review.Date = r.Date.Raw
		}
		reviews = append(reviews, review)
	}
	return reviews
}

// offers collects coupons, deals, promotions and the list price discount
func offers(raw *Product, price domain.Money, listPrice *domain.Money) []domain.Offer {
	var out []domain.Offer

	if c := raw.Coupon; c != nil {
		label := firstNonEmpty(c.Text, c.BadgeText, "Coupon available")
		out = append(out, domain.Offer{Type: domain.OfferCoupon, Label: label, Discount: c.BadgeText})
	}
	if d := raw.Deal; d != nil {
		out = append(out, domain.Offer{Type: domain.OfferDeal, Label: firstNonEmpty(d.BadgeText, d.Type, "Deal")})
	}
	for _, promo := range raw.Promotions {
		out = append(out, domain.Offer{Type: domain.OfferPromo, Label: firstNonEmpty(promo.Raw, "Promotion")})
	}

	if listPrice != nil && price.IsPositive() && price.Amount.LessThan(listPrice.Amount) {
		saving := listPrice.Amount.Sub(price.Amount)
		percent := saving.Div(listPrice.Amount).Mul(decimal.NewFromInt(100)).Round(0)
		out = append(out, domain.Offer{
			Type:     domain.OfferSale,
			Label:    fmt.Sprintf("Save $%s (%s%% off)", saving.StringFixed(2), percent.String()),
			Discount: percent.String() + "%",
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func imageURLs(raw *Product) []string {
	var urls []string
	for _, img := range raw.Images {
		if img.Link != "" {
			urls = append(urls, img.Link)
		}
	}
	if len(urls) == 0 && raw.MainImage != nil && raw.MainImage.Link != "" {
		urls = append(urls, raw.MainImage.Link)
	}
	return urls
}

func productURL(link, asin string) string {
	if link != "" {
		return link
	}
	if asin == "" {
		return ""
	}
	return productURLPrefix + asin
}

// extractIdentifiers returns the first UPC and EAN found among attribute names
func extractIdentifiers(values []NameValue) (upc, ean string) {
	for _, v := range values {
		name := strings.ToLower(v.Name)
		value := strings.TrimSpace(v.Value)
		if value == "" {
			continue
		}
		switch {
		case upc == "" && strings.Contains(name, "upc"):
			upc = firstCode(value)
		case ean == "" && strings.Contains(name, "ean"):
			ean = firstCode(value)
		}
	}
	return upc, ean
}

// firstCode picks the first code from lists like "012345678905 012345678912"
func firstCode(value string) string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';'
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
