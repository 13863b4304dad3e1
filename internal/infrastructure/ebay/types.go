package ebay

// Amount is a monetary value; the Browse API encodes the value as a string
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Image is an item image reference
type Image struct {
	ImageURL string `json:"imageUrl"`
}

// Seller identifies the listing seller
type Seller struct {
	Username           string `json:"username"`
	FeedbackPercentage string `json:"feedbackPercentage,omitempty"`
}

// ShippingOption is one shipping offer of a listing
type ShippingOption struct {
	ShippingCost     *Amount `json:"shippingCost,omitempty"`
	ShippingCostType string  `json:"shippingCostType,omitempty"`
	Type             string  `json:"type,omitempty"`
}

// LocalizedAspect is a name/value item specific such as Brand or Color
type LocalizedAspect struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EstimatedAvailability reports stock status
type EstimatedAvailability struct {
	EstimatedAvailabilityStatus string `json:"estimatedAvailabilityStatus"`
}

// ReviewRating is the aggregate product review rating
type ReviewRating struct {
	ReviewCount   int    `json:"reviewCount"`
	AverageRating string `json:"averageRating"`
}

// ItemSummary is one entry of an item_summary/search response
type ItemSummary struct {
	ItemID          string           `json:"itemId"`
	Title           string           `json:"title"`
	Price           *Amount          `json:"price,omitempty"`
	Image           *Image           `json:"image,omitempty"`
	Condition       string           `json:"condition,omitempty"`
	Seller          *Seller          `json:"seller,omitempty"`
	ItemWebURL      string           `json:"itemWebUrl,omitempty"`
	ShippingOptions []ShippingOption `json:"shippingOptions,omitempty"`
	Categories      []Category       `json:"categories,omitempty"`
}

// Category is a leaf-to-root category reference
type Category struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// SearchResponse is the item_summary/search payload
type SearchResponse struct {
	Total         int           `json:"total"`
	ItemSummaries []ItemSummary `json:"itemSummaries,omitempty"`
}

// Item is the full item detail payload
type Item struct {
	ItemID                     string                  `json:"itemId"`
	Title                      string                  `json:"title"`
	Price                      *Amount                 `json:"price,omitempty"`
	Image                      *Image                  `json:"image,omitempty"`
	AdditionalImages           []Image                 `json:"additionalImages,omitempty"`
	Condition                  string                  `json:"condition,omitempty"`
	Seller                     *Seller                 `json:"seller,omitempty"`
	ItemWebURL                 string                  `json:"itemWebUrl,omitempty"`
	ShortDescription           string                  `json:"shortDescription,omitempty"`
	Brand                      string                  `json:"brand,omitempty"`
	MPN                        string                  `json:"mpn,omitempty"`
	GTIN                       string                  `json:"gtin,omitempty"`
	CategoryPath               string                  `json:"categoryPath,omitempty"`
	ShippingOptions            []ShippingOption        `json:"shippingOptions,omitempty"`
	LocalizedAspects           []LocalizedAspect       `json:"localizedAspects,omitempty"`
	EstimatedAvailabilities    []EstimatedAvailability `json:"estimatedAvailabilities,omitempty"`
	PrimaryProductReviewRating *ReviewRating           `json:"primaryProductReviewRating,omitempty"`
}

// ErrorResponse is the Browse API error envelope
type ErrorResponse struct {
	Errors []struct {
		ErrorID int    `json:"errorId"`
		Message string `json:"message"`
	} `json:"errors"`
}
