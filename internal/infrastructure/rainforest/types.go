package rainforest

// Response is the envelope returned by the Rainforest /request endpoint.
// Only one of Product or SearchResults is populated, depending on the request type.
type Response struct {
	RequestInfo   RequestInfo    `json:"request_info"`
	Product       *Product       `json:"product,omitempty"`
	SearchResults []SearchResult `json:"search_results,omitempty"`
}

// RequestInfo reports whether the upstream request succeeded
type RequestInfo struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// Price is an amount as reported by Rainforest
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Image is a product image reference
type Image struct {
	Link    string `json:"link"`
	Variant string `json:"variant,omitempty"`
}

// NameValue is a generic attribute pair
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Category is one entry of the product's category path
type Category struct {
	Name string `json:"name"`
}

// Shipping describes the buy box shipping offer
type Shipping struct {
	Raw   string   `json:"raw"`
	Value *float64 `json:"value,omitempty"`
}

// Availability is the raw availability string of the buy box
type Availability struct {
	Raw string `json:"raw"`
}

// Fulfillment describes who fulfils the buy box offer
type Fulfillment struct {
	Type string `json:"type"`
}

// BuyboxWinner is the offer Amazon shows by default
type BuyboxWinner struct {
	Price        *Price        `json:"price,omitempty"`
	Shipping     *Shipping     `json:"shipping,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
	Fulfillment  *Fulfillment  `json:"fulfillment,omitempty"`
}

// Author is the reviewer of a top review
type Author struct {
	Name string `json:"name"`
}

// RawDate is a date as displayed by Amazon
type RawDate struct {
	Raw string `json:"raw"`
}

// Review is one of the product's top reviews
type Review struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Rating float64  `json:"rating"`
	Author *Author  `json:"author,omitempty"`
	Date   *RawDate `json:"date,omitempty"`
}

// Coupon is a clippable coupon on the product page
type Coupon struct {
	BadgeText string `json:"badge_text"`
	Text      string `json:"text"`
}

// Deal is a time-limited deal on the product
type Deal struct {
	Type      string `json:"type"`
	BadgeText string `json:"badge_text"`
}

// Promotion is a free-text promotion
type Promotion struct {
	Raw string `json:"raw"`
}

// Product is the detail payload of a type=product request
type Product struct {
	ASIN           string        `json:"asin"`
	Title          string        `json:"title"`
	Brand          string        `json:"brand"`
	Link           string        `json:"link"`
	Price          *Price        `json:"price,omitempty"`
	ListPrice      *Price        `json:"list_price,omitempty"`
	Rating         float64       `json:"rating"`
	RatingsTotal   int           `json:"ratings_total"`
	MainImage      *Image        `json:"main_image,omitempty"`
	Images         []Image       `json:"images,omitempty"`
	Specifications []NameValue   `json:"specifications,omitempty"`
	Attributes     []NameValue   `json:"attributes,omitempty"`
	Categories     []Category    `json:"categories,omitempty"`
	BuyboxWinner   *BuyboxWinner `json:"buybox_winner,omitempty"`
	Description    string        `json:"description,omitempty"`
	FeatureBullets []string      `json:"feature_bullets,omitempty"`
	TopReviews     []Review      `json:"top_reviews,omitempty"`
	Coupon         *Coupon       `json:"coupon,omitempty"`
	Deal           *Deal         `json:"deal,omitempty"`
	Promotions     []Promotion   `json:"promotions,omitempty"`
}

// SearchResult is one entry of a type=search response
type SearchResult struct {
	ASIN         string  `json:"asin"`
	Title        string  `json:"title"`
	Brand        string  `json:"brand"`
	Link         string  `json:"link"`
	Image        string  `json:"image"`
	Price        *Price  `json:"price,omitempty"`
	Rating       float64 `json:"rating"`
	RatingsTotal int     `json:"ratings_total"`
}
