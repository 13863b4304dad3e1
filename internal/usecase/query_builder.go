package usecase

import (
	"regexp"
	"strings"

	"github.com/shopmatch/backend/internal/domain"
)

// maxQueryTitleTokens caps how many cleaned title words follow the brand in a search query
const maxQueryTitleTokens = 6

// Compiled regex patterns for title cleaning
var (
	// Matches parenthetical asides like "(Black, 2021 Model)"
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)

	// Matches bracketed asides like "[Renewed]"
	bracketedPattern = regexp.MustCompile(`\[[^\]]*\]`)

	// Matches pack sizes like "2 pack", ", 12 count", "6-pk", "24ct", "3 pieces"
	packSizePattern = regexp.MustCompile(`(?i),?\s*\b\d+\s*-?\s*(?:pack|count|pieces?|ct|pk)\b`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// CleanTitle strips parenthetical and bracketed text and pack sizes from a
// listing title and normalizes whitespace
func CleanTitle(title string) string {
	cleaned := parentheticalPattern.ReplaceAllString(title, "")
	cleaned = bracketedPattern.ReplaceAllString(cleaned, "")
	cleaned = packSizePattern.ReplaceAllString(cleaned, "")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// BuildSearchQuery derives a marketplace search string from a listing:
// the brand (if any) followed by up to six words of the cleaned title.
// A title that already opens with the brand does not repeat it.
func BuildSearchQuery(product *domain.Product) string {
	brand := strings.TrimSpace(product.Brand)
	titleWords := strings.Fields(CleanTitle(product.Title))

	var parts []string
	if brand != "" {
		parts = append(parts, brand)
		titleWords = trimLeadingWords(titleWords, strings.Fields(brand))
	}

	if len(titleWords) > maxQueryTitleTokens {
		titleWords = titleWords[:maxQueryTitleTokens]
	}
	parts = append(parts, titleWords...)

	return strings.Join(parts, " ")
}

// trimLeadingWords drops prefix from words when words starts with it (case-insensitive)
func trimLeadingWords(words, prefix []string) []string {
	if len(prefix) == 0 || len(words) < len(prefix) {
		return words
	}
	for i, p := range prefix {
		if !strings.EqualFold(words[i], p) {
			return words
		}
	}
	return words[len(prefix):]
}
