package ebay

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	DefaultScope    = "https://api.ebay.com/oauth/api_scope"
)

// NewTokenSource returns an application token source for the Browse API.
// Tokens are reused until shortly before expiry and then refreshed.
func NewTokenSource(ctx context.Context, appID, certID, tokenURL string) oauth2.TokenSource {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	cfg := clientcredentials.Config{
		ClientID:     appID,
		ClientSecret: certID,
		TokenURL:     tokenURL,
		Scopes:       []string{DefaultScope},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return cfg.TokenSource(ctx)
}
