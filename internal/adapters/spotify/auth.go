package spotify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/moodtunes/internal/core/ports"
)

// TokenURL is the Spotify accounts token endpoint.
const TokenURL = "https://accounts.spotify.com/api/token"

// Credentials for the client-credentials flow.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// NewAuthenticatedHTTPClient performs the client-credentials exchange once and
// returns an HTTP client that attaches and refreshes the bearer token.
// Any failure wraps ports.ErrCatalogUnavailable.
func NewAuthenticatedHTTPClient(ctx context.Context, creds Credentials, timeout time.Duration) (*http.Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("spotify adapter: credentials not found: %w", ports.ErrCatalogUnavailable)
	}
	if creds.TokenURL == "" {
		creds.TokenURL = TokenURL
	}

	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
	}

	base := &http.Client{Timeout: timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	ts := cfg.TokenSource(ctx)
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("spotify adapter: token exchange failed: %w: %w", ports.ErrCatalogUnavailable, err)
	}

	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = timeout
	return hc, nil
}
