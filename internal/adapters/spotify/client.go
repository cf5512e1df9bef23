// Package spotify adapts the Spotify Web API to the catalog port.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/core/ports"
	"github.com/ewilliams-labs/moodtunes/internal/logging"
	"github.com/ewilliams-labs/moodtunes/internal/metrics"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Options configures a Client. Zero values fall back to DefaultOptions.
type Options struct {
	BaseURL string
	// MaxAttempts of 1 disables transport retries.
	MaxAttempts int
	Backoff     time.Duration
	// RequestsPerSecond of 0 disables outbound pacing.
	RequestsPerSecond float64
	Burst             int
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		BaseURL:           DefaultBaseURL,
		MaxAttempts:       1,
		Backoff:           time.Duration(defaultBackoffMs) * time.Millisecond,
		RequestsPerSecond: 10,
		Burst:             6,
		BreakerFailures:   5,
		BreakerTimeout:    30 * time.Second,
	}
}

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[[]domain.Track]
	log         zerolog.Logger
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// NewClient constructs a Spotify client. httpClient is expected to attach
// credentials, see NewAuthenticatedHTTPClient.
func NewClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	def := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = def.BaseURL
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = def.Backoff
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = def.BreakerFailures
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = def.BreakerTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(opts.Burst, 1))
	}

	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		maxRetries:  opts.MaxAttempts,
		baseBackoff: opts.Backoff,
		limiter:     limiter,
		log:         logging.WithComponent("spotify"),
	}
	c.breaker = newBreaker(opts.BreakerFailures, opts.BreakerTimeout, c.log)
	return c
}

// fetchTracks performs a paced, breaker-guarded GET and decodes the body into out.
// extract pulls the raw track list out of the decoded body.
func (c *Client) fetchTracks(ctx context.Context, op string, u *url.URL, out any, extract func() []*spotifyTrack) ([]domain.Track, error) {
	// pacing failures never count against the breaker
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("spotify adapter: %s rate limiter: %w", op, err)
	}

	return c.breaker.Execute(func() ([]domain.Track, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: failed to create %s request: %w", op, err)
		}

		resp, err := c.doRequestWithRetry(req)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: %s request failed: %w", op, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{Op: op, StatusCode: resp.StatusCode}
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("spotify adapter: %s decode error: %w", op, err)
		}

		return mapTracksToDomain(ctx, extract()), nil
	})
}

// StatusError reports a non-200 response from the Web API.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spotify adapter: %s status %d", e.Op, e.StatusCode)
}

// breakerNeutral reports errors that say nothing about catalog health.
func breakerNeutral(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < http.StatusInternalServerError && statusErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

func newBreaker(failures uint32, timeout time.Duration, log zerolog.Logger) *gobreaker.CircuitBreaker[[]domain.Track] {
	const name = "spotify"
	return gobreaker.NewCircuitBreaker[[]domain.Track](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: breakerNeutral,
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CatalogBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}
