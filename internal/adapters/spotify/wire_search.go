package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/core/ports"
	"github.com/ewilliams-labs/moodtunes/internal/logging"
)

// Search runs a free-text track search.
func (c *Client) Search(ctx context.Context, q ports.SearchQuery) ([]domain.Track, error) {
	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}

	query := searchURL.Query()
	query.Set("q", q.Query)
	query.Set("type", "track")
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Market != "" {
		query.Set("market", q.Market)
	}
	searchURL.RawQuery = query.Encode()

	logging.Ctx(ctx).Debug().Str("url", searchURL.String()).Msg("spotify search request")

	var body searchResponse
	return c.fetchTracks(ctx, "search", searchURL, &body, func() []*spotifyTrack {
		return body.Tracks.Items
	})
}
