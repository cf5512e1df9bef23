package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/core/ports"
	"github.com/ewilliams-labs/moodtunes/internal/logging"
)

// Recommend asks the recommendations endpoint for tracks near the seed targets.
func (c *Client) Recommend(ctx context.Context, seed ports.RecommendationSeed) ([]domain.Track, error) {
	if len(seed.Genres) == 0 {
		return nil, fmt.Errorf("spotify adapter: recommendations need at least one seed genre")
	}

	recURL, err := url.Parse(c.baseURL + "/recommendations")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid recommendations url: %w", err)
	}

	query := recURL.Query()
	query.Set("seed_genres", strings.Join(seed.Genres, ","))
	if seed.Limit > 0 {
		query.Set("limit", strconv.Itoa(seed.Limit))
	}
	query.Set("target_valence", strconv.FormatFloat(seed.TargetValence, 'f', -1, 64))
	query.Set("target_energy", strconv.FormatFloat(seed.TargetEnergy, 'f', -1, 64))
	query.Set("target_popularity", strconv.Itoa(seed.TargetPopularity))
	recURL.RawQuery = query.Encode()

	logging.Ctx(ctx).Debug().Str("url", recURL.String()).Msg("spotify recommendations request")

	var body recommendationsResponse
	return c.fetchTracks(ctx, "recommendations", recURL, &body, func() []*spotifyTrack {
		return body.Tracks
	})
}
