package spotify

import (
	"context"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/logging"
)

// mapTrackToDomain converts a raw Spotify track to a domain track.
// It reports false for records that cannot be identified.
func mapTrackToDomain(st *spotifyTrack) (domain.Track, bool) {
	if st == nil || st.ID == "" {
		return domain.Track{}, false
	}

	dt := domain.Track{
		ID:         st.ID,
		Title:      st.Name,
		Artist:     domain.UnknownName,
		SpotifyURL: st.ExternalURLs.Spotify,
		Popularity: st.Popularity,
		DurationMs: st.DurationMs,
	}
	if dt.Title == "" {
		dt.Title = domain.UnknownName
	}
	if len(st.Artists) > 0 && st.Artists[0].Name != "" {
		dt.Artist = st.Artists[0].Name
	}
	if dt.SpotifyURL == "" {
		dt.SpotifyURL = domain.MissingLinkURL
	}
	if len(st.Album.Images) > 0 {
		dt.AlbumImage = st.Album.Images[0].URL
	}
	return dt, true
}

func mapTracksToDomain(ctx context.Context, items []*spotifyTrack) []domain.Track {
	tracks := make([]domain.Track, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		dt, ok := mapTrackToDomain(item)
		if !ok {
			logging.Ctx(ctx).Warn().Str("title", item.Name).Msg("catalog track missing id, skipping")
			continue
		}
		tracks = append(tracks, dt)
	}
	return tracks
}
