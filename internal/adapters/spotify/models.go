package spotify

// spotifyTrack is the subset of the Web API track object the adapter reads.
// Every field may be absent; the mapper substitutes defaults.
type spotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []spotifyArtist `json:"artists"`
	Album        spotifyAlbum    `json:"album"`
	Popularity   int             `json:"popularity"`
	DurationMs   int             `json:"duration_ms"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// searchResponse is the body of GET /search?type=track.
type searchResponse struct {
	Tracks struct {
		Items []*spotifyTrack `json:"items"`
		Total int             `json:"total"`
	} `json:"tracks"`
}

// recommendationsResponse is the body of GET /recommendations.
type recommendationsResponse struct {
	Tracks []*spotifyTrack `json:"tracks"`
}
