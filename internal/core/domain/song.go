package domain

// Placeholders for absent catalog fields.
const (
	UnknownName    = "Unknown"
	MissingLinkURL = "#"
)

// Track is a catalog record: the external identifier plus song metadata.
type Track struct {
	ID         string
	Title      string
	Artist     string // first listed artist only
	SpotifyURL string
	AlbumImage string
	Popularity int
	DurationMs int
}

// Song is the normalized record returned to callers.
type Song struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	SpotifyURL string `json:"spotify_url"`
	AlbumImage string `json:"album_image"`
	Popularity int    `json:"popularity"`
	DurationMs int    `json:"duration_ms"`
}

// Song converts the track to its response form.
func (t Track) Song() Song {
	return Song{
		Title:      t.Title,
		Artist:     t.Artist,
		SpotifyURL: t.SpotifyURL,
		AlbumImage: t.AlbumImage,
		Popularity: t.Popularity,
		DurationMs: t.DurationMs,
	}
}

// Key identifies a song across catalog re-releases.
func (s Song) Key() string {
	return s.Title + "-" + s.Artist
}

// DedupeSongs drops every song whose title-artist key was already seen.
// The first occurrence wins and order is preserved.
func DedupeSongs(songs []Song) []Song {
	seen := make(map[string]struct{}, len(songs))
	unique := make([]Song, 0, len(songs))
	for _, s := range songs {
		key := s.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, s)
	}
	return unique
}
