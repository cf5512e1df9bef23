package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
)

// ErrCatalogUnavailable indicates the catalog client could not be constructed,
// typically because the credential exchange failed at startup.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// RecommendationSeed describes a feature-seeded recommendation call.
type RecommendationSeed struct {
	Genres           []string
	Limit            int
	TargetValence    float64
	TargetEnergy     float64
	TargetPopularity int
}

// SearchQuery describes a keyword track search.
type SearchQuery struct {
	Query  string
	Limit  int
	Market string
}

// CatalogProvider is the external music catalog. Implementations skip
// records without an identifier and substitute defaults for other absent fields.
type CatalogProvider interface {
	Recommend(ctx context.Context, seed RecommendationSeed) ([]domain.Track, error)
	Search(ctx context.Context, query SearchQuery) ([]domain.Track, error)
}
