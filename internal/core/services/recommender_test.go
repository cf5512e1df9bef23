package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/core/ports"
)

// --- Mocks ---

type identityRand struct{}

func (identityRand) Shuffle(int, func(i, j int)) {}

type mockCatalog struct {
	mu sync.Mutex

	recommendTracks []domain.Track
	recommendErr    error
	recommendPanic  any

	// searchFn overrides the per-query behaviour when set.
	searchFn     func(ctx context.Context, q ports.SearchQuery) ([]domain.Track, error)
	searchTracks []domain.Track
	searchErr    error

	seeds   []ports.RecommendationSeed
	queries []ports.SearchQuery
}

func (m *mockCatalog) Recommend(ctx context.Context, seed ports.RecommendationSeed) ([]domain.Track, error) {
	m.mu.Lock()
	m.seeds = append(m.seeds, seed)
	m.mu.Unlock()
	if m.recommendPanic != nil {
		panic(m.recommendPanic)
	}
	if m.recommendErr != nil {
		return nil, m.recommendErr
	}
	return m.recommendTracks, nil
}

func (m *mockCatalog) Search(ctx context.Context, q ports.SearchQuery) ([]domain.Track, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchTracks, nil
}

func tracks(prefix string, n int) []domain.Track {
	out := make([]domain.Track, n)
	for i := range out {
		out[i] = domain.Track{
			ID:         fmt.Sprintf("%s-%d", prefix, i),
			Title:      fmt.Sprintf("%s song %d", prefix, i),
			Artist:     prefix + " artist",
			SpotifyURL: "https://open.spotify.com/track/" + prefix,
		}
	}
	return out
}

func assertUniqueSongs(t *testing.T, songs []domain.Song) {
	t.Helper()
	seen := make(map[string]struct{}, len(songs))
	for _, s := range songs {
		_, dup := seen[s.Key()]
		assert.False(t, dup, "duplicate song %q", s.Key())
		seen[s.Key()] = struct{}{}
	}
}

var sadRequest = domain.MoodRequest{
	Mood: "sad", Valence: 0.6, Energy: 0.6,
	Danceability: 0.5, Acousticness: 0.5, Instrumentalness: 0.5,
	Tempo: 120, Popularity: 50,
}

// --- Tests ---

func TestRecommender_Recommend(t *testing.T) {
	tests := []struct {
		name       string
		catalog    *mockCatalog
		wantSongs  int
		wantTitles []string
	}{
		{
			name: "primary and search combine",
			catalog: &mockCatalog{
				recommendTracks: tracks("rec", 3),
				searchTracks:    tracks("search", 4),
			},
			wantSongs: 7,
		},
		{
			name: "primary failure is ignored",
			catalog: &mockCatalog{
				recommendErr: errors.New("404 recommendations gone"),
				searchTracks: tracks("search", 2),
			},
			wantSongs:  2,
			wantTitles: []string{"search song 0", "search song 1"},
		},
		{
			name: "every call fails yields empty success",
			catalog: &mockCatalog{
				recommendErr: errors.New("boom"),
				searchErr:    errors.New("boom"),
			},
			wantSongs: 0,
		},
		{
			name: "tracks without id are excluded",
			catalog: &mockCatalog{
				searchTracks: []domain.Track{
					{Title: "ghost", Artist: "nobody"},
					{ID: "ok", Title: "real", Artist: "somebody"},
				},
			},
			wantSongs:  1,
			wantTitles: []string{"real"},
		},
		{
			name: "same song under different ids is deduplicated",
			catalog: &mockCatalog{
				recommendTracks: []domain.Track{{ID: "us", Title: "Holocene", Artist: "Bon Iver"}},
				searchTracks:    []domain.Track{{ID: "eu", Title: "Holocene", Artist: "Bon Iver"}},
			},
			wantSongs:  1,
			wantTitles: []string{"Holocene"},
		},
		{
			name: "response is capped at ten",
			catalog: &mockCatalog{
				recommendTracks: tracks("rec", 10),
				searchTracks:    tracks("search", 15),
			},
			wantSongs: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRecommender(tt.catalog, identityRand{}, DefaultConfig())

			res, err := svc.Recommend(context.Background(), sadRequest)
			require.NoError(t, err)
			require.NotNil(t, res.Songs)
			assert.Len(t, res.Songs, tt.wantSongs)
			assertUniqueSongs(t, res.Songs)

			for i, title := range tt.wantTitles {
				assert.Equal(t, title, res.Songs[i].Title)
			}
		})
	}
}

func TestRecommender_PrimarySeed(t *testing.T) {
	catalog := &mockCatalog{}
	svc := NewRecommender(catalog, identityRand{}, DefaultConfig())

	res, err := svc.Recommend(context.Background(), sadRequest)
	require.NoError(t, err)

	require.Len(t, catalog.seeds, 1)
	seed := catalog.seeds[0]
	assert.Equal(t, []string{"acoustic"}, seed.Genres)
	assert.Equal(t, 10, seed.Limit)
	assert.InDelta(t, 0.3, seed.TargetValence, 1e-9)
	assert.InDelta(t, 0.4, seed.TargetEnergy, 1e-9)
	assert.Equal(t, 50, seed.TargetPopularity)
	assert.InDelta(t, 0.3, res.Plan.AdjustedValence, 1e-9)
	assert.InDelta(t, 0.4, res.Plan.AdjustedEnergy, 1e-9)
}

func TestRecommender_SearchQueries(t *testing.T) {
	catalog := &mockCatalog{}
	svc := NewRecommender(catalog, identityRand{}, DefaultConfig())

	req := sadRequest
	req.Context = "rainy day"
	req.Goal = "sleep"
	res, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"sad music", "sad songs", "sad", "acoustic", "rainy day music"}, res.Queries)
	require.Len(t, catalog.queries, 5)
	for _, q := range catalog.queries {
		assert.Equal(t, 15, q.Limit)
		assert.Equal(t, "US", q.Market)
	}
}

func TestRecommender_SearchCapAcrossCalls(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	catalog := &mockCatalog{
		recommendTracks: tracks("rec", 4),
		searchFn: func(ctx context.Context, q ports.SearchQuery) ([]domain.Track, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			return tracks(fmt.Sprintf("q%d", n), 15), nil
		},
	}
	cfg := DefaultConfig()
	cfg.ResponseLimit = 100
	svc := NewRecommender(catalog, identityRand{}, cfg)

	res, err := svc.Recommend(context.Background(), sadRequest)
	require.NoError(t, err)
	assert.Len(t, res.Songs, 15)
	assertUniqueSongs(t, res.Songs)
}

func TestRecommender_FailingQueryDoesNotStopOthers(t *testing.T) {
	catalog := &mockCatalog{
		recommendErr: errors.New("unavailable"),
		searchFn: func(ctx context.Context, q ports.SearchQuery) ([]domain.Track, error) {
			switch q.Query {
			case "sad music":
				return nil, errors.New("rate limited")
			case "sad songs":
				panic("malformed payload")
			default:
				return []domain.Track{{ID: q.Query, Title: q.Query, Artist: "a"}}, nil
			}
		},
	}
	svc := NewRecommender(catalog, identityRand{}, DefaultConfig())

	res, err := svc.Recommend(context.Background(), sadRequest)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sad", "acoustic"}, titles(res.Songs))
}

func TestRecommender_PanickingPrimaryIsIgnored(t *testing.T) {
	catalog := &mockCatalog{
		recommendPanic: "nil map in payload",
		searchTracks:   tracks("search", 3),
	}
	svc := NewRecommender(catalog, identityRand{}, DefaultConfig())

	res, err := svc.Recommend(context.Background(), sadRequest)
	require.NoError(t, err)
	assert.Len(t, res.Songs, 3)
	assert.Len(t, catalog.queries, 4)
}

func TestRecommender_CallTimeoutIsOrdinaryFailure(t *testing.T) {
	catalog := &mockCatalog{
		recommendTracks: tracks("rec", 2),
		searchFn: func(ctx context.Context, q ports.SearchQuery) ([]domain.Track, error) {
			if q.Query == "sad" {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return nil, nil
		},
	}
	cfg := DefaultConfig()
	cfg.CallTimeout = 20 * time.Millisecond
	svc := NewRecommender(catalog, identityRand{}, cfg)

	res, err := svc.Recommend(context.Background(), sadRequest)
	require.NoError(t, err)
	assert.Len(t, res.Songs, 2)
}

func TestRecommender_CanceledRequestFailsSearchStage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	catalog := &mockCatalog{
		recommendTracks: tracks("rec", 2),
		searchFn: func(callCtx context.Context, q ports.SearchQuery) ([]domain.Track, error) {
			cancel()
			return nil, callCtx.Err()
		},
	}
	svc := NewRecommender(catalog, identityRand{}, DefaultConfig())

	res, err := svc.Recommend(ctx, sadRequest)
	var searchErr *SearchFailedError
	require.ErrorAs(t, err, &searchErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "Search failed")
	assert.Empty(t, res.Songs)
}

func TestRecommender_NoCatalog(t *testing.T) {
	svc := NewRecommender(nil, identityRand{}, DefaultConfig())
	assert.False(t, svc.CatalogAvailable())

	res, err := svc.Recommend(context.Background(), sadRequest)
	require.NoError(t, err)
	assert.NotNil(t, res.Songs)
	assert.Empty(t, res.Songs)
	assert.Len(t, res.Queries, 4)
}

func TestRecommender_UnknownMoodBehavesLikeHappy(t *testing.T) {
	happyCatalog := &mockCatalog{}
	unknownCatalog := &mockCatalog{}

	req := sadRequest
	req.Mood = "happy"
	_, err := NewRecommender(happyCatalog, identityRand{}, DefaultConfig()).Recommend(context.Background(), req)
	require.NoError(t, err)

	req.Mood = "wistful"
	_, err = NewRecommender(unknownCatalog, identityRand{}, DefaultConfig()).Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, happyCatalog.seeds, unknownCatalog.seeds)
}

func TestCollector_CapAppliesOnlyToSearch(t *testing.T) {
	col := newCollector(2)
	ctx := context.Background()

	assert.True(t, col.add(ctx, domain.Track{ID: "a"}, false))
	assert.True(t, col.add(ctx, domain.Track{ID: "b"}, false))
	assert.True(t, col.add(ctx, domain.Track{ID: "c"}, false))
	assert.False(t, col.add(ctx, domain.Track{ID: "d"}, true))
	assert.False(t, col.add(ctx, domain.Track{ID: "a"}, false))
	assert.Equal(t, 3, col.count())
}

func titles(songs []domain.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.Title
	}
	return out
}
