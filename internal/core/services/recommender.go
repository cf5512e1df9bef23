package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/core/ports"
	"github.com/ewilliams-labs/moodtunes/internal/logging"
	"github.com/ewilliams-labs/moodtunes/internal/metrics"
)

const (
	opRecommend = "recommend"
	opSearch    = "search"
)

// Config tunes the fetch strategies.
type Config struct {
	Market        string
	CallTimeout   time.Duration
	PrimaryLimit  int
	SearchLimit   int
	SearchCap     int
	ResponseLimit int
}

// DefaultConfig returns the limits used by the mood recommendation endpoint.
func DefaultConfig() Config {
	return Config{
		Market:        "US",
		CallTimeout:   10 * time.Second,
		PrimaryLimit:  10,
		SearchLimit:   15,
		SearchCap:     15,
		ResponseLimit: 10,
	}
}

// SearchFailedError reports that the search stage itself failed, as opposed to
// individual search calls, which are logged and skipped.
type SearchFailedError struct {
	Cause error
}

func (e *SearchFailedError) Error() string {
	return fmt.Sprintf("Search failed: %v", e.Cause)
}

func (e *SearchFailedError) Unwrap() error {
	return e.Cause
}

// Result is the outcome of one recommendation request.
type Result struct {
	Plan    domain.Plan
	Queries []string
	Songs   []domain.Song
}

// Recommender turns a mood request into a bounded list of songs.
type Recommender struct {
	catalog ports.CatalogProvider
	rnd     domain.Randomizer
	cfg     Config
}

// NewRecommender constructs a Recommender. A nil catalog means the catalog is
// unavailable and every request yields an empty song list.
func NewRecommender(catalog ports.CatalogProvider, rnd domain.Randomizer, cfg Config) *Recommender {
	if rnd == nil {
		rnd = domain.NewRandomizer(0)
	}
	def := DefaultConfig()
	if cfg.Market == "" {
		cfg.Market = def.Market
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	if cfg.PrimaryLimit <= 0 {
		cfg.PrimaryLimit = def.PrimaryLimit
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = def.SearchLimit
	}
	if cfg.SearchCap <= 0 {
		cfg.SearchCap = def.SearchCap
	}
	if cfg.ResponseLimit <= 0 {
		cfg.ResponseLimit = def.ResponseLimit
	}
	return &Recommender{catalog: catalog, rnd: rnd, cfg: cfg}
}

// CatalogAvailable reports whether a catalog client is configured.
func (r *Recommender) CatalogAvailable() bool {
	return r.catalog != nil
}

// Recommend normalizes the request, queries the catalog with the primary and
// secondary strategies and returns at most ResponseLimit unique songs.
// Individual call failures never surface; only a failure of the search stage
// itself is returned, as *SearchFailedError, together with an empty song list.
func (r *Recommender) Recommend(ctx context.Context, req domain.MoodRequest) (Result, error) {
	plan := domain.Normalize(req, r.rnd)
	queries := domain.PlanQueries(plan, r.rnd)
	res := Result{Plan: plan, Queries: queries, Songs: []domain.Song{}}

	log := logging.Ctx(ctx)
	log.Debug().
		Str("mood", req.Mood).
		Str("profile", plan.Profile.Name).
		Float64("valence", plan.AdjustedValence).
		Float64("energy", plan.AdjustedEnergy).
		Strs("genres", plan.Genres).
		Strs("queries", queries).
		Msg("recommendation planned")

	if r.catalog == nil {
		log.Warn().Err(ports.ErrCatalogUnavailable).Msg("skipping catalog fetch")
		return res, nil
	}

	col := newCollector(r.cfg.SearchCap)
	r.fetchPrimary(ctx, plan, col)
	if err := r.fetchSecondary(ctx, queries, col); err != nil {
		log.Error().Err(err).Msg("search stage failed")
		return res, &SearchFailedError{Cause: err}
	}

	songs := col.result()
	domain.ShuffleSongs(r.rnd, songs)
	songs = domain.DedupeSongs(songs)
	if len(songs) > r.cfg.ResponseLimit {
		songs = songs[:r.cfg.ResponseLimit]
	}
	metrics.RecommendedSongs.Observe(float64(len(songs)))
	log.Info().Int("songs", len(songs)).Int("queries", len(queries)).Msg("recommendation complete")

	res.Songs = songs
	return res, nil
}

// fetchPrimary is best-effort: every failure is logged and ignored.
func (r *Recommender) fetchPrimary(ctx context.Context, plan domain.Plan, col *collector) {
	log := logging.Ctx(ctx)
	genre := plan.SeedGenre()
	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("genre", genre).Interface("panic", p).Msg("recommendations call failed")
		}
	}()
	if genre == "" {
		log.Debug().Msg("no seed genre, skipping recommendations call")
		return
	}

	seed := ports.RecommendationSeed{
		Genres:           []string{genre},
		Limit:            r.cfg.PrimaryLimit,
		TargetValence:    plan.AdjustedValence,
		TargetEnergy:     plan.AdjustedEnergy,
		TargetPopularity: plan.Request.Popularity,
	}

	tracks, err := r.call(ctx, opRecommend, func(callCtx context.Context) ([]domain.Track, error) {
		return r.catalog.Recommend(callCtx, seed)
	})
	if err != nil {
		log.Error().Err(err).Str("genre", genre).Msg("recommendations call failed")
		return
	}
	if len(tracks) == 0 {
		log.Warn().Str("genre", genre).Msg("recommendations call returned no tracks")
		return
	}

	added := 0
	for _, t := range tracks {
		if col.add(ctx, t, false) {
			added++
		}
	}
	log.Info().Int("returned", len(tracks)).Int("added", added).Msg("recommendations call complete")
}

// fetchSecondary runs one search per query concurrently. A failing query is
// logged and skipped; the stage fails only if its own machinery breaks down.
func (r *Recommender) fetchSecondary(ctx context.Context, queries []string, col *collector) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("search stage panic: %v", p)
		}
	}()

	var wg sync.WaitGroup
	for _, q := range queries {
		wg.Add(1)
		go func(query string) {
			defer wg.Done()
			r.searchOne(ctx, query, col)
		}(q)
	}
	wg.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	logging.Ctx(ctx).Info().Int("songs", col.count()).Msg("search collected songs")
	return nil
}

func (r *Recommender) searchOne(ctx context.Context, query string, col *collector) {
	log := logging.Ctx(ctx)
	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("query", query).Interface("panic", p).Msg("search query panicked")
		}
	}()

	sq := ports.SearchQuery{Query: query, Limit: r.cfg.SearchLimit, Market: r.cfg.Market}
	tracks, err := r.call(ctx, opSearch, func(callCtx context.Context) ([]domain.Track, error) {
		return r.catalog.Search(callCtx, sq)
	})
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("search query failed")
		return
	}
	if len(tracks) == 0 {
		log.Warn().Str("query", query).Msg("search query returned no valid results")
		return
	}

	for _, t := range tracks {
		col.add(ctx, t, true)
	}
	log.Info().Str("query", query).Int("returned", len(tracks)).Msg("search query complete")
}

// call runs fn under the per-call timeout and records its outcome.
func (r *Recommender) call(ctx context.Context, op string, fn func(context.Context) ([]domain.Track, error)) ([]domain.Track, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	tracks, err := fn(callCtx)
	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded):
		outcome = metrics.OutcomeTimeout
		err = fmt.Errorf("service: %s call timed out after %s: %w", op, r.cfg.CallTimeout, err)
	case err != nil:
		outcome = metrics.OutcomeFailure
	}
	metrics.RecordCatalogCall(op, outcome, time.Since(start))
	return tracks, err
}

// collector accumulates songs shared by all fetch goroutines of one request.
// The seen-ID set and the cap are guarded by one mutex.
type collector struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	songs []domain.Song
	limit int
}

func newCollector(limit int) *collector {
	return &collector{seen: make(map[string]struct{}), limit: limit}
}

// add stores the track if its ID is new. Capped adds stop once the collector
// holds limit songs.
func (c *collector) add(ctx context.Context, t domain.Track, capped bool) bool {
	if t.ID == "" {
		logging.Ctx(ctx).Warn().Str("title", t.Title).Msg("track missing id, skipping")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[t.ID]; ok {
		return false
	}
	if capped && len(c.songs) >= c.limit {
		return false
	}
	c.seen[t.ID] = struct{}{}
	c.songs = append(c.songs, t.Song())
	return true
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.songs)
}

func (c *collector) result() []domain.Song {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Song(nil), c.songs...)
}
