package domain

import "strings"

// MaxQueries caps the number of search queries issued per request.
const MaxQueries = 5

const fallbackGenre = "pop"

// PlanQueries builds the search queries for a plan: mood and genre keywords
// first, then the optional context, goal and preferences text. The result is
// deduplicated, shuffled and truncated to MaxQueries.
func PlanQueries(p Plan, rnd Randomizer) []string {
	mood := p.Request.Mood
	genre := p.SeedGenre()
	if genre == "" {
		genre = fallbackGenre
	}

	candidates := []string{
		mood + " music",
		mood + " songs",
		mood,
		genre,
	}
	if p.Request.Context != "" {
		candidates = append(candidates, p.Request.Context+" music")
	}
	if p.Request.Goal != "" {
		candidates = append(candidates, "music for "+p.Request.Goal)
	}
	if p.Request.Preferences != "" {
		candidates = append(candidates, p.Request.Preferences)
	}

	seen := make(map[string]struct{}, len(candidates))
	queries := make([]string, 0, len(candidates))
	for _, q := range candidates {
		// the catalog rejects an empty q
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
	}

	rnd.Shuffle(len(queries), func(i, j int) {
		queries[i], queries[j] = queries[j], queries[i]
	})
	if len(queries) > MaxQueries {
		queries = queries[:MaxQueries]
	}
	return queries
}
