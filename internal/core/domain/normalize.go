package domain

// Feature tolerances used to build target ranges.
const (
	FeatureTolerance    = 0.2
	PopularityTolerance = 20
	maxSelectedGenres   = 2
)

// TargetRange expresses desired tolerance around a feature value.
type TargetRange struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Target float64 `json:"target"`
}

// FeatureTargets holds the ranges derived from one request.
type FeatureTargets struct {
	Valence          TargetRange
	Energy           TargetRange
	Danceability     TargetRange
	Acousticness     TargetRange
	Instrumentalness TargetRange
	Popularity       TargetRange
	Tempo            int
}

// Plan is a normalized request: the resolved mood profile, mood-adjusted
// features, target ranges and the sampled genres.
type Plan struct {
	Request         MoodRequest
	Profile         MoodProfile
	AdjustedValence float64
	AdjustedEnergy  float64
	Targets         FeatureTargets
	Genres          []string
}

// SeedGenre returns the genre used to seed catalog queries.
func (p Plan) SeedGenre() string {
	if len(p.Genres) == 0 {
		return ""
	}
	return p.Genres[0]
}

// Normalize resolves the mood profile, applies its deltas and derives targets.
func Normalize(req MoodRequest, rnd Randomizer) Plan {
	profile := LookupProfile(req.Mood)

	valence := Clamp01(req.Valence + profile.ValenceDelta)
	energy := Clamp01(req.Energy + profile.EnergyDelta)

	return Plan{
		Request:         req,
		Profile:         profile,
		AdjustedValence: valence,
		AdjustedEnergy:  energy,
		Targets: FeatureTargets{
			Valence:          unitRange(valence),
			Energy:           unitRange(energy),
			Danceability:     unitRange(req.Danceability),
			Acousticness:     unitRange(req.Acousticness),
			Instrumentalness: unitRange(req.Instrumentalness),
			Popularity:       popularityRange(req.Popularity),
			Tempo:            req.Tempo,
		},
		Genres: sample(rnd, profile.Genres, maxSelectedGenres),
	}
}

// Clamp01 bounds x to [0, 1].
func Clamp01(x float64) float64 {
	return max(0, min(1, x))
}

func unitRange(target float64) TargetRange {
	return TargetRange{
		Min:    max(0, target-FeatureTolerance),
		Max:    min(1, target+FeatureTolerance),
		Target: target,
	}
}

func popularityRange(target int) TargetRange {
	return TargetRange{
		Min:    float64(max(0, target-PopularityTolerance)),
		Max:    float64(min(100, target+PopularityTolerance)),
		Target: float64(target),
	}
}
