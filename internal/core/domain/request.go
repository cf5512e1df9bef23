package domain

import (
	"math"
	"strconv"
	"strings"
)

// Defaults applied to absent numeric fields.
const (
	DefaultFeature    = 0.5
	DefaultTempo      = 120
	DefaultPopularity = 50
)

// RequiredFields are the keys a mood recommendation request must carry.
var RequiredFields = []string{"mood", "valence", "energy"}

// MoodRequest is the caller-supplied mood and audio-preference payload.
type MoodRequest struct {
	Mood             string
	Valence          float64
	Energy           float64
	Danceability     float64
	Acousticness     float64
	Instrumentalness float64
	Tempo            int
	Popularity       int
	Context          string
	Goal             string
	Preferences      string
}

// ParseMoodRequest builds a MoodRequest from a decoded JSON object.
// Numbers may arrive as JSON numbers or numeric strings; absent fields take
// their defaults and present fields that do not parse yield ErrInvalidNumeric.
func ParseMoodRequest(body map[string]any) (MoodRequest, error) {
	if body == nil {
		return MoodRequest{}, ErrMissingBody
	}

	req := MoodRequest{
		Mood:        parseMood(body),
		Context:     parseText(body, "context"),
		Goal:        parseText(body, "goal"),
		Preferences: parseText(body, "preferences"),
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"valence", &req.Valence},
		{"energy", &req.Energy},
		{"danceability", &req.Danceability},
		{"acousticness", &req.Acousticness},
		{"instrumentalness", &req.Instrumentalness},
	}
	for _, f := range floats {
		v, err := parseFloat(body, f.key, DefaultFeature)
		if err != nil {
			return MoodRequest{}, err
		}
		*f.dst = v
	}

	var err error
	if req.Tempo, err = parseInt(body, "tempo", DefaultTempo); err != nil {
		return MoodRequest{}, err
	}
	if req.Popularity, err = parseInt(body, "popularity", DefaultPopularity); err != nil {
		return MoodRequest{}, err
	}

	return req, nil
}

// parseMood never fails: values that are neither text nor a number fall back
// to DefaultMood, like any other unknown mood.
func parseMood(body map[string]any) string {
	switch v := body["mood"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return DefaultMood
	}
}

func parseFloat(body map[string]any, key string, def float64) (float64, error) {
	raw, ok := body[key]
	if !ok {
		return def, nil
	}

	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, &InvalidNumericError{Field: key, Value: raw}
		}
		v = parsed
	default:
		return 0, &InvalidNumericError{Field: key, Value: raw}
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InvalidNumericError{Field: key, Value: raw}
	}
	return v, nil
}

func parseInt(body map[string]any, key string, def int) (int, error) {
	raw, ok := body[key]
	if !ok {
		return def, nil
	}

	switch t := raw.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || math.Abs(t) > math.MaxInt32 {
			return 0, &InvalidNumericError{Field: key, Value: raw}
		}
		return int(math.Trunc(t)), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, &InvalidNumericError{Field: key, Value: raw}
		}
		return parsed, nil
	default:
		return 0, &InvalidNumericError{Field: key, Value: raw}
	}
}

// parseText returns a free-text field, or "" when absent or not a string.
func parseText(body map[string]any, key string) string {
	if s, ok := body[key].(string); ok {
		return s
	}
	return ""
}
