package rest

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/core/services"
	"github.com/ewilliams-labs/moodtunes/internal/logging"
)

const (
	msgRecommendationsOK = "Song recommendations generated!"
	msgInvalidNumeric    = "Invalid numerical value provided"
)

//go:embed static/index.html
var indexHTML []byte

type recommendationResponse struct {
	Message          string        `json:"message"`
	RecommendedSongs []domain.Song `json:"recommended_songs"`
}

type debugResponse struct {
	ReceivedData any `json:"received_data"`
}

// Index serves the landing page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

// DebugUserData echoes the decoded body back. Invalid JSON echoes null.
func (h *Handler) DebugUserData(w http.ResponseWriter, r *http.Request) {
	var data any
	if raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes)); err == nil {
		if err := json.Unmarshal(raw, &data); err != nil {
			data = nil
		}
	}
	logging.Ctx(r.Context()).Debug().Interface("received_data", data).Msg("debug user data")
	writeJSON(w, http.StatusOK, debugResponse{ReceivedData: data})
}

// MoodRecommendation handles POST /mood-recommendation. RequireFields has
// already guaranteed a JSON object with the required keys.
func (h *Handler) MoodRecommendation(w http.ResponseWriter, r *http.Request) {
	log := logging.Ctx(r.Context())

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingBody)
		return
	}

	req, err := domain.ParseMoodRequest(body)
	if err != nil {
		var numErr *domain.InvalidNumericError
		switch {
		case errors.As(err, &numErr):
			log.Warn().Err(err).Msg("invalid numeric input")
			writeErrorWithDetails(w, http.StatusBadRequest, msgInvalidNumeric,
				fmt.Sprintf("field %q: cannot parse %v as a number", numErr.Field, numErr.Value))
		case errors.Is(err, domain.ErrMissingBody):
			writeError(w, http.StatusBadRequest, msgMissingBody)
		default:
			log.Error().Err(err).Msg("failed to parse mood request")
			writeError(w, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	res, err := h.svc.Recommend(r.Context(), req)
	if err != nil {
		var searchErr *services.SearchFailedError
		if !errors.As(err, &searchErr) {
			log.Error().Err(err).Msg("recommendation failed")
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}
		// The search stage failing still answers with whatever the service returned.
		log.Error().Err(err).Msg("search stage failed, answering with empty recommendations")
	}

	songs := res.Songs
	if songs == nil {
		songs = []domain.Song{}
	}
	writeJSON(w, http.StatusOK, recommendationResponse{
		Message:          msgRecommendationsOK,
		RecommendedSongs: songs,
	})
}
