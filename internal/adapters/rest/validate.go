package rest

import (
	"bytes"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/logging"
)

const msgMissingBody = "Missing JSON body"

// maxBodyBytes bounds request bodies read by the validator.
const maxBodyBytes = 1 << 20

// RequireFields rejects requests whose body is not a JSON object holding every
// named key. The body is handed to the next handler unchanged.
func RequireFields(fields ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, body, err := readObject(r)
			if err != nil {
				logging.Ctx(r.Context()).Warn().Err(err).Msg("rejected request body")
				writeError(w, http.StatusBadRequest, msgMissingBody)
				return
			}

			if missing := missingFields(body, fields); len(missing) > 0 {
				logging.Ctx(r.Context()).Warn().
					Err(&domain.MissingFieldsError{Fields: missing}).
					Msg("rejected request body")
				writeMissingFields(w, missing)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			next.ServeHTTP(w, r)
		})
	}
}

// readObject reads the body and decodes it as a JSON object. Absent,
// unparseable and non-object bodies all yield domain.ErrMissingBody.
func readObject(r *http.Request) ([]byte, map[string]any, error) {
	if r.Body == nil {
		return nil, nil, domain.ErrMissingBody
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, domain.ErrMissingBody
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return raw, nil, domain.ErrMissingBody
	}
	return raw, body, nil
}

// missingFields returns the absent keys in declaration order.
func missingFields(body map[string]any, fields []string) []string {
	var missing []string
	for _, f := range fields {
		if _, ok := body[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}
