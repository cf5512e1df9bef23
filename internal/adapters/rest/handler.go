// Package rest is the HTTP driving adapter.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/core/services"
)

// Config holds the HTTP-facing knobs.
type Config struct {
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	RateLimitDisabled  bool
}

// DefaultConfig allows any origin, as the browser front-end is served separately.
func DefaultConfig() Config {
	return Config{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  60,
		RateLimitWindow:    time.Minute,
	}
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Recommender
	router chi.Router
	cfg    Config
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Recommender, cfg Config) *Handler {
	h := &Handler{
		svc:    svc,
		router: chi.NewRouter(),
		cfg:    cfg,
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Use(chimiddleware.RealIP)
	h.router.Use(requestLogger)
	h.router.Use(prometheusMetrics)
	h.router.Use(recoverJSON)
	h.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	h.router.Get("/", h.Index)
	h.router.Get("/health", h.HealthCheck)
	h.router.Handle("/metrics", promhttp.Handler())
	h.router.Post("/debug-user-data", h.DebugUserData)

	h.router.With(
		h.rateLimit(),
		RequireFields(domain.RequiredFields...),
	).Post("/mood-recommendation", h.MoodRecommendation)
}

func (h *Handler) rateLimit() func(http.Handler) http.Handler {
	if h.cfg.RateLimitDisabled || h.cfg.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		h.cfg.RateLimitRequests,
		h.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
		}),
	)
}

type healthResponse struct {
	Status  string `json:"status"`
	Catalog string `json:"catalog"`
}

// HealthCheck reports liveness and whether the catalog client is configured.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	catalog := "unavailable"
	if h.svc.CatalogAvailable() {
		catalog = "available"
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Catalog: catalog})
}
