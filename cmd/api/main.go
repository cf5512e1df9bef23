package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ewilliams-labs/moodtunes/internal/adapters/rest"
	"github.com/ewilliams-labs/moodtunes/internal/adapters/spotify"
	"github.com/ewilliams-labs/moodtunes/internal/config"
	"github.com/ewilliams-labs/moodtunes/internal/core/domain"
	"github.com/ewilliams-labs/moodtunes/internal/core/ports"
	"github.com/ewilliams-labs/moodtunes/internal/core/services"
	"github.com/ewilliams-labs/moodtunes/internal/logging"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
		Output: os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Driven adapter: the catalog. Without it the service still answers,
	// with empty recommendations.
	catalog := newCatalog(ctx, cfg.Spotify)

	// 3. Core service
	svc := services.NewRecommender(catalog, domain.NewRandomizer(cfg.Recommender.Seed), services.Config{
		Market:      cfg.Spotify.Market,
		CallTimeout: cfg.Spotify.CallTimeout,
	})

	// 4. Driving adapter
	handler := rest.NewHandler(svc, rest.Config{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimitRequests,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		RateLimitDisabled:  cfg.Server.RateLimitDisabled,
	})

	// 5. Server
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Bool("catalog", svc.CatalogAvailable()).Msg("moodtunes API listening")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logging.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("shutdown error")
		}
	}
}

// newCatalog performs the credential handshake once. Any failure is logged and
// yields a nil provider.
func newCatalog(ctx context.Context, cfg config.SpotifyConfig) ports.CatalogProvider {
	if !cfg.HasCredentials() {
		logging.Warn().Msg("spotify credentials not found, recommendations will be empty")
		return nil
	}
	log := logging.WithComponent("startup")

	hc, err := spotify.NewAuthenticatedHTTPClient(ctx, spotify.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}, cfg.CallTimeout)
	if err != nil {
		log.Error().Err(err).Msg("spotify catalog unavailable, recommendations will be empty")
		return nil
	}

	log.Info().Str("market", cfg.Market).Int("max_attempts", cfg.MaxAttempts).Msg("spotify catalog ready")
	return spotify.NewClient(hc, spotify.Options{
		BaseURL:           cfg.APIURL,
		MaxAttempts:       cfg.MaxAttempts,
		Backoff:           cfg.Backoff,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		BreakerFailures:   cfg.BreakerFailures,
		BreakerTimeout:    cfg.BreakerTimeout,
	})
}
