// cmd/server/server.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tennisverein/courtbook/internal/api"
	"github.com/tennisverein/courtbook/internal/api/auth"
	"github.com/tennisverein/courtbook/internal/api/bookings"
	"github.com/tennisverein/courtbook/internal/api/courtblocks"
	"github.com/tennisverein/courtbook/internal/api/settings"
	"github.com/tennisverein/courtbook/internal/api/users"
	"github.com/tennisverein/courtbook/internal/booking"
	"github.com/tennisverein/courtbook/internal/config"
	"github.com/tennisverein/courtbook/internal/db"
	"github.com/tennisverein/courtbook/internal/email"
	"github.com/tennisverein/courtbook/internal/metrics"
	"github.com/tennisverein/courtbook/internal/ratelimit"
)

func newServer(ctx context.Context, cfg *config.Config, database *db.DB, bookingSvc *booking.Service, sessions *auth.Sessions, limiter *ratelimit.Limiter) (*http.Server, error) {
	router := http.NewServeMux()

	userOpts := users.Options{ClubName: cfg.Club.Name, LoginURL: cfg.App.BaseURL}
	if cfg.Email.Enabled {
		client, err := email.NewSESClient(ctx, cfg.Email)
		if err != nil {
			return nil, fmt.Errorf("init ses client: %w", err)
		}
		userOpts.Sender = client
	} else {
		log.Info().Msg("Email disabled; activation notices will not be sent")
	}

	bookings.InitHandlers(bookingSvc)
	settings.InitHandlers(database)
	courtblocks.InitHandlers(database, cfg.Club.Courts)
	users.InitHandlers(database, userOpts)

	auth.NewHandler(database, sessions, limiter, cfg.App.TrustProxy).RegisterRoutes(router)
	bookings.RegisterRoutes(router)
	settings.RegisterRoutes(router)
	courtblocks.RegisterRoutes(router)
	users.RegisterRoutes(router)

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.Features.EnableMetrics {
		router.Handle("/metrics", metrics.Handler())
	}

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithMetrics,
		api.WithAuth(sessions),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}
