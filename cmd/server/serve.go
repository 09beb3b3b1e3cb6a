// cmd/server/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tennisverein/courtbook/internal/api/auth"
	"github.com/tennisverein/courtbook/internal/booking"
	"github.com/tennisverein/courtbook/internal/metrics"
	"github.com/tennisverein/courtbook/internal/ratelimit"
	"github.com/tennisverein/courtbook/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.App.SecretKey == "" {
		log.Warn().Msg("APP_SECRET_KEY not set; using an insecure development secret")
		cfg.App.SecretKey = "courtbook-development-secret"
	}

	bookingSvc := booking.NewService(database, booking.Options{
		Courts:       cfg.Club.Courts,
		SlotDuration: cfg.SlotDuration(),
		LeadTime:     cfg.LeadTime(),
		Location:     cfg.Location(),
		Recorder:     metrics.BookingRecorder{},
	})

	sessions := auth.NewSessions(cfg.App.SecretKey, cfg.App.SessionTTL, cfg.App.Environment != "development")
	limiter := ratelimit.New(ratelimit.DefaultConfig())
	defer limiter.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := newServer(ctx, cfg, database, bookingSvc, sessions, limiter)
	if err != nil {
		return err
	}

	if err := scheduler.Init(cfg.Location()); err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	if err := scheduler.RegisterCleanupJob(bookingSvc, cfg.Scheduler.CleanupCron); err != nil {
		return fmt.Errorf("register cleanup job: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}
