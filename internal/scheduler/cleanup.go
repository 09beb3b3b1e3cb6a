package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tennisverein/courtbook/internal/metrics"
)

const (
	cleanupJobName    = "booking_cleanup"
	cleanupJobTimeout = 2 * time.Minute
)

// Cleaner deletes bookings that fell out of the retention window.
type Cleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// RegisterCleanupJob schedules the nightly removal of old bookings. An empty
// cron expression disables the job.
func RegisterCleanupJob(cleaner Cleaner, cronExpr string) error {
	if cleaner == nil {
		return fmt.Errorf("cleanup job requires a booking service")
	}
	if cronExpr == "" {
		log.Info().Msg("Booking cleanup job disabled")
		return nil
	}

	_, err := AddJob(cleanupJobName, cronExpr, func() {
		RunCleanup(context.Background(), cleaner)
	})
	return err
}

// RunCleanup performs one cleanup pass and records its outcome.
func RunCleanup(parent context.Context, cleaner Cleaner) (int64, error) {
	ctx, cancel := context.WithTimeout(parent, cleanupJobTimeout)
	defer cancel()

	logger := log.With().Str("component", "booking_cleanup_job").Logger()

	removed, err := cleaner.Cleanup(ctx)
	metrics.RecordCleanup(removed, err)
	if err != nil {
		logger.Error().Err(err).Msg("Booking cleanup failed")
		return 0, err
	}
	logger.Info().Int64("removed", removed).Msg("Old bookings cleaned up")
	return removed, nil
}
