// internal/booking/cancel.go
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tennisverein/courtbook/internal/db"
	"github.com/tennisverein/courtbook/internal/models"
)

// Cancel removes a booking. Owners may cancel their own bookings, admins any
// booking. Bookings dated before today stay in place.
func (s *Service) Cancel(ctx context.Context, identity *models.Identity, bookingID int64) error {
	err := s.cancel(ctx, identity, bookingID)
	s.recorder.RecordCancellation(Outcome(err))
	return err
}

func (s *Service) cancel(ctx context.Context, identity *models.Identity, bookingID int64) error {
	if err := models.RequireIdentity(identity); err != nil {
		return err
	}
	if bookingID <= 0 {
		return models.ErrNotFound
	}

	_, today := s.now()

	return s.db.RunInTx(ctx, func(tx *db.DB) error {
		row, err := tx.Queries.GetBooking(ctx, bookingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if row.Date < today.Format(models.DateLayout) {
			return models.ErrInThePast
		}
		if row.UserID != identity.UserID && !identity.IsAdmin {
			return models.ErrForbidden
		}

		removed, err := tx.Queries.DeleteBooking(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		if removed == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}
