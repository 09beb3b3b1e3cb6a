// internal/booking/admission.go
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/tennisverein/courtbook/internal/db"
	dbgen "github.com/tennisverein/courtbook/internal/db/generated"
	"github.com/tennisverein/courtbook/internal/models"
)

type Request struct {
	CourtID   int64  `json:"courtId" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required,date"`
	StartTime string `json:"startTime" validate:"required,clock"`
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=regular tournament maintenance"`
}

// Submit admits or rejects a booking request. Rules are applied in a fixed
// order and the first failing rule decides the error. Everything after input
// validation runs in one write transaction.
func (s *Service) Submit(ctx context.Context, identity *models.Identity, req Request) (Booking, error) {
	booking, err := s.submit(ctx, identity, req)
	s.recorder.RecordAdmission(Outcome(err))
	return booking, err
}

func (s *Service) submit(ctx context.Context, identity *models.Identity, req Request) (Booking, error) {
	if err := models.RequireIdentity(identity); err != nil {
		return Booking{}, err
	}

	if err := models.ValidateStruct(req); err != nil {
		return Booking{}, err
	}
	if err := models.ValidateCourtID(req.CourtID, s.courts); err != nil {
		return Booking{}, err
	}
	if req.Type == "" {
		req.Type = TypeRegular
	}
	if req.Type != TypeRegular && !identity.IsAdmin {
		return Booking{}, models.ErrForbidden
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		return Booking{}, &models.InvalidInputError{Fields: []models.FieldError{{Field: "date", Reason: err.Error()}}}
	}
	startMinutes, err := models.ParseClock(req.StartTime)
	if err != nil {
		return Booking{}, &models.InvalidInputError{Fields: []models.FieldError{{Field: "startTime", Reason: err.Error()}}}
	}
	endMinutes := startMinutes + s.slotMinutes
	if endMinutes > minutesPerDay {
		return Booking{}, &models.InvalidInputError{Fields: []models.FieldError{{Field: "startTime", Reason: "slot must end by 24:00"}}}
	}
	endTime := models.FormatClock(endMinutes)

	now, today := s.now()

	var created dbgen.Booking
	err = s.db.RunInTx(ctx, func(tx *db.DB) error {
		settings, err := models.GetSettings(ctx, tx.Queries)
		if err != nil {
			return err
		}

		if req.Type == TypeRegular {
			active, err := tx.Queries.CountUpcomingRegularBookingsForUser(ctx, dbgen.CountUpcomingRegularBookingsForUserParams{
				UserID:   identity.UserID,
				FromDate: today.Format(models.DateLayout),
			})
			if err != nil {
				return fmt.Errorf("count user bookings: %w", err)
			}
			if active >= int64(settings.MaxSimultaneousBookings) {
				return models.ErrQuotaExceeded
			}
		}

		if date.After(today.AddDate(0, 0, settings.AdvanceBookingPeriod)) {
			return models.ErrTooFarInAdvance
		}
		if date.Before(today) {
			return models.ErrInThePast
		}
		if date.Equal(today) {
			earliest := now.Add(s.leadTime)
			start := time.Date(now.Year(), now.Month(), now.Day(), startMinutes/60, startMinutes%60, 0, 0, s.loc)
			if start.Before(earliest) {
				return models.ErrLeadTimeViolation
			}
		}

		blocked, err := isTimeSlotBlocked(ctx, tx.Queries, settings, req.CourtID, date, startMinutes)
		if err != nil {
			return err
		}
		if blocked && !identity.IsAdmin {
			return models.ErrSlotBlocked
		}

		overlapping, err := tx.Queries.CountOverlappingBookings(ctx, dbgen.CountOverlappingBookingsParams{
			CourtID:   req.CourtID,
			Date:      req.Date,
			EndTime:   endTime,
			StartTime: req.StartTime,
		})
		if err != nil {
			return fmt.Errorf("check overlapping bookings: %w", err)
		}
		if overlapping > 0 {
			return models.ErrSlotTaken
		}

		created, err = tx.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
			CourtID:   req.CourtID,
			UserID:    identity.UserID,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   endTime,
			Type:      req.Type,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return models.ErrSlotTaken
			}
			return fmt.Errorf("create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	return fromRow(created), nil
}

// isTimeSlotBlocked reports whether a slot is closed to regular members: the
// court is blacked out on that date, the slot is the weekly maintenance slot,
// or it starts outside opening hours.
func isTimeSlotBlocked(ctx context.Context, q dbgen.Querier, settings models.Settings, courtID int64, date time.Time, startMinutes int) (bool, error) {
	blocks, err := q.CountCourtBlocksForDate(ctx, dbgen.CountCourtBlocksForDateParams{
		CourtID: courtID,
		Date:    date.Format(models.DateLayout),
	})
	if err != nil {
		return false, fmt.Errorf("check court blocks: %w", err)
	}
	if blocks > 0 {
		return true, nil
	}

	if day, ok := models.ParseWeekday(settings.MaintenanceDay); ok && date.Weekday() == day {
		if maintenance, err := models.ParseClock(settings.MaintenanceTime); err == nil && maintenance == startMinutes {
			return true, nil
		}
	}

	if startMinutes < settings.OpeningMinutes() || startMinutes >= settings.ClosingMinutes() {
		return true, nil
	}

	return false, nil
}
