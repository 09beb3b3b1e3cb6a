// internal/booking/schedule.go
package booking

import (
	"context"
	"fmt"

	dbgen "github.com/tennisverein/courtbook/internal/db/generated"
	"github.com/tennisverein/courtbook/internal/models"
)

// Day is everything a court calendar needs to render one date.
type Day struct {
	Bookings []Booking           `json:"bookings"`
	Blocks   []models.CourtBlock `json:"blocks"`
	Settings models.Settings     `json:"settings"`
}

// Day returns the bookings and blackouts for one court and date, with the
// settings that decide which slots are open.
func (s *Service) Day(ctx context.Context, courtID int64, date string) (Day, error) {
	if err := models.ValidateCourtID(courtID, s.courts); err != nil {
		return Day{}, err
	}
	if _, err := models.ParseDate(date); err != nil {
		return Day{}, &models.InvalidInputError{Fields: []models.FieldError{{Field: "date", Reason: err.Error()}}}
	}

	settings, err := models.GetSettings(ctx, s.db.Queries)
	if err != nil {
		return Day{}, err
	}

	rows, err := s.db.Queries.ListBookingsForCourtDate(ctx, dbgen.ListBookingsForCourtDateParams{
		CourtID: courtID,
		Date:    date,
	})
	if err != nil {
		return Day{}, fmt.Errorf("list bookings: %w", err)
	}
	bookings := make([]Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, Booking{
			ID:        row.ID,
			CourtID:   row.CourtID,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Date:      row.Date,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Type:      row.Type,
			CreatedAt: row.CreatedAt,
		})
	}

	blocks, err := models.CourtBlocksForDate(ctx, s.db.Queries, courtID, date)
	if err != nil {
		return Day{}, err
	}

	return Day{Bookings: bookings, Blocks: blocks, Settings: settings}, nil
}

// Upcoming lists the caller's bookings from today on.
func (s *Service) Upcoming(ctx context.Context, identity *models.Identity) ([]Booking, error) {
	if err := models.RequireIdentity(identity); err != nil {
		return nil, err
	}
	_, today := s.now()

	rows, err := s.db.Queries.ListUpcomingBookingsForUser(ctx, dbgen.ListUpcomingBookingsForUserParams{
		UserID:   identity.UserID,
		FromDate: today.Format(models.DateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}
	bookings := make([]Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, fromRow(row))
	}
	return bookings, nil
}

// Cleanup deletes bookings older than the configured retention and returns
// how many rows were removed.
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	settings, err := models.GetSettings(ctx, s.db.Queries)
	if err != nil {
		return 0, err
	}
	_, today := s.now()
	cutoff := today.AddDate(0, 0, -settings.AutoCleanupDays).Format(models.DateLayout)

	removed, err := s.db.Queries.DeleteBookingsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old bookings: %w", err)
	}
	return removed, nil
}
