// internal/api/bookings/handlers.go
package bookings

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tennisverein/courtbook/internal/api/apiutil"
	"github.com/tennisverein/courtbook/internal/api/authz"
	"github.com/tennisverein/courtbook/internal/booking"
	"github.com/tennisverein/courtbook/internal/models"
)

const (
	bookingQueryTimeout = 5 * time.Second

	msgBooked         = "Tennisplatz erfolgreich gebucht"
	msgCancelled      = "Buchung erfolgreich storniert"
	msgNotFound       = "Buchung nicht gefunden"
	msgNotYourBooking = "Keine Berechtigung zum Löschen dieser Buchung"
	msgNotInitialized = "Interner Serverfehler"
)

var (
	service     *booking.Service
	serviceOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *booking.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/bookings", HandleBookings)
	mux.HandleFunc("/api/bookings/mine", HandleMyBookings)
	mux.HandleFunc("/api/public/bookings", HandlePublicBookings)
}

type bookingResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Booking booking.Booking `json:"booking"`
}

type publicBooking struct {
	ID        int64  `json:"id"`
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Type      string `json:"type"`
}

type publicSettings struct {
	OpeningTime     string `json:"openingTime"`
	ClosingTime     string `json:"closingTime"`
	MaintenanceDay  string `json:"maintenanceDay"`
	MaintenanceTime string `json:"maintenanceTime"`
}

type publicDay struct {
	Bookings []publicBooking     `json:"bookings"`
	Blocks   []models.CourtBlock `json:"blocks"`
	Settings publicSettings      `json:"settings"`
}

// /api/bookings
func HandleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		handleListBookings(w, r)
	case http.MethodPost:
		handleCreateBooking(w, r)
	case http.MethodDelete:
		handleDeleteBooking(w, r)
	default:
		apiutil.AllowMethod(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

// GET /api/bookings?courtId=&date=
func handleListBookings(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	if _, err := authz.IdentityFromContext(r.Context()); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	courtID, date, err := apiutil.CourtDateFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	day, err := svc.Day(ctx, courtID, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, day)
}

// POST /api/bookings
func handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	identity, err := authz.IdentityFromContext(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req booking.Request
	if !apiutil.DecodeJSONOrFail(w, r, &req) {
		return
	}

	created, err := svc.Submit(r.Context(), identity, req)
	if err != nil {
		logger.Info().
			Int64("user_id", identity.UserID).
			Int64("court_id", req.CourtID).
			Str("date", req.Date).
			Str("start_time", req.StartTime).
			Str("outcome", booking.Outcome(err)).
			Msg("Booking rejected")
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("booking_id", created.ID).
		Int64("user_id", identity.UserID).
		Int64("court_id", created.CourtID).
		Str("date", created.Date).
		Str("start_time", created.StartTime).
		Str("type", created.Type).
		Msg("Booking created")
	writeJSON(w, r, bookingResponse{Success: true, Message: msgBooked, Booking: created})
}

// DELETE /api/bookings?id=
func handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	identity, err := authz.IdentityFromContext(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	id, err := apiutil.QueryInt64(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := svc.Cancel(r.Context(), identity, id); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			err = apiutil.HandlerError{Status: http.StatusNotFound, Message: msgNotFound, Err: err}
		case errors.Is(err, models.ErrForbidden):
			err = apiutil.HandlerError{Status: http.StatusForbidden, Message: msgNotYourBooking, Err: err}
		}
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("booking_id", id).Int64("user_id", identity.UserID).Msg("Booking cancelled")
	apiutil.WriteMessage(w, r, msgCancelled)
}

// GET /api/bookings/mine
func HandleMyBookings(w http.ResponseWriter, r *http.Request) {
	if !apiutil.AllowMethod(w, r, http.MethodGet) {
		return
	}
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	identity, err := authz.IdentityFromContext(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	upcoming, err := svc.Upcoming(ctx, identity)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, map[string][]booking.Booking{"bookings": upcoming})
}

// GET /api/public/bookings?courtId=&date=
// Anonymous calendar view: no owner details.
func HandlePublicBookings(w http.ResponseWriter, r *http.Request) {
	if !apiutil.AllowMethod(w, r, http.MethodGet) {
		return
	}
	svc := loadService(w, r)
	if svc == nil {
		return
	}

	courtID, date, err := apiutil.CourtDateFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	day, err := svc.Day(ctx, courtID, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	out := publicDay{
		Bookings: make([]publicBooking, 0, len(day.Bookings)),
		Blocks:   day.Blocks,
		Settings: publicSettings{
			OpeningTime:     day.Settings.OpeningTime,
			ClosingTime:     day.Settings.ClosingTime,
			MaintenanceDay:  day.Settings.MaintenanceDay,
			MaintenanceTime: day.Settings.MaintenanceTime,
		},
	}
	for _, b := range day.Bookings {
		out.Bookings = append(out.Bookings, publicBooking{
			ID:        b.ID,
			CourtID:   b.CourtID,
			Date:      b.Date,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Type:      b.Type,
		})
	}
	writeJSON(w, r, out)
}

func loadService(w http.ResponseWriter, r *http.Request) *booking.Service {
	if service == nil {
		log.Ctx(r.Context()).Error().Msg("Booking service not initialized")
		_ = apiutil.WriteJSON(w, http.StatusInternalServerError, apiutil.ErrorResponse{Error: msgNotInitialized})
		return nil
	}
	return service
}

func writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
