// internal/api/settings/handlers.go
package settings

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tennisverein/courtbook/internal/api/apiutil"
	"github.com/tennisverein/courtbook/internal/api/authz"
	"github.com/tennisverein/courtbook/internal/db"
	"github.com/tennisverein/courtbook/internal/models"
)

const settingsQueryTimeout = 5 * time.Second

var (
	store     *db.DB
	storeOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *db.DB) {
	if database == nil {
		return
	}
	storeOnce.Do(func() {
		store = database
	})
}

func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/settings", HandleSettings)
}

// GET is public, POST is admin only.
func HandleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		handleGetSettings(w, r)
	case http.MethodPost, http.MethodPut:
		handleUpdateSettings(w, r)
	default:
		apiutil.AllowMethod(w, r, http.MethodGet, http.MethodPost, http.MethodPut)
	}
}

func handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), settingsQueryTimeout)
	defer cancel()

	current, err := models.GetSettings(ctx, store.Queries)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, current); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !ready(w, r) {
		return
	}
	identity, err := authz.RequireAdmin(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var patch models.SettingsPatch
	if !apiutil.DecodeJSONOrFail(w, r, &patch) {
		return
	}

	var updated models.Settings
	err = store.RunInTx(r.Context(), func(tx *db.DB) error {
		var err error
		updated, err = models.UpdateSettings(r.Context(), tx.Queries, identity, patch)
		return err
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("user_id", identity.UserID).
		Int("max_booking_duration", updated.MaxBookingDuration).
		Int("advance_booking_period", updated.AdvanceBookingPeriod).
		Int("max_simultaneous_bookings", updated.MaxSimultaneousBookings).
		Str("opening_time", updated.OpeningTime).
		Str("closing_time", updated.ClosingTime).
		Msg("Settings updated")
	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
	}
}

func ready(w http.ResponseWriter, r *http.Request) bool {
	if store == nil {
		log.Ctx(r.Context()).Error().Msg("Database not initialized")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Interner Serverfehler"})
		return false
	}
	return true
}
