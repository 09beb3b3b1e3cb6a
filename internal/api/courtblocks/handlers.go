// internal/api/courtblocks/handlers.go
package courtblocks

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tennisverein/courtbook/internal/api/apiutil"
	"github.com/tennisverein/courtbook/internal/api/authz"
	"github.com/tennisverein/courtbook/internal/db"
	"github.com/tennisverein/courtbook/internal/models"
)

const (
	courtBlockQueryTimeout = 5 * time.Second

	msgCreated   = "Platzsperre erfolgreich erstellt"
	msgDeleted   = "Platzsperre erfolgreich gelöscht"
	msgNotFound  = "Platzsperre nicht gefunden"
	msgAdminOnly = "Nur Administratoren können Platzsperren verwalten"
	msgMissingID = "Block-ID fehlt"
)

var (
	store     *db.DB
	courts    int
	storeOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
// courtCount bounds the court ids an admin may block.
func InitHandlers(database *db.DB, courtCount int) {
	if database == nil {
		return
	}
	storeOnce.Do(func() {
		store = database
		courts = courtCount
	})
}

func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/court-blocks", HandleCourtBlocks)
}

type createResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Block   models.CourtBlock `json:"block"`
}

// /api/court-blocks, admin only for every method.
func HandleCourtBlocks(w http.ResponseWriter, r *http.Request) {
	if !apiutil.AllowMethod(w, r, http.MethodGet, http.MethodPost, http.MethodDelete) {
		return
	}
	if store == nil {
		log.Ctx(r.Context()).Error().Msg("Database not initialized")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Interner Serverfehler"})
		return
	}

	identity, err := authz.RequireAdmin(r.Context())
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			err = apiutil.HandlerError{Status: http.StatusForbidden, Message: msgAdminOnly, Err: err}
		}
		apiutil.WriteError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		handleList(w, r, identity)
	case http.MethodPost:
		handleCreate(w, r, identity)
	case http.MethodDelete:
		handleDelete(w, r, identity)
	}
}

func handleList(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	ctx, cancel := context.WithTimeout(r.Context(), courtBlockQueryTimeout)
	defer cancel()

	blocks, err := models.ListCourtBlocks(ctx, store.Queries, identity)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, blocks); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func handleCreate(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	logger := log.Ctx(r.Context())

	var req models.NewCourtBlock
	if !apiutil.DecodeJSONOrFail(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtBlockQueryTimeout)
	defer cancel()

	block, err := models.AddCourtBlock(ctx, store.Queries, identity, courts, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("block_id", block.ID).
		Int64("court_id", block.CourtID).
		Str("start_date", block.StartDate).
		Str("end_date", block.EndDate).
		Int64("user_id", identity.UserID).
		Msg("Court block created")
	if err := apiutil.WriteJSON(w, http.StatusOK, createResponse{Success: true, Message: msgCreated, Block: block}); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
	}
}

func handleDelete(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	if r.URL.Query().Get("id") == "" {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: msgMissingID})
		return
	}
	id, err := apiutil.QueryInt64(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtBlockQueryTimeout)
	defer cancel()

	if err := models.RemoveCourtBlock(ctx, store.Queries, identity, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			err = apiutil.HandlerError{Status: http.StatusNotFound, Message: msgNotFound, Err: err}
		}
		apiutil.WriteError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("block_id", id).Int64("user_id", identity.UserID).Msg("Court block deleted")
	apiutil.WriteMessage(w, r, msgDeleted)
}
