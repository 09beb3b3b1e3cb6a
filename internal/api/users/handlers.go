// internal/api/users/handlers.go
package users

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tennisverein/courtbook/internal/api/apiutil"
	"github.com/tennisverein/courtbook/internal/api/auth"
	"github.com/tennisverein/courtbook/internal/api/authz"
	"github.com/tennisverein/courtbook/internal/db"
	"github.com/tennisverein/courtbook/internal/email"
	"github.com/tennisverein/courtbook/internal/models"
)

const userQueryTimeout = 5 * time.Second

// Options configures the activation notice. A nil Sender disables it.
type Options struct {
	Sender   email.EmailSender
	ClubName string
	LoginURL string
}

var (
	store     *db.DB
	opts      Options
	storeOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *db.DB, o Options) {
	if database == nil {
		return
	}
	storeOnce.Do(func() {
		store = database
		opts = o
	})
}

func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", HandleUsers)
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72,bcryptlen"`
	IsAdmin  bool   `json:"isAdmin"`
}

// /api/users, admin only.
func HandleUsers(w http.ResponseWriter, r *http.Request) {
	if !apiutil.AllowMethod(w, r, http.MethodGet, http.MethodPost, http.MethodPut) {
		return
	}
	if store == nil {
		log.Ctx(r.Context()).Error().Msg("Database not initialized")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Interner Serverfehler"})
		return
	}
	identity, err := authz.RequireAdmin(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		handleList(w, r, identity)
	case http.MethodPost:
		handleCreate(w, r, identity)
	case http.MethodPut:
		handleUpdate(w, r, identity)
	}
}

func handleList(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	ctx, cancel := context.WithTimeout(r.Context(), userQueryTimeout)
	defer cancel()

	list, err := models.ListUsers(ctx, store.Queries, identity)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, list)
}

func handleCreate(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	var req createUserRequest
	if !apiutil.DecodeJSONOrFail(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = models.NormalizeEmail(req.Email)
	if err := models.ValidateStruct(req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), userQueryTimeout)
	defer cancel()

	user, err := models.CreateUser(ctx, store.Queries, models.NewUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
		IsActive:     true,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("user_id", user.ID).
		Bool("is_admin", user.IsAdmin).
		Int64("created_by", identity.UserID).
		Msg("User created by admin")
	writeJSON(w, r, user)
}

func handleUpdate(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	logger := log.Ctx(r.Context())

	var upd models.UserUpdate
	if !apiutil.DecodeJSONOrFail(w, r, &upd) {
		return
	}

	var (
		user      models.User
		activated bool
	)
	err := store.RunInTx(r.Context(), func(tx *db.DB) error {
		var err error
		user, activated, err = models.UpdateUser(r.Context(), tx.Queries, identity, upd)
		return err
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("user_id", user.ID).
		Bool("is_active", user.IsActive).
		Bool("is_admin", user.IsAdmin).
		Int64("updated_by", identity.UserID).
		Msg("User updated")

	if activated {
		msg := email.BuildActivationEmail(email.ActivationDetails{
			Name:     user.Name,
			ClubName: opts.ClubName,
			LoginURL: opts.LoginURL,
		})
		email.SendActivationEmail(r.Context(), opts.Sender, user.Email, msg, logger)
	}
	writeJSON(w, r, user)
}

func writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	if err := apiutil.WriteJSON(w, http.StatusOK, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
