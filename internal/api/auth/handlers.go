package auth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/tennisverein/courtbook/internal/api/apiutil"
	"github.com/tennisverein/courtbook/internal/api/authz"
	"github.com/tennisverein/courtbook/internal/db"
	"github.com/tennisverein/courtbook/internal/models"
	"github.com/tennisverein/courtbook/internal/ratelimit"
)

const (
	msgUserNotFound    = "Benutzer nicht gefunden"
	msgInactive        = "Dein Account wurde noch nicht aktiviert. Bitte warte auf die Freischaltung durch einen Administrator."
	msgBadPassword     = "Ungültiges Passwort"
	msgTooManyRequests = "Zu viele Anfragen. Bitte versuche es später erneut."
	msgRegistered      = "Registrierung erfolgreich. Warte auf Freischaltung durch einen Administrator."
	msgLoggedOut       = "Erfolgreich abgemeldet"
)

type Handler struct {
	db         *db.DB
	sessions   *Sessions
	attempts   *ratelimit.Limiter
	bucket     *rate.Limiter
	trustProxy bool
}

func NewHandler(database *db.DB, sessions *Sessions, attempts *ratelimit.Limiter, trustProxy bool) *Handler {
	if attempts == nil {
		attempts = ratelimit.New(nil)
	}
	return &Handler{
		db:         database,
		sessions:   sessions,
		attempts:   attempts,
		bucket:     rate.NewLimiter(rate.Limit(100), 10), // More restrictive for auth
		trustProxy: trustProxy,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth", h.HandleLogin)
	mux.HandleFunc("/api/auth/register", h.HandleRegister)
	mux.HandleFunc("/api/auth/logout", h.HandleLogout)
	mux.HandleFunc("/api/auth/me", h.HandleMe)
	mux.HandleFunc("/api/auth/check", h.HandleCheck)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionUser struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	User    sessionUser `json:"user"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !apiutil.AllowMethod(w, r, http.MethodPost) || !h.allowBurst(w) {
		return
	}
	logger := log.Ctx(r.Context())

	var req loginRequest
	if !apiutil.DecodeJSONOrFail(w, r, &req) {
		return
	}
	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		apiutil.WriteError(w, r, &models.InvalidInputError{Fields: []models.FieldError{{Field: "email", Reason: "email and password are required"}}})
		return
	}

	ip := ratelimit.GetClientIP(r, h.trustProxy)
	if result := h.attempts.CheckLogin(email, ip); !result.Allowed {
		ratelimit.LogRateLimitExceeded("login", email, ip, result.Reason)
		tooManyRequests(w, r, result)
		return
	}
	h.attempts.RecordLoginAttempt(ip)

	row, err := models.UserForLogin(r.Context(), h.db.Queries, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: msgUserNotFound, Err: err})
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}

	if !VerifyPassword(row.PasswordHash, req.Password) {
		if h.attempts.RecordLoginFailure(email) {
			logger.Warn().Str("email", ratelimit.SanitizeEmail(email)).Str("ip", ip).Msg("Login locked out after repeated failures")
		}
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: msgBadPassword})
		return
	}
	if !row.IsActive {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusForbidden, Message: msgInactive})
		return
	}
	h.attempts.ResetLogin(email)

	user := &authz.AuthUser{ID: row.ID, Email: row.Email, IsAdmin: row.IsAdmin}
	if err := h.sessions.Issue(w, user); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("user_id", row.ID).Bool("is_admin", row.IsAdmin).Msg("User logged in")
	if err := apiutil.WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		User:    sessionUser{ID: row.ID, Name: row.Name, Email: row.Email, IsAdmin: row.IsAdmin},
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to write login response")
	}
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if !apiutil.AllowMethod(w, r, http.MethodPost) || !h.allowBurst(w) {
		return
	}
	logger := log.Ctx(r.Context())

	var reg models.Registration
	if !apiutil.DecodeJSONOrFail(w, r, &reg) {
		return
	}
	if err := models.ValidateRegistration(&reg); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ip := ratelimit.GetClientIP(r, h.trustProxy)
	if result := h.attempts.CheckRegister(ip); !result.Allowed {
		ratelimit.LogRateLimitExceeded("register", reg.Email, ip, result.Reason)
		tooManyRequests(w, r, result)
		return
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	user, err := models.CreateUser(r.Context(), h.db.Queries, models.NewUser{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: hash,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	h.attempts.RecordRegister(ip)

	logger.Info().Int64("user_id", user.ID).Str("email", ratelimit.SanitizeEmail(user.Email)).Msg("User registered, awaiting activation")
	apiutil.WriteMessage(w, r, msgRegistered)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if !apiutil.AllowMethod(w, r, http.MethodPost) {
		return
	}
	h.sessions.Clear(w)
	apiutil.WriteMessage(w, r, msgLoggedOut)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if !apiutil.AllowMethod(w, r, http.MethodGet) {
		return
	}
	identity, err := authz.IdentityFromContext(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	user, err := models.GetUser(r.Context(), h.db.Queries, identity.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: msgUserNotFound, Err: err})
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, sessionUser{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if !apiutil.AllowMethod(w, r, http.MethodGet) {
		return
	}
	if _, err := authz.IdentityFromContext(r.Context()); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (h *Handler) allowBurst(w http.ResponseWriter) bool {
	if h.bucket.Allow() {
		return true
	}
	w.Header().Set("Retry-After", "1")
	_ = apiutil.WriteJSON(w, http.StatusTooManyRequests, apiutil.ErrorResponse{Error: msgTooManyRequests})
	return false
}

func tooManyRequests(w http.ResponseWriter, r *http.Request, result ratelimit.LimitResult) {
	seconds := int(result.RetryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	if err := apiutil.WriteJSON(w, http.StatusTooManyRequests, apiutil.ErrorResponse{Error: msgTooManyRequests}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
