package authz

import (
	"context"

	"github.com/tennisverein/courtbook/internal/models"
)

var (
	ErrUnauthenticated = models.ErrUnauthenticated
	ErrSessionExpired  = models.ErrSessionExpired
	ErrForbidden       = models.ErrForbidden
)

type AuthUser struct {
	ID      int64
	Email   string
	IsAdmin bool
}

// Identity converts the session user into the caller identity the stores expect.
func (u *AuthUser) Identity() *models.Identity {
	if u == nil {
		return nil
	}
	return &models.Identity{UserID: u.ID, IsAdmin: u.IsAdmin}
}

type userContextKey struct{}
type sessionExpiredKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// ContextWithExpiredSession marks that the request carried a session token
// that had run out, so callers can tell "log in again" apart from "log in".
func ContextWithExpiredSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionExpiredKey{}, true)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

func SessionExpired(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	expired, _ := ctx.Value(sessionExpiredKey{}).(bool)
	return expired
}

// IdentityFromContext returns the caller or the reason there is none.
func IdentityFromContext(ctx context.Context) (*models.Identity, error) {
	user := UserFromContext(ctx)
	if user == nil {
		if SessionExpired(ctx) {
			return nil, ErrSessionExpired
		}
		return nil, ErrUnauthenticated
	}
	return user.Identity(), nil
}

func RequireAdmin(ctx context.Context) (*models.Identity, error) {
	identity, err := IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin {
		return nil, ErrForbidden
	}
	return identity, nil
}
