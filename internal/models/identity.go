package models

// Identity is the caller as resolved at the request boundary.
type Identity struct {
	UserID  int64
	IsAdmin bool
}

func RequireIdentity(identity *Identity) error {
	if identity == nil || identity.UserID <= 0 {
		return ErrUnauthenticated
	}
	return nil
}

func RequireAdmin(identity *Identity) error {
	if err := RequireIdentity(identity); err != nil {
		return err
	}
	if !identity.IsAdmin {
		return ErrForbidden
	}
	return nil
}
