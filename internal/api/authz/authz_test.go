package authz

import (
	"context"
	"errors"
	"testing"
)

func TestIdentityFromContextUnauthenticated(t *testing.T) {
	_, err := IdentityFromContext(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestIdentityFromContextExpired(t *testing.T) {
	ctx := ContextWithExpiredSession(context.Background())

	_, err := IdentityFromContext(ctx)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestIdentityFromContextUser(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 7, Email: "a@example.com"})

	identity, err := IdentityFromContext(ctx)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if identity.UserID != 7 || identity.IsAdmin {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestRequireAdmin(t *testing.T) {
	member := ContextWithUser(context.Background(), &AuthUser{ID: 1})
	if _, err := RequireAdmin(member); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	admin := ContextWithUser(context.Background(), &AuthUser{ID: 2, IsAdmin: true})
	identity, err := RequireAdmin(admin)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if !identity.IsAdmin {
		t.Fatal("expected admin identity")
	}

	if _, err := RequireAdmin(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUserFromContextNil(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	if UserFromContext(nil) != nil {
		t.Fatal("expected nil user for nil context")
	}
}
