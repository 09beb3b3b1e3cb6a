package models

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tennisverein/courtbook/internal/testutil"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	in := NewUser{Name: "Anna", Email: "Anna@Example.com ", PasswordHash: "hash"}
	user, err := CreateUser(ctx, database.Queries, in)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "anna@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.IsActive || user.IsAdmin {
		t.Fatalf("expected inactive non-admin user, got %+v", user)
	}

	_, err = CreateUser(ctx, database.Queries, NewUser{Name: "Other", Email: "anna@example.com", PasswordHash: "hash"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestValidateRegistration(t *testing.T) {
	reg := Registration{Name: " A ", Email: "not-an-email", Password: "123"}
	err := ValidateRegistration(&reg)

	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	details := invalid.Details()
	for _, field := range []string{"name", "email", "password"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("expected %s in details, got %v", field, details)
		}
	}
}

func TestValidateRegistrationCountsPasswordBytes(t *testing.T) {
	reg := Registration{Name: "Jörg", Email: "j@example.com", Password: strings.Repeat("ü", 36)}
	if err := ValidateRegistration(&reg); err != nil {
		t.Fatalf("72 bytes should pass, got %v", err)
	}

	reg.Password = strings.Repeat("ü", 37)
	var invalid *InvalidInputError
	if err := ValidateRegistration(&reg); !errors.As(err, &invalid) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, ok := invalid.Details()["password"]; !ok {
		t.Fatalf("expected password detail, got %v", invalid.Details())
	}
}

func TestUpdateUserReportsActivation(t *testing.T) {
	database := testutil.NewTestDB(t)
	admin := testutil.CreateUser(t, database, "admin@example.com", true)
	ctx := context.Background()

	pending, err := CreateUser(ctx, database.Queries, NewUser{Name: "Ben", Email: "ben@example.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	identity := &Identity{UserID: admin.ID, IsAdmin: true}
	updated, activated, err := UpdateUser(ctx, database.Queries, identity, UserUpdate{
		ID:       pending.ID,
		Name:     pending.Name,
		Email:    pending.Email,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if !activated || !updated.IsActive {
		t.Fatalf("expected activation, got activated=%v user=%+v", activated, updated)
	}

	_, activated, err = UpdateUser(ctx, database.Queries, identity, UserUpdate{
		ID:       pending.ID,
		Name:     "Benjamin",
		Email:    pending.Email,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if activated {
		t.Fatal("expected no activation when already active")
	}

	_, _, err = UpdateUser(ctx, database.Queries, identity, UserUpdate{
		ID:    pending.ID,
		Name:  "Ben",
		Email: "admin@example.com",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	_, _, err = UpdateUser(ctx, database.Queries, identity, UserUpdate{ID: 9999, Name: "Nobody", Email: "nobody@example.com"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetUserActive(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database.Queries, NewUser{Name: "Cara", Email: "cara@example.com", PasswordHash: "hash"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	user, err := SetUserActive(ctx, database.Queries, "CARA@example.com", true)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !user.IsActive {
		t.Fatal("expected user to be active")
	}
	if _, err := SetUserActive(ctx, database.Queries, "missing@example.com", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetUserPassword(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database.Queries, NewUser{Name: "Dora", Email: "dora@example.com", PasswordHash: "old"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := SetUserPassword(ctx, database.Queries, " Dora@Example.com ", "new"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	row, err := UserForLogin(ctx, database.Queries, "dora@example.com")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if row.PasswordHash != "new" {
		t.Fatalf("expected new hash, got %q", row.PasswordHash)
	}

	if err := SetUserPassword(ctx, database.Queries, "nobody@example.com", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestValidatePasswordReset(t *testing.T) {
	in := PasswordReset{Email: " Dora@Example.com", Password: "kurz"}
	err := ValidatePasswordReset(&in)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) || invalid.Details()["password"] == "" {
		t.Fatalf("expected password detail, got %v", err)
	}
	if in.Email != "dora@example.com" {
		t.Fatalf("expected normalized email, got %q", in.Email)
	}

	in = PasswordReset{Email: "dora@example.com", Password: strings.Repeat("ü", 37)}
	if err := ValidatePasswordReset(&in); !errors.As(err, &invalid) {
		t.Fatalf("expected byte limit failure, got %v", err)
	}

	in = PasswordReset{Email: "dora@example.com", Password: "aufschlag1"}
	if err := ValidatePasswordReset(&in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
