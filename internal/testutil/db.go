package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tennisverein/courtbook/internal/db"
	dbgen "github.com/tennisverein/courtbook/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// CreateUser inserts an active user. The password hash is a placeholder and
// will not verify against any password.
func CreateUser(t *testing.T, database *db.DB, email string, isAdmin bool) dbgen.User {
	t.Helper()

	user, err := database.Queries.CreateUser(context.Background(), dbgen.CreateUserParams{
		Name:         "Test " + email,
		Email:        email,
		PasswordHash: "unused",
		IsAdmin:      isAdmin,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}
