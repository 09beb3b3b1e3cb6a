// internal/models/users.go
package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tennisverein/courtbook/internal/db"
	dbgen "github.com/tennisverein/courtbook/internal/db/generated"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Registration is the self-service signup form.
type Registration struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72,bcryptlen"`
}

// NewUser is a user ready for insertion; the password is already hashed.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	IsActive     bool
}

type UserUpdate struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	IsAdmin  bool   `json:"isAdmin"`
	IsActive bool   `json:"isActive"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func UserFromRow(row dbgen.User) User {
	return User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		IsAdmin:   row.IsAdmin,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
	}
}

// ValidateRegistration trims and validates a signup form in place.
func ValidateRegistration(reg *Registration) error {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = NormalizeEmail(reg.Email)
	return ValidateStruct(reg)
}

// PasswordReset is an administrator-issued password change.
type PasswordReset struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72,bcryptlen"`
}

func ValidatePasswordReset(in *PasswordReset) error {
	in.Email = NormalizeEmail(in.Email)
	return ValidateStruct(in)
}

func CreateUser(ctx context.Context, q dbgen.Querier, in NewUser) (User, error) {
	if in.PasswordHash == "" {
		return User{}, fmt.Errorf("password hash is required")
	}
	row, err := q.CreateUser(ctx, dbgen.CreateUserParams{
		Name:         strings.TrimSpace(in.Name),
		Email:        NormalizeEmail(in.Email),
		PasswordHash: in.PasswordHash,
		IsAdmin:      in.IsAdmin,
		IsActive:     in.IsActive,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return UserFromRow(row), nil
}

// UserForLogin returns the stored row, password hash included.
func UserForLogin(ctx context.Context, q dbgen.Querier, email string) (dbgen.User, error) {
	row, err := q.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.User{}, ErrNotFound
		}
		return dbgen.User{}, fmt.Errorf("load user: %w", err)
	}
	return row, nil
}

func GetUser(ctx context.Context, q dbgen.Querier, id int64) (User, error) {
	row, err := q.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("load user: %w", err)
	}
	return UserFromRow(row), nil
}

func ListUsers(ctx context.Context, q dbgen.Querier, identity *Identity) ([]User, error) {
	if err := RequireAdmin(identity); err != nil {
		return nil, err
	}
	rows, err := q.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]User, 0, len(rows))
	for _, row := range rows {
		users = append(users, UserFromRow(row))
	}
	return users, nil
}

// UpdateUser applies an admin edit. activated reports whether the account
// went from inactive to active with this change.
func UpdateUser(ctx context.Context, q dbgen.Querier, identity *Identity, upd UserUpdate) (user User, activated bool, err error) {
	if err := RequireAdmin(identity); err != nil {
		return User{}, false, err
	}
	upd.Name = strings.TrimSpace(upd.Name)
	upd.Email = NormalizeEmail(upd.Email)
	if err := ValidateStruct(upd); err != nil {
		return User{}, false, err
	}

	before, err := GetUser(ctx, q, upd.ID)
	if err != nil {
		return User{}, false, err
	}

	row, err := q.UpdateUser(ctx, dbgen.UpdateUserParams{
		Name:     upd.Name,
		Email:    upd.Email,
		IsAdmin:  upd.IsAdmin,
		IsActive: upd.IsActive,
		ID:       upd.ID,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, false, ErrDuplicateEmail
		}
		return User{}, false, fmt.Errorf("update user: %w", err)
	}

	user = UserFromRow(row)
	return user, !before.IsActive && user.IsActive, nil
}

// SetUserActive flips the active flag by email. Used by the admin CLI.
func SetUserActive(ctx context.Context, q dbgen.Querier, email string, active bool) (User, error) {
	row, err := q.SetUserActiveByEmail(ctx, dbgen.SetUserActiveByEmailParams{
		IsActive: active,
		Email:    NormalizeEmail(email),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("set user active: %w", err)
	}
	return UserFromRow(row), nil
}

// SetUserPassword replaces the stored hash for the user with this email.
// Used by the admin CLI.
func SetUserPassword(ctx context.Context, q dbgen.Querier, email, passwordHash string) error {
	row, err := UserForLogin(ctx, q, email)
	if err != nil {
		return err
	}
	if err := q.SetUserPassword(ctx, dbgen.SetUserPasswordParams{PasswordHash: passwordHash, ID: row.ID}); err != nil {
		return fmt.Errorf("set user password: %w", err)
	}
	return nil
}
