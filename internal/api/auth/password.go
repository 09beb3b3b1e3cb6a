package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/tennisverein/courtbook/internal/models"
)

// PasswordCost is the bcrypt cost for new hashes. Tests lower it.
var PasswordCost = bcrypt.DefaultCost

// HashPassword wraps bcrypt.GenerateFromPassword for local auth storage.
// Passwords over 72 bytes are reported as invalid input.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &models.InvalidInputError{Fields: []models.FieldError{{Field: "password", Reason: "must be at most 72 bytes"}}}
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword wraps bcrypt.CompareHashAndPassword for local auth checks.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
