// internal/models/errors.go
package models

import (
	"errors"
	"strings"
)

// Rejection kinds shared by the booking core, the admin stores, and the HTTP
// layer. Anything not wrapping one of these is an internal failure.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrSessionExpired    = errors.New("session expired")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRange      = errors.New("start date after end date")
	ErrNotFound          = errors.New("not found")
	ErrQuotaExceeded     = errors.New("booking quota exceeded")
	ErrTooFarInAdvance   = errors.New("date beyond advance booking period")
	ErrInThePast         = errors.New("date in the past")
	ErrLeadTimeViolation = errors.New("start time too soon")
	ErrSlotBlocked       = errors.New("slot blocked")
	ErrSlotTaken         = errors.New("slot already booked")
	ErrDuplicateEmail    = errors.New("email already registered")
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return e.Field + " " + e.Reason
}

// InvalidInputError carries per-field detail and matches ErrInvalidInput.
type InvalidInputError struct {
	Fields []FieldError
}

func (e *InvalidInputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// Details returns the field errors keyed by field name.
func (e *InvalidInputError) Details() map[string]string {
	details := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := details[f.Field]; !ok {
			details[f.Field] = f.Reason
		}
	}
	return details
}

func invalidField(field, reason string) error {
	return &InvalidInputError{Fields: []FieldError{{Field: field, Reason: reason}}}
}
