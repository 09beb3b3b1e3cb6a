package apiutil

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tennisverein/courtbook/internal/models"
)

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &models.InvalidInputError{Fields: []models.FieldError{{Field: field, Reason: "is required"}}}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, &models.InvalidInputError{Fields: []models.FieldError{{Field: field, Reason: "must be greater than 0"}}}
	}
	return value, nil
}

// ParseInt64Field accepts any integer. Lookups by id use it so that a
// well-formed id that cannot exist reads as not found.
func ParseInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &models.InvalidInputError{Fields: []models.FieldError{{Field: field, Reason: "is required"}}}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &models.InvalidInputError{Fields: []models.FieldError{{Field: field, Reason: "must be an integer"}}}
	}
	return value, nil
}

// QueryInt64 reads an integer query parameter of any sign.
func QueryInt64(r *http.Request, key string) (int64, error) {
	return ParseInt64Field(r.URL.Query().Get(key), key)
}

// QueryID reads a positive integer query parameter.
func QueryID(r *http.Request, key string) (int64, error) {
	return ParsePositiveInt64Field(r.URL.Query().Get(key), key)
}

// CourtDateFromQuery reads the courtId and date parameters shared by the
// schedule endpoints. Date format is checked by the store.
func CourtDateFromQuery(r *http.Request) (int64, string, error) {
	courtID, err := QueryID(r, "courtId")
	if err != nil {
		return 0, "", err
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		return 0, "", &models.InvalidInputError{Fields: []models.FieldError{{Field: "date", Reason: "is required"}}}
	}
	return courtID, date, nil
}
