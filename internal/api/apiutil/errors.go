package apiutil

import (
	"errors"
	"net/http"

	"github.com/tennisverein/courtbook/internal/models"
)

const (
	msgInvalidInput = "Ungültige Eingabedaten"
	msgInternal     = "Interner Serverfehler"
)

var errorTable = []struct {
	err     error
	status  int
	message string
}{
	{models.ErrSessionExpired, http.StatusUnauthorized, "Deine Sitzung ist abgelaufen. Bitte melde dich erneut an."},
	{models.ErrUnauthenticated, http.StatusUnauthorized, "Du bist nicht eingeloggt!"},
	{models.ErrForbidden, http.StatusForbidden, "Keine Berechtigung"},
	{models.ErrNotFound, http.StatusNotFound, "Nicht gefunden"},
	{models.ErrDuplicateEmail, http.StatusConflict, "Diese E-Mail ist bereits registriert"},
	{models.ErrInvalidInput, http.StatusBadRequest, msgInvalidInput},
	{models.ErrInvalidRange, http.StatusBadRequest, "Das Startdatum muss vor dem Enddatum liegen"},
	{models.ErrQuotaExceeded, http.StatusBadRequest, "Du hast bereits die maximale Anzahl an Buchungen erreicht"},
	{models.ErrTooFarInAdvance, http.StatusBadRequest, "Dieses Datum liegt zu weit in der Zukunft"},
	{models.ErrInThePast, http.StatusBadRequest, "Das Datum liegt in der Vergangenheit"},
	{models.ErrLeadTimeViolation, http.StatusBadRequest, "Diese Startzeit ist zu kurzfristig"},
	{models.ErrSlotBlocked, http.StatusBadRequest, "Der Platz ist zu dieser Zeit gesperrt"},
	{models.ErrSlotTaken, http.StatusBadRequest, "Der Platz ist schon belegt!"},
}

// StatusFor returns the HTTP status and German message for err.
func StatusFor(err error) (int, string) {
	for _, entry := range errorTable {
		if errors.Is(err, entry.err) {
			return entry.status, entry.message
		}
	}
	return http.StatusInternalServerError, msgInternal
}
