package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tennisverein/courtbook/internal/models"
)

const maxBodyBytes = 1 << 20

// HandlerError overrides the status and message WriteError would pick.
type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is the body of write operations that only confirm.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

// DecodeJSONOrFail decodes the body and answers 400 on failure.
func DecodeJSONOrFail(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := DecodeJSON(r, dst); err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("Rejected request body")
		_ = WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidInput})
		return false
	}
	return true
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

func WriteMessage(w http.ResponseWriter, r *http.Request, message string) {
	if err := WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: message}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

// WriteError maps err onto a status and a user-facing message. Errors that
// match no known rejection are logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	var herr HandlerError
	if errors.As(err, &herr) {
		if herr.Status >= http.StatusInternalServerError {
			logger.Error().Err(herr.Err).Msg(herr.Message)
		}
		_ = WriteJSON(w, herr.Status, ErrorResponse{Error: herr.Message})
		return
	}

	status, message := StatusFor(err)
	resp := ErrorResponse{Error: message}

	var invalid *models.InvalidInputError
	if errors.As(err, &invalid) {
		resp.Details = invalid.Details()
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}

	if err := WriteJSON(w, status, resp); err != nil {
		logger.Error().Err(err).Msg("Failed to write error response")
	}
}

// AllowMethod answers 405 unless r uses one of methods.
func AllowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	_ = WriteJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Methode nicht erlaubt"})
	return false
}
