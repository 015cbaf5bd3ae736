package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// encodeBuffers keeps JSON encoding off the ResponseWriter so a failed encode
// can still answer 500 instead of a truncated body.
var encodeBuffers = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := encodeBuffers.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		encodeBuffers.Put(buf)
	}()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgGenericServerError + `"}`))
		return
	}

	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and writes the mapped status and user message.
// Client errors are logged at info level, server errors at error level.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Info(opName+" rejected", "status", status, "error", err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondJSON(w, status, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnavailableError    = "Service is temporarily unavailable. Please try again later."
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	ErrMsgInvalidFormatError    = "Invalid code format. Codes are 8 letters and digits."
	ErrMsgCodeNotFoundError     = "That code was not found. Check it and try again."
	ErrMsgCodeExpiredError      = "That code is no longer valid."
	ErrMsgAlreadyLinkedError    = "This account is already linked."
	ErrMsgDiscordInUseError     = "This Discord account is already linked to another account."
	ErrMsgAccountNotFoundError  = "Account not found."
	ErrMsgAccountNotLinkedError = "No account is linked to this Discord user."
	ErrMsgAccountBannedError    = "This account is banned."
	ErrMsgInvalidCredentials    = "Invalid credentials."
	ErrMsgUsernameTakenError    = "That username is already taken."
	ErrMsgEmailTakenError       = "That email is already registered."
	ErrMsgRegistrationBusyError = "Could not create your account right now. Please try again."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Anything unrecognised becomes a generic 500 so store details never reach the client.
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.Is(err, domain.ErrInvalidFormat):
		return http.StatusBadRequest, ErrMsgInvalidFormatError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, ErrMsgCodeNotFoundError
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusGone, ErrMsgCodeExpiredError
	case errors.Is(err, domain.ErrAlreadyLinked):
		return http.StatusConflict, ErrMsgAlreadyLinkedError
	case errors.Is(err, domain.ErrDuplicateExternalID):
		return http.StatusConflict, ErrMsgDiscordInUseError
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict, ErrMsgUsernameTakenError
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, ErrMsgEmailTakenError
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrMsgInvalidCredentials
	case errors.Is(err, domain.ErrAccountBanned):
		return http.StatusForbidden, ErrMsgAccountBannedError
	case errors.Is(err, domain.ErrAccountNotLinked):
		return http.StatusNotFound, ErrMsgAccountNotLinkedError
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, ErrMsgAccountNotFoundError
	case errors.Is(err, domain.ErrGenerationExhausted), errors.Is(err, domain.ErrDuplicateLinkCode):
		return http.StatusServiceUnavailable, ErrMsgRegistrationBusyError
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
