package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tiagobluiz/splitbill/internal/adapter/http/dto"
	"github.com/tiagobluiz/splitbill/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to an HTTP error response. Split
// validation failures carry their full violation list.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	var verr *domain.SplitValidationError
	if errors.As(err, &verr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(dto.ErrorResponse{
			Error:      message,
			Message:    "split validation failed",
			Violations: verr.Violations,
		})
		return
	}

	writeError(w, mapDomainError(err), message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrPersonNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrInviteNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEventArchived):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidEventName),
		errors.Is(err, domain.ErrInvalidTimezone),
		errors.Is(err, domain.ErrInvalidDisplayName),
		errors.Is(err, domain.ErrInvalidEntryName),
		errors.Is(err, domain.ErrInvalidEntryType),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrPersonNotInEvent),
		errors.Is(err, domain.ErrAmountScale),
		errors.Is(err, domain.ErrAmountNotPositive),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrPercentScale),
		errors.Is(err, domain.ErrPercentOutOfRange),
		errors.Is(err, domain.ErrUnknownSplitMode),
		errors.Is(err, domain.ErrUnknownAlgorithm):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseUUIDParam parses a UUID path parameter.
func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, key))
}
