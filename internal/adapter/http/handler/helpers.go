package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/sarraf/internal/adapter/http/dto"
	"github.com/iho/sarraf/internal/domain"
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

// writeDomainError maps a domain error to a status code and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapDomainError(err), err.Error(), "")
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrUnknownSubAccount),
		errors.Is(err, domain.ErrMovementNotFound),
		errors.Is(err, domain.ErrHawalaNotFound),
		errors.Is(err, domain.ErrExchangeNotFound),
		errors.Is(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidScale),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidLabel),
		errors.Is(err, domain.ErrUnknownCurrency),
		errors.Is(err, domain.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrSameCurrency),
		errors.Is(err, domain.ErrUnknownTransactionKind),
		errors.Is(err, domain.ErrForeignSubAccount),
		errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConcurrentConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrNoActor):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// actorOrFail extracts the resolved actor or writes a 401.
func actorOrFail(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := domain.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor resolved for request", "")
		return domain.Actor{}, false
	}
	return actor, true
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
