package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteServiceError maps service sentinel errors to HTTP status codes.
// Anything unmatched is treated as a storage or upstream failure.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateSymbol),
		errors.Is(err, models.ErrLimitExceeded),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrIncompleteOrder):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrAlreadyExists):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrQuoteUnavailable):
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		WriteError(w, http.StatusBadGateway, err.Error())
	}
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// RequireUser resolves the request's user id, writing a 401 when the
// identity header is missing.
func RequireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := common.ResolveUserID(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "X-User-ID header required")
		return "", false
	}
	return userID, true
}
