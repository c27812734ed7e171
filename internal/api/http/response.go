package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/security"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// APIResponse is the envelope for every /api/v1 response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const genericErrorMessage = "Something went wrong. Please try again."

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, APIResponse{Error: &APIError{Code: code, Message: message}})
}

// errorStatus maps a service error onto an HTTP status, an error code and a
// client-safe message.
func errorStatus(err error) (int, string, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "VALIDATION_ERROR", verr.Error()
	case errors.Is(err, domain.ErrNoEvents):
		return http.StatusUnprocessableEntity, "NO_EVENTS", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Resource not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "You do not have access to this resource"
	case errors.Is(err, security.ErrExpiredToken):
		return http.StatusUnauthorized, "TOKEN_EXPIRED", "Session expired, please sign in again"
	case errors.Is(err, security.ErrInvalidToken):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Invalid session token"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", genericErrorMessage
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := errorStatus(err)
	if status >= 500 {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeErrorCode(w, status, code, message)
}

// decodeJSON reads a single JSON object from the body. Unknown fields are
// rejected so typos surface as 400s.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError("body", "invalid JSON body: %v", err)
	}
	return nil
}
