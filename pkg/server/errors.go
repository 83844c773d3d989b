package server

import (
	"encoding/json"
	"net/http"

	"mercator-hq/pricebook/pkg/processing"
)

// Error types that are not engine error kinds.
const (
	TypeInvalidRequest = "invalid_request"
	TypeRateLimited    = "rate_limited"
)

// APIError is the error object in every failed response.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorResponse is the body of a failed response. Estimate is set for failed
// estimates so clients can keep rendering a zero-valued row.
type ErrorResponse struct {
	Error    APIError    `json:"error"`
	Estimate interface{} `json:"estimate,omitempty"`
}

// statusFor maps an engine error kind to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case processing.KindUnknownModel, processing.KindUnknownProvider, processing.KindUnknownUsage:
		return http.StatusNotFound
	case processing.KindMalformedInput, processing.KindTokenEstimation, processing.KindNoTier, processing.KindFileRead:
		return http.StatusUnprocessableEntity
	case TypeInvalidRequest:
		return http.StatusBadRequest
	case TypeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, kind, message string, estimate interface{}) {
	writeJSON(w, statusFor(kind), ErrorResponse{
		Error:    APIError{Type: kind, Message: message},
		Estimate: estimate,
	})
}

// writeEngineError writes err with the status of its kind. Internal errors
// get a generic message.
func writeEngineError(w http.ResponseWriter, err error, estimate interface{}) {
	kind := processing.ErrorKind(err)
	msg := err.Error()
	if kind == processing.KindInternal {
		msg = "An internal error occurred."
	}
	writeError(w, kind, msg, estimate)
}
