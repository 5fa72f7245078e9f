package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/architeacher/loaner/internal/domain/model"
	"github.com/architeacher/loaner/internal/usecases/actions"
	"github.com/architeacher/loaner/pkg/circuitbreaker"
)

const (
	contentTypeHeader = "Content-Type"
	applicationJSON   = "application/json"
)

var (
	errMalformedBody = errors.New("malformed request body")
	errBodyTooLarge  = errors.New("request body too large")
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set(contentTypeHeader, applicationJSON)
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// mapError translates action and domain errors to an HTTP status and code.
func mapError(err error) (int, string) {
	var lockErr *actions.LockDeviceError

	switch {
	case errors.As(err, &lockErr), errors.Is(err, model.ErrInvalidDeviceID), errors.Is(err, model.ErrMissingActor),
		errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"
	case errors.Is(err, actions.ErrUnknownAction):
		return http.StatusNotFound, "UNKNOWN_ACTION"
	case errors.Is(err, model.ErrDeviceNotFound):
		return http.StatusNotFound, "DEVICE_NOT_FOUND"
	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
