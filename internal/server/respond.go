package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"testplanner/internal/api"
	"testplanner/pkg/logging"
)

// Metadata is the status block of every response.
type Metadata struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every response body.
type Envelope struct {
	Metadata Metadata    `json:"metadata"`
	Data     interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(Envelope{
		Metadata: Metadata{Code: code, Message: http.StatusText(code)},
		Data:     data,
	}); err != nil {
		logging.Error("HTTPServer", err, "Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logging.Error("HTTPServer", err, "Request failed")
		message = "Internal Server Error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Envelope{Metadata: Metadata{Code: code, Message: message}})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case api.IsValidation(err):
		return http.StatusBadRequest
	case api.IsNotFound(err):
		return http.StatusNotFound
	case api.IsConflict(err):
		return http.StatusConflict
	case api.IsAuthentication(err):
		return http.StatusUnauthorized
	case api.IsPlatformError(err):
		return http.StatusBadGateway
	case errors.Is(err, api.ErrTestPlanHandlerNotRegistered),
		errors.Is(err, api.ErrMappingHandlerNotRegistered),
		errors.Is(err, api.ErrCredentialHandlerNotRegistered),
		errors.Is(err, api.ErrResultHandlerNotRegistered):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
