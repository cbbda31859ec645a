// Package apierr writes the JSON error envelope used by the calculator API.
package apierr

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error codes.
const (
	ErrInvalidRequest = "VAL_001" // malformed body or unparseable number
	ErrUnknownRoute   = "NOT_001" // unknown calculator or scenario
	ErrInternalServer = "SRV_001"
	ErrDatabase       = "SRV_002"
)

var httpStatusMap = map[string]int{
	ErrInvalidRequest: http.StatusBadRequest,
	ErrUnknownRoute:   http.StatusNotFound,
	ErrInternalServer: http.StatusInternalServerError,
	ErrDatabase:       http.StatusInternalServerError,
}

// APIError is the body of every API error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// Status returns the HTTP status for code, 500 when unknown.
func Status(code string) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Write sends the error envelope with the status mapped from code.
func Write(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(code))
	_ = json.NewEncoder(w).Encode(APIError{Code: code, Message: message})
}
