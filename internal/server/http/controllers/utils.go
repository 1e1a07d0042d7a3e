package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/vanzaam/LibreOOPWeb/internal/docstore"
	"github.com/vanzaam/LibreOOPWeb/internal/gate"
	"github.com/vanzaam/LibreOOPWeb/internal/reading"
)

// response is the fixed envelope every endpoint returns.
type response struct {
	Error   bool   `json:"error"`
	Command string `json:"command"`
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

// writeSuccess writes a 200 envelope with error=false.
func writeSuccess(w http.ResponseWriter, command, message string, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response{
		Command: command,
		Message: message,
		Result:  result,
	})
}

// writeFailure writes an envelope with error=true and the status mapped
// from err.
func writeFailure(w http.ResponseWriter, command string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	_ = json.NewEncoder(w).Encode(response{
		Error:   true,
		Command: command,
		Message: failureMessage(command, err),
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case reading.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, gate.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, reading.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, docstore.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func failureMessage(command string, err error) string {
	switch {
	case errors.Is(err, gate.ErrPermissionDenied):
		return command + " Denied: " + err.Error()
	case errors.Is(err, docstore.ErrTimeout):
		return command + " Failed: Timeout, database down?"
	default:
		return command + " Failed: " + err.Error()
	}
}

// writeMethodNotAllowed writes a 405 envelope.
func writeMethodNotAllowed(w http.ResponseWriter, command string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(w).Encode(response{
		Error:   true,
		Command: command,
		Message: command + " Failed: method not allowed",
	})
}

// callerToken extracts the caller credential from the Authorization bearer
// header, falling back to the accessToken form field.
func callerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.FormValue("accessToken")
}

// parseLimit parses a limit string. Returns 0 for empty or invalid values.
func parseLimit(limitStr string) int {
	if limitStr == "" {
		return 0
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return 0
}

// parseBool parses a boolean string. Returns true for "true" or "1".
func parseBool(s string) bool {
	return s == "true" || s == "1"
}
