// Package apierror defines the JSON error envelope shared by handlers and
// middleware: {"error":{"code":"...","message":"..."}}.
package apierror

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in Detail.Code.
const (
	CodeNotFound        = "not_found"
	CodeValidation      = "validation_error"
	CodeForbidden       = "forbidden"
	CodeUnauthenticated = "unauthenticated"
	CodeTooLarge        = "request_too_large"
	CodeRateLimited     = "rate_limited"
	CodeInternal        = "internal_error"
)

// Detail is the machine-readable code plus a message safe to show users.
type Detail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Body is the error response envelope.
type Body struct {
	Error Detail `json:"error"`
}

// New returns a Body for code and message.
func New(code, message string) Body {
	return Body{Error: Detail{Code: code, Message: message}}
}

// Write sends body as JSON with the given status.
func Write(w http.ResponseWriter, status int, body Body) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
